// Package ledger tracks completed cleanup actions across runs.
//
// The ledger is a small index keyed by (path, content fingerprint, action).
// Before the engine applies a destructive action it asks the ledger whether
// the same action already completed for identical content; after a successful
// apply it marks the action done. This is what makes re-running after a
// partial failure idempotent: already-archived files are not re-archived and
// freed bytes are not double-counted, while a file whose content changed
// since the last run gets a fresh fingerprint and is processed again.
//
// Unlike the audit log, which is an append-only record of everything that
// happened, the ledger holds only the latest completion per key and may be
// rebuilt from the audit log at any time.
package ledger

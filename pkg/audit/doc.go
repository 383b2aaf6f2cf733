// Package audit records the outcome of every cleanup action in an
// append-only log.
//
// One run produces one log segment: the engine opens the sink at run start,
// appends an ExecutionOutcome per processed entry, and closes it at run end.
// Records are never updated or deleted by the engine; the log is the audit
// trail that makes destructive actions accountable, and write failures are
// fatal to the run because an unlogged destructive action is worse than an
// aborted one.
//
// The log doubles as the engine's memory across runs: a re-run queries prior
// outcomes by path and content fingerprint to skip work that already
// completed, which is what makes re-running after a partial failure
// idempotent.
package audit

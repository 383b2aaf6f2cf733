// Package storage provides the filesystem and cold-storage collaborators the
// cleanup engine acts through.
//
// The engine never touches os directly for destructive work: it deletes,
// overwrites, compresses, and archives through the Backend and Archiver
// interfaces so runs can target a local tree today and an object store later
// without changing decision logic.
//
// Archive writes are verified: the archiver returns a receipt carrying the
// byte count and a BLAKE3 fingerprint of what was durably written, and the
// engine compares it against the source before any deletion. Content
// fingerprints also key the idempotence ledger, so a re-run recognizes work
// it has already completed.
package storage

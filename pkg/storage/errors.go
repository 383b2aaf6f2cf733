package storage

import "fmt"

// StorageError represents a failed storage operation on a single path.
// These are per-entry errors: the engine retries them with bounded backoff
// and records the entry Failed if the budget is exhausted.
type StorageError struct {
	Op    string // Operation that failed ("delete", "write", "compress", …)
	Path  string // Path being operated on
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [op=%s, path=%s]: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(op, path string, cause error) *StorageError {
	return &StorageError{Op: op, Path: path, Cause: cause}
}

// VerificationError reports an archive or compression write whose verification
// did not match the source. The source must never be deleted when this is
// returned.
type VerificationError struct {
	Path            string // Source path
	WantFingerprint string // Source fingerprint
	GotFingerprint  string // Fingerprint of what was written
	WantBytes       int64  // Source size
	GotBytes        int64  // Bytes written
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification failed for %s: want %d bytes %s, got %d bytes %s",
		e.Path, e.WantBytes, e.WantFingerprint, e.GotBytes, e.GotFingerprint)
}

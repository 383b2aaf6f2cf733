package audit

import "fmt"

// WriteError reports a failed append to the audit log. The engine aborts the
// run on this error: destructive actions must not proceed unlogged.
type WriteError struct {
	Backend string // Backend type ("sqlite", "memory")
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("audit write error [backend=%s]: %v", e.Backend, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// NewWriteError creates a new WriteError.
func NewWriteError(backend string, cause error) *WriteError {
	return &WriteError{Backend: backend, Cause: cause}
}

// QueryError represents a failure reading back audit records.
type QueryError struct {
	Backend string
	Cause   error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("audit query error [backend=%s]: %v", e.Backend, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// NewQueryError creates a new QueryError.
func NewQueryError(backend string, cause error) *QueryError {
	return &QueryError{Backend: backend, Cause: cause}
}

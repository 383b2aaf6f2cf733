package engine

import "fmt"

// ApprovalRequiredError marks an entry whose action was withheld because its
// category is irreversible and no approval token was supplied. It is surfaced
// per entry and never fatal to the run.
type ApprovalRequiredError struct {
	// Path is the entry that needs approval.
	Path string

	// Category is the irreversible category that triggered the gate.
	Category string
}

// Error implements the error interface.
func (e *ApprovalRequiredError) Error() string {
	return fmt.Sprintf("approval required to act on %s (category %s)", e.Path, e.Category)
}

// NewApprovalRequiredError creates an ApprovalRequiredError.
func NewApprovalRequiredError(path, category string) *ApprovalRequiredError {
	return &ApprovalRequiredError{Path: path, Category: category}
}

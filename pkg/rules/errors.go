package rules

import "fmt"

// InvalidPatternError reports a malformed glob rule. It is always raised when
// the rule set is compiled at configuration load, never during matching.
type InvalidPatternError struct {
	Glob   string // Offending pattern
	Reason string // Why it was rejected
}

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Glob, e.Reason)
}

// NewInvalidPatternError creates a new InvalidPatternError.
func NewInvalidPatternError(glob, reason string) *InvalidPatternError {
	return &InvalidPatternError{Glob: glob, Reason: reason}
}

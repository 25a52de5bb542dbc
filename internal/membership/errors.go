package membership

import (
	"errors"
	"fmt"
)

// Lifecycle operation errors.
var (
	// ErrNotFound indicates the member or application does not exist.
	ErrNotFound = errors.New("member not found")
	// ErrForbidden indicates the actor lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrBackendUnavailable indicates a data store failure.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// ValidationError reports a malformed input field on a transition or
// submission.
type ValidationError struct {
	Field   string // Offending field name.
	Message string // User-visible message.
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

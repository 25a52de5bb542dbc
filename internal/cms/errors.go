package cms

import (
	"errors"
	"fmt"
)

// Resolution and write errors.
var (
	// ErrNotFound indicates no matching published resource exists.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the actor lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrBackendUnavailable indicates a data store failure. Callers treat it
	// like ErrNotFound for rendering and never surface the underlying cause.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// ValidationError reports a malformed input field on a write operation.
type ValidationError struct {
	Field   string // Offending field name.
	Message string // User-visible message.
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

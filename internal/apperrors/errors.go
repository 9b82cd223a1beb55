// Package apperrors defines the typed errors surfaced by the lifecycle
// engine and the generation gateway. Callers match them with errors.Is
// and errors.As.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrProfileNotFound means the user has no candidate profile yet.
	ErrProfileNotFound = errors.New("candidate profile not found")

	// ErrApplicationNotFound means no job application matched the lookup.
	ErrApplicationNotFound = errors.New("job application not found")

	// ErrUnauthorized means the referenced application exists but belongs
	// to a different user. Kept distinct from not-found internally; the
	// HTTP layer presents both as 404 so callers cannot probe for
	// existence of other tenants' records.
	ErrUnauthorized = errors.New("application belongs to a different user")

	// ErrNoBackendAvailable means no generation backend has a usable
	// credential configured.
	ErrNoBackendAvailable = errors.New("no generation backend available")
)

// ValidationError reports a missing or malformed required field. It is
// always surfaced to the caller verbatim, never defaulted away.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// MalformedOutputError reports that a backend produced structured output
// that could not be parsed as JSON. Not retried, not swallowed.
type MalformedOutputError struct {
	Backend string
	Raw     string
	Err     error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("backend %s returned malformed structured output: %v", e.Backend, e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

package models

import (
	"errors"
	"fmt"
)

// ValidationError reports bad or missing input. It is detected before any
// outbound call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ProviderFailureMessage is the user-facing summary of a ProviderError.
const ProviderFailureMessage = "Failed to fetch from Jikan"

// ProviderError reports a failed call to the metadata provider. Status is
// the upstream HTTP status, or 0 when no response was received.
type ProviderError struct {
	Status int
	Detail string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return "metadata provider request failed: " + e.Detail
	}
	return fmt.Sprintf("metadata provider returned status %d: %s", e.Status, e.Detail)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// SelectionLimitError is returned when a selection is already full. It is a
// rejected local mutation, not a transport error.
type SelectionLimitError struct {
	Limit int
}

func (e *SelectionLimitError) Error() string {
	return "selection limit reached"
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsProvider reports whether err is or wraps a ProviderError.
func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

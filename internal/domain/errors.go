package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Every error returned by a service either is, or wraps, one of
// these; anything else is an infrastructure failure.
var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidDate          = errors.New("invalid date")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrValidation           = errors.New("validation error")
)

// ValidationError carries the individual messages of a failed validation.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Messages []string
}

// NewValidationError returns a ValidationError with the given messages.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

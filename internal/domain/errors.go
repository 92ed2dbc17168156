package domain

import (
	"errors"
	"fmt"
)

// Common error types
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// ErrVersionConflict is returned when a document changed between read and write
type ErrVersionConflict struct {
	DocumentID string
	Expected   int64
}

func (e *ErrVersionConflict) Error() string {
	return fmt.Sprintf("document %s was modified concurrently (expected version %d)", e.DocumentID, e.Expected)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// IsNotFound reports whether err wraps an *ErrNotFound
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// IsVersionConflict reports whether err wraps an *ErrVersionConflict
func IsVersionConflict(err error) bool {
	var vc *ErrVersionConflict
	return errors.As(err, &vc)
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

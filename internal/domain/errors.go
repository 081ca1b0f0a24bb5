package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a business, question or review does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicateEmail is returned when a business with the same owner email exists.
	ErrDuplicateEmail = errors.New("owner email already registered")
	// ErrInvalidCredentials is returned by login when the email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a bad input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

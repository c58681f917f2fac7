package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services; handlers map them to status codes
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrNotFound           = errors.New("not found")
	ErrFormNotFound       = fmt.Errorf("form %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrNoSubmissions      = errors.New("no submissions")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
)

// ValidationError reports a malformed request
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

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

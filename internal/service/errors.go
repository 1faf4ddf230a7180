package service

import (
	"errors"
	"fmt"
)

// Error kinds. Operations validate and check state before any write; a wrapped
// kind classifies the failure for the transport layer, which maps kinds to
// HTTP status codes. Everything unwrapped is an internal error.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)

// validationf wraps ErrValidation with a caller-visible message
func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFoundf wraps ErrNotFound with a caller-visible message
func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// forbiddenf wraps ErrForbidden with a caller-visible message
func forbiddenf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// conflictf wraps ErrConflict with a caller-visible message
func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// unavailablef wraps ErrUnavailable with a caller-visible message
func unavailablef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}

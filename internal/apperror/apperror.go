// Package apperror is the error taxonomy shared by the repository, service
// and handler layers.
//
// Each AppError wraps one sentinel. Callers test with errors.Is and never
// compare messages:
//
//	ErrValidation      → 400
//	ErrUnauthenticated → 401
//	ErrNotFound        → 404 (also used for another user's note)
//	ErrConflict        → 409
//
// Anything that wraps none of these is an unexpected failure and maps to 500.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// AppError carries a sentinel plus a message safe to show a client.
type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource. The message includes the id and is
// meant for logs; handlers send their own "<resource> not found" text.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation on field.
func Conflict(resource, field string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict on %s", resource, field),
		Field:   field,
	}
}

// Unauthenticated returns an AppError for a request with no valid session.
// HTTP handlers map this to 401 Unauthorized. Ownership failures are never
// reported this way; they surface as NotFound.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

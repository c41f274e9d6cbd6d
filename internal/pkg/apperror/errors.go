package apperror

import (
	"errors"
	"fmt"
)

// NotFoundError indicates the referenced resource does not exist (or is not visible to the caller).
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError indicates the store rejected a write because a concurrent transaction
// touched the same row (serialization failure, deadlock, busy lock).
type ConflictError struct {
	Resource string
	ID       string
	Message  string
	Err      error
}

func (e *ConflictError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "concurrent modification"
	}
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %s", e.Resource, e.ID, msg)
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// ValidationError indicates a client-side validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// ForbiddenError indicates insufficient access.
type ForbiddenError struct{}

func (e *ForbiddenError) Error() string {
	return "forbidden"
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

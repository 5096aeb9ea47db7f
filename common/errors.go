// Package common defines the error taxonomy shared by repositories, use cases
// and HTTP handlers. Callers match kinds with errors.Is.
package common

import "errors"

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized marks a missing session or a caller without a household.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound marks an absent entity, or one the caller does not own.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a unique violation or a stale version on write.
	ErrConflict = errors.New("conflict")
	// ErrInternal marks unexpected persistence or runtime failures.
	ErrInternal = errors.New("internal error")
)

// Error is an expected failure carrying a message that is safe to show users.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func Validation(msg string) error   { return &Error{Kind: ErrValidation, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }

// Message returns the user-visible message of err, or fallback when err is
// not an *Error.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}

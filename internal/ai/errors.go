package ai

import (
	"errors"
	"fmt"
)

// Sentinel errors for AI gateway operations.
var (
	// ErrNoInput is returned when a request would carry empty input.
	// No network call is made in that case.
	ErrNoInput = errors.New("ai: no input")
	// ErrUnavailable covers transport failures and non-2xx upstream responses.
	ErrUnavailable = errors.New("ai: service unavailable")
	// ErrInvalidResponse is returned when the upstream answered 2xx but the
	// payload does not match the expected shape (wrong dimensions, no choices).
	ErrInvalidResponse = errors.New("ai: invalid response")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // Operation: "embed", "chat", "speech", "transcribe"
	Model string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ai %s [%s]: %v", e.Op, e.Model, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, model string, err error) error {
	return &Error{Op: op, Model: model, Err: err}
}

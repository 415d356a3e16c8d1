package api

import (
	"errors"
	"fmt"
)

// Sentinels identify which operation failed. Match with errors.Is.
var (
	ErrFetch  = errors.New("failed to fetch todos")
	ErrCreate = errors.New("failed to add a new todo")
	ErrDelete = errors.New("failed to delete the todo")
	ErrUpdate = errors.New("failed to update the todo")
)

// Error is returned by every Client method. Its message is the fixed
// per-operation text; the transport or HTTP cause is kept for logging only.
type Error struct {
	Op    error
	Cause error
}

func (e *Error) Error() string { return e.Op.Error() }

// Is matches the operation sentinel.
func (e *Error) Is(target error) bool { return target == e.Op }

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// StatusError is the cause recorded for a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

package service

import (
	"errors"
	"fmt"
)

// Service errors checked by callers with errors.Is.
var (
	// ErrEventNotFound indicates the requested event does not exist.
	// API layer maps this to HTTP 404 Not Found.
	ErrEventNotFound = errors.New("event not found")

	// ErrCorruptEvent indicates a stored event exists but cannot be decoded
	// into a valid record. API layer maps this to HTTP 500.
	ErrCorruptEvent = errors.New("event record is corrupt")
)

// EventServiceError is a custom error type for event service errors.
type EventServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for EventServiceError.
func (e *EventServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("event service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("event service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *EventServiceError) Unwrap() error {
	return e.Err
}

// NewEventServiceError creates a new EventServiceError.
func NewEventServiceError(operation, message string, err error) *EventServiceError {
	return &EventServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

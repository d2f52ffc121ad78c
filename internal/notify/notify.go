package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/mctflow/mct-tracker/internal/domain"
)

// ErrDelivery is wrapped by every DeliveryError.
var ErrDelivery = errors.New("notification delivery failed")

// Notifier delivers the outcome of an event to a recipient.
type Notifier interface {
	// Notify sends the outcome (success or failure) of event to recipient.
	// The event is a snapshot; implementations must not modify it.
	Notify(ctx context.Context, event *domain.Event, recipient string, outcome domain.Status) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, event *domain.Event, recipient string, outcome domain.Status) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, event *domain.Event, recipient string, outcome domain.Status) error {
	return f(ctx, event, recipient, outcome)
}

// DeliveryError describes a failed delivery attempt.
type DeliveryError struct {
	Channel string
	EventID string
	Err     error
}

// Error implements the error interface for DeliveryError.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s notification for event %s failed: %v", e.Channel, e.EventID, e.Err)
}

// Unwrap returns the transport error.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Is reports ErrDelivery so callers can match any delivery failure.
func (e *DeliveryError) Is(target error) bool {
	return target == ErrDelivery
}

// NewDeliveryError wraps err for the given channel and event.
func NewDeliveryError(channel, eventID string, err error) error {
	if err == nil {
		return nil
	}
	return &DeliveryError{Channel: channel, EventID: eventID, Err: err}
}

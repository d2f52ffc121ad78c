package notify

import (
	"context"
	"errors"

	"github.com/mctflow/mct-tracker/internal/domain"
	"golang.org/x/time/rate"
)

// ErrNoRecipient is returned when an event has no contact address.
var ErrNoRecipient = errors.New("no recipient address")

// Sender sends a plain-text email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EmailNotifier renders outcomes and hands them to a Sender, optionally
// throttled to stay under the provider's sending rate.
type EmailNotifier struct {
	sender  Sender
	limiter *rate.Limiter
}

// NewEmailNotifier creates an EmailNotifier. A ratePerSecond of zero
// disables throttling.
func NewEmailNotifier(sender Sender, ratePerSecond float64) *EmailNotifier {
	n := &EmailNotifier{sender: sender}
	if ratePerSecond > 0 {
		n.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return n
}

// Notify implements Notifier.
func (n *EmailNotifier) Notify(ctx context.Context, event *domain.Event, recipient string, outcome domain.Status) error {
	if recipient == "" {
		return NewDeliveryError("email", event.EventID, ErrNoRecipient)
	}

	msg, err := Render(event, outcome)
	if err != nil {
		return NewDeliveryError("email", event.EventID, err)
	}

	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return NewDeliveryError("email", event.EventID, err)
		}
	}

	if err := n.sender.Send(ctx, recipient, msg.Subject, msg.Body); err != nil {
		return NewDeliveryError("email", event.EventID, err)
	}
	return nil
}

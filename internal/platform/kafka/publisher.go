// Package kafka publishes event outcomes to a Kafka topic, keyed by event
// id so all messages for one event land on the same partition.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/notify"
	kgo "github.com/segmentio/kafka-go"
)

// ErrNoTopic is returned when no topic is configured.
var ErrNoTopic = errors.New("kafka topic is required")

// Writer is the subset of *kafka.Writer used by Publisher.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kgo.Message) error
	Close() error
}

// OutcomeMessage is the payload published for every terminal outcome.
type OutcomeMessage struct {
	EventID   string        `json:"event_id"`
	Outcome   domain.Status `json:"outcome"`
	Recipient string        `json:"recipient"`
	Event     *domain.Event `json:"event"`
}

// Publisher implements notify.Notifier on a Kafka writer.
type Publisher struct {
	writer  Writer
	timeout time.Duration
	now     func() time.Time
}

var _ notify.Notifier = (*Publisher)(nil)

// NewPublisher creates a Publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string, timeout time.Duration) (*Publisher, error) {
	if topic == "" {
		return nil, ErrNoTopic
	}
	w := &kgo.Writer{
		Addr:         kgo.TCP(cleanBrokers(brokers)...),
		Topic:        topic,
		Balancer:     &kgo.Hash{},
		RequiredAcks: kgo.RequireOne,
	}
	return NewPublisherWithWriter(w, timeout), nil
}

// NewPublisherWithWriter creates a Publisher over an existing writer.
// A non-positive timeout defaults to three seconds.
func NewPublisherWithWriter(w Writer, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Publisher{writer: w, timeout: timeout, now: time.Now}
}

// Notify implements notify.Notifier.
func (p *Publisher) Notify(ctx context.Context, event *domain.Event, recipient string, outcome domain.Status) error {
	value, err := json.Marshal(OutcomeMessage{
		EventID:   event.EventID,
		Outcome:   outcome,
		Recipient: recipient,
		Event:     event,
	})
	if err != nil {
		return notify.NewDeliveryError("kafka", event.EventID, fmt.Errorf("failed to encode message: %w", err))
	}

	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.writer.WriteMessages(cctx, kgo.Message{
		Key:   []byte(event.EventID),
		Value: value,
		Time:  p.now(),
	})
	return notify.NewDeliveryError("kafka", event.EventID, err)
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func cleanBrokers(brokers []string) []string {
	out := make([]string, 0, len(brokers))
	for _, b := range brokers {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

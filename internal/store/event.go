package store

import (
	"context"

	"github.com/mctflow/mct-tracker/internal/domain"
)

// EventStore defines the interface for event record persistence.
// Implementations store the full record under its EventID.
type EventStore interface {
	// Create saves a new event record.
	// Returns ErrEventExists if a record with the same id is already stored;
	// an existing record is never overwritten.
	Create(ctx context.Context, event *domain.Event) error

	// Get retrieves an event record by id.
	// Returns ErrEventNotFound if the record does not exist and
	// ErrInvalidEntity if the stored record cannot be decoded.
	Get(ctx context.Context, id string) (*domain.Event, error)

	// Update overwrites an existing event record.
	// Returns ErrEventNotFound if the record does not exist.
	Update(ctx context.Context, event *domain.Event) error

	// List returns every stored event record. Order is unspecified.
	List(ctx context.Context) ([]*domain.Event, error)
}

// Package memory provides a process-local implementation of store.EventStore.
// Records are kept in their encoded form so callers never share state with
// the store.
package memory

import (
	"context"
	"sync"

	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/store"
)

// EventStore is an in-memory store.EventStore.
type EventStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

var _ store.EventStore = (*EventStore)(nil)

// NewEventStore creates an empty in-memory store.
func NewEventStore() *EventStore {
	return &EventStore{records: make(map[string][]byte)}
}

// Create implements store.EventStore.
func (s *EventStore) Create(_ context.Context, event *domain.Event) error {
	data, err := store.EncodeEvent(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[event.EventID]; ok {
		return store.ErrEventExists
	}
	s.records[event.EventID] = data
	return nil
}

// Get implements store.EventStore.
func (s *EventStore) Get(_ context.Context, id string) (*domain.Event, error) {
	s.mu.RLock()
	data, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return nil, store.ErrEventNotFound
	}
	return store.DecodeEvent(data)
}

// Update implements store.EventStore.
func (s *EventStore) Update(_ context.Context, event *domain.Event) error {
	data, err := store.EncodeEvent(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[event.EventID]; !ok {
		return store.ErrEventNotFound
	}
	s.records[event.EventID] = data
	return nil
}

// List implements store.EventStore.
func (s *EventStore) List(_ context.Context) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*domain.Event, 0, len(s.records))
	for _, data := range s.records {
		event, err := store.DecodeEvent(data)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// Put stores raw bytes under id without validation. Tests use it to plant
// malformed records.
func (s *EventStore) Put(id string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = data
}

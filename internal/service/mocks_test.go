package service

import (
	"context"
	"sync"

	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockEventStore mocks the store.EventStore interface
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventStore) Get(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventStore) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventStore) List(ctx context.Context) ([]*domain.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Event), args.Error(1)
}

// notification is one recorded Notify call.
type notification struct {
	event     *domain.Event
	recipient string
	outcome   domain.Status
}

// recordingNotifier records every Notify call and optionally fails them.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, event *domain.Event, recipient string, outcome domain.Status) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{event: event, recipient: recipient, outcome: outcome})
	return n.err
}

func (n *recordingNotifier) Calls() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.calls...)
}

// failingUpdateStore wraps a store and fails Update for a chosen task.
type failingUpdateStore struct {
	store.EventStore
	failOn domain.TaskID
	err    error
}

func (s *failingUpdateStore) Update(ctx context.Context, event *domain.Event) error {
	if t := event.Task(s.failOn); t != nil && t.Status != domain.StatusUnset {
		return s.err
	}
	return s.EventStore.Update(ctx, event)
}

// cancelAfterCreateStore cancels the caller's context once the record is
// created and rejects later calls whose context is already done.
type cancelAfterCreateStore struct {
	store.EventStore
	cancel context.CancelFunc
}

func (s *cancelAfterCreateStore) Create(ctx context.Context, event *domain.Event) error {
	if err := s.EventStore.Create(ctx, event); err != nil {
		return err
	}
	s.cancel()
	return nil
}

func (s *cancelAfterCreateStore) Get(ctx context.Context, id string) (*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.EventStore.Get(ctx, id)
}

func (s *cancelAfterCreateStore) Update(ctx context.Context, event *domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.EventStore.Update(ctx, event)
}

// Package redis implements store.EventStore on Redis. Each record is a JSON
// string under <prefix>:event:<id>; a set under <prefix>:events indexes the
// ids for listing.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect creates a client and verifies the server is reachable.
func Connect(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

// EventStore implements store.EventStore on a Redis client.
type EventStore struct {
	client goredis.Cmdable
	prefix string
}

var _ store.EventStore = (*EventStore)(nil)

// NewEventStore creates an EventStore. An empty prefix defaults to "mct".
func NewEventStore(client goredis.Cmdable, prefix string) *EventStore {
	if prefix == "" {
		prefix = "mct"
	}
	return &EventStore{client: client, prefix: prefix}
}

func (s *EventStore) key(id string) string {
	return s.prefix + ":event:" + id
}

func (s *EventStore) indexKey() string {
	return s.prefix + ":events"
}

// Create implements store.EventStore.
func (s *EventStore) Create(ctx context.Context, event *domain.Event) error {
	data, err := store.EncodeEvent(event)
	if err != nil {
		return err
	}

	// Index first: a dangling index entry is skipped by List, while an
	// unindexed record would hold its id without ever being listed.
	if err := s.client.SAdd(ctx, s.indexKey(), event.EventID).Err(); err != nil {
		return store.NewStoreError("event", "create", "failed to index record", err)
	}

	ok, err := s.client.SetNX(ctx, s.key(event.EventID), data, 0).Result()
	if err != nil {
		return store.NewStoreError("event", "create", "failed to write record", err)
	}
	if !ok {
		return store.ErrEventExists
	}
	return nil
}

// Get implements store.EventStore.
func (s *EventStore) Get(ctx context.Context, id string) (*domain.Event, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, store.ErrEventNotFound
		}
		return nil, store.NewStoreError("event", "get", "failed to read record", err)
	}
	return store.DecodeEvent(data)
}

// Update implements store.EventStore.
func (s *EventStore) Update(ctx context.Context, event *domain.Event) error {
	data, err := store.EncodeEvent(event)
	if err != nil {
		return err
	}

	ok, err := s.client.SetXX(ctx, s.key(event.EventID), data, 0).Result()
	if err != nil {
		return store.NewStoreError("event", "update", "failed to write record", err)
	}
	if !ok {
		return store.ErrEventNotFound
	}
	return nil
}

// List implements store.EventStore. Index entries without a record are
// skipped.
func (s *EventStore) List(ctx context.Context) ([]*domain.Event, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, store.NewStoreError("event", "list", "failed to read index", err)
	}
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, store.NewStoreError("event", "list", "failed to read records", err)
	}

	events := make([]*domain.Event, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		event, err := store.DecodeEvent([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", ids[i], err)
		}
		events = append(events, event)
	}
	return events, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/store"
)

const eventColumns = "event_id, status, agent, created_at, tasks"

// timeLayout is fixed width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// EventStore implements store.EventStore on a SQLite database.
type EventStore struct {
	db store.DBTX
}

var _ store.EventStore = (*EventStore)(nil)

// NewEventStore creates an EventStore. The schema must already exist; see
// Migrate.
func NewEventStore(db store.DBTX) *EventStore {
	return &EventStore{db: db}
}

// Create implements store.EventStore.
func (s *EventStore) Create(ctx context.Context, event *domain.Event) error {
	tasks, err := store.EncodeTasks(event.Tasks)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (event_id) DO NOTHING`,
		event.EventID,
		string(event.Status),
		event.Agent,
		event.Timestamp.UTC().Format(timeLayout),
		string(tasks),
	)
	if err != nil {
		return store.NewStoreError("event", "create", "failed to insert event", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("event", "create", "failed to get rows affected", err)
	}
	if n == 0 {
		return store.ErrEventExists
	}
	return nil
}

// Get implements store.EventStore.
func (s *EventStore) Get(ctx context.Context, id string) (*domain.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE event_id = ?`, id)

	event, err := scanEvent(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, store.ErrEventNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		return nil, err
	case err != nil:
		return nil, store.NewStoreError("event", "get", "failed to query event", err)
	}
	return event, nil
}

// Update implements store.EventStore.
func (s *EventStore) Update(ctx context.Context, event *domain.Event) error {
	tasks, err := store.EncodeTasks(event.Tasks)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE events SET status = ?, tasks = ? WHERE event_id = ?`,
		string(event.Status),
		string(tasks),
		event.EventID,
	)
	if err != nil {
		return store.NewStoreError("event", "update", "failed to update event", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("event", "update", "failed to get rows affected", err)
	}
	if n == 0 {
		return store.ErrEventNotFound
	}
	return nil
}

// List implements store.EventStore.
func (s *EventStore) List(ctx context.Context) ([]*domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at`)
	if err != nil {
		return nil, store.NewStoreError("event", "list", "failed to query events", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("event", "list", "failed to iterate events", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var id, status, agent, createdAt, tasks string
	if err := row.Scan(&id, &status, &agent, &createdAt, &tasks); err != nil {
		return nil, err
	}

	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: created_at %q: %v", store.ErrInvalidEntity, createdAt, err)
	}
	return store.EventFromColumns(id, status, agent, ts, []byte(tasks))
}

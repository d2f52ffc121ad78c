package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/platform/logger"
	"github.com/mctflow/mct-tracker/internal/store"
)

const eventColumns = "event_id, status, agent, created_at, tasks"

// PostgresEventStore implements store.EventStore on the events table.
type PostgresEventStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.EventStore = (*PostgresEventStore)(nil)

// NewPostgresEventStore creates a PostgresEventStore. It panics if db is
// nil; a nil logger falls back to slog.Default.
func NewPostgresEventStore(db store.DBTX, log *slog.Logger) *PostgresEventStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresEventStore{
		db:     db,
		logger: log.With(slog.String("component", "event_store"), slog.String("driver", "postgres")),
	}
}

// Create implements store.EventStore.
func (s *PostgresEventStore) Create(ctx context.Context, event *domain.Event) error {
	tasks, err := store.EncodeTasks(event.Tasks)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		event.EventID,
		string(event.Status),
		event.Agent,
		event.Timestamp.UTC(),
		string(tasks),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEventExists
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert event",
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()))
		return store.NewStoreError("event", "create", "failed to insert event", MapError(err))
	}
	return nil
}

// Get implements store.EventStore.
func (s *PostgresEventStore) Get(ctx context.Context, id string) (*domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE event_id = $1`, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrEventNotFound
		}
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, err
		}
		return nil, store.NewStoreError("event", "get", "failed to query event", MapError(err))
	}
	return event, nil
}

// Update implements store.EventStore. Only the mutable columns are
// written; agent and created_at are fixed at creation.
func (s *PostgresEventStore) Update(ctx context.Context, event *domain.Event) error {
	tasks, err := store.EncodeTasks(event.Tasks)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE events SET status = $2, tasks = $3 WHERE event_id = $1`,
		event.EventID,
		string(event.Status),
		string(tasks),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update event",
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()))
		return store.NewStoreError("event", "update", "failed to update event", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrEventNotFound)
}

// List implements store.EventStore.
func (s *PostgresEventStore) List(ctx context.Context) ([]*domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY created_at`)
	if err != nil {
		return nil, store.NewStoreError("event", "list", "failed to query events", MapError(err))
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
		return nil, store.NewStoreError("event", "list", "failed to iterate events", MapError(err))
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var (
		id, status, agent string
		createdAt         time.Time
		tasks             []byte
	)
	if err := row.Scan(&id, &status, &agent, &createdAt, &tasks); err != nil {
		return nil, err
	}
	return store.EventFromColumns(id, status, agent, createdAt, tasks)
}

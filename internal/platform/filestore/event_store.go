package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/store"
	"github.com/spf13/afero"
)

const recordExt = ".json"

// ErrInvalidID is returned for ids that cannot name a file in the store
// directory.
var ErrInvalidID = errors.New("invalid event id")

// EventStore keeps event records as files under dir.
type EventStore struct {
	fs  afero.Fs
	dir string
}

var _ store.EventStore = (*EventStore)(nil)

// NewEventStore creates a store rooted at dir, creating the directory if
// needed.
func NewEventStore(fs afero.Fs, dir string) (*EventStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &EventStore{fs: fs, dir: dir}, nil
}

func (s *EventStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir, id+recordExt), nil
}

// Create implements store.EventStore.
func (s *EventStore) Create(_ context.Context, event *domain.Event) error {
	p, err := s.path(event.EventID)
	if err != nil {
		return store.NewStoreError("event", "create", "bad id", err)
	}
	data, err := store.EncodeEvent(event)
	if err != nil {
		return err
	}

	f, err := s.fs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return store.ErrEventExists
		}
		return store.NewStoreError("event", "create", "failed to create record file", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(p)
		return store.NewStoreError("event", "create", "failed to write record", err)
	}
	if err := f.Close(); err != nil {
		return store.NewStoreError("event", "create", "failed to close record", err)
	}
	return nil
}

// Get implements store.EventStore.
func (s *EventStore) Get(_ context.Context, id string) (*domain.Event, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, store.ErrEventNotFound
	}

	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrEventNotFound
		}
		return nil, store.NewStoreError("event", "get", "failed to read record", err)
	}
	return store.DecodeEvent(data)
}

// Update implements store.EventStore. The record is written to a temporary
// file and renamed over the old one, so readers never see a partial write.
func (s *EventStore) Update(_ context.Context, event *domain.Event) error {
	p, err := s.path(event.EventID)
	if err != nil {
		return store.ErrEventNotFound
	}
	if _, err := s.fs.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store.ErrEventNotFound
		}
		return store.NewStoreError("event", "update", "failed to stat record", err)
	}

	data, err := store.EncodeEvent(event)
	if err != nil {
		return err
	}

	tmp := filepath.Join(s.dir, "."+event.EventID+"."+uuid.NewString()+".tmp")
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		_ = s.fs.Remove(tmp)
		return store.NewStoreError("event", "update", "failed to write record", err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return store.NewStoreError("event", "update", "failed to replace record", err)
	}
	return nil
}

// List implements store.EventStore.
func (s *EventStore) List(_ context.Context) ([]*domain.Event, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, store.NewStoreError("event", "list", "failed to read store directory", err)
	}

	events := make([]*domain.Event, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != recordExt {
			continue
		}

		data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, name))
		if err != nil {
			return nil, store.NewStoreError("event", "list", "failed to read record", err)
		}
		event, err := store.DecodeEvent(data)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", name, err)
		}
		events = append(events, event)
	}
	return events, nil
}

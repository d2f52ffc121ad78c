package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mctflow/mct-tracker/internal/domain"
)

// EncodeEvent serializes an event record to its JSON document form.
func EncodeEvent(event *domain.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode event: %v", ErrInvalidEntity, err)
	}
	return data, nil
}

// DecodeEvent parses a JSON event document and checks its structure.
// Undecodable or structurally broken documents yield ErrInvalidEntity.
func DecodeEvent(data []byte) (*domain.Event, error) {
	var event domain.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: failed to decode event: %v", ErrInvalidEntity, err)
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return &event, nil
}

// EncodeTasks serializes the task list of an event, for backends that keep
// the scalar fields in their own columns.
func EncodeTasks(tasks []domain.Task) ([]byte, error) {
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode tasks: %v", ErrInvalidEntity, err)
	}
	return data, nil
}

// DecodeTasks parses a serialized task list.
func DecodeTasks(data []byte) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: failed to decode tasks: %v", ErrInvalidEntity, err)
	}
	return tasks, nil
}

// EventFromColumns assembles an event from the columns of a SQL row and
// checks its structure.
func EventFromColumns(id string, status string, agent string, createdAt time.Time, tasks []byte) (*domain.Event, error) {
	decoded, err := DecodeTasks(tasks)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		EventID:   id,
		Status:    domain.Status(status),
		Timestamp: createdAt.UTC(),
		Agent:     agent,
		Tasks:     decoded,
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return event, nil
}

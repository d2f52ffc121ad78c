package domain

import (
	"fmt"
	"time"
)

// Status is the state of an event or of one of its tasks.
// The zero value is the unset state.
type Status string

// Possible status values
const (
	StatusUnset   Status = ""
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// IsTerminal reports whether the status is success or failure.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// IsValid reports whether s is one of the known status values.
func (s Status) IsValid() bool {
	switch s {
	case StatusUnset, StatusSuccess, StatusFailure:
		return true
	default:
		return false
	}
}

// TaskID identifies one of the fixed pipeline stages of an event.
type TaskID string

// Pipeline stages, in display order.
const (
	TaskValidation    TaskID = "validation"
	TaskChangeRequest TaskID = "change_request"
	TaskUpload        TaskID = "upload"
	TaskVerification  TaskID = "verification"
)

// PipelineTasks lists the task ids every event carries, in order.
var PipelineTasks = []TaskID{
	TaskValidation,
	TaskChangeRequest,
	TaskUpload,
	TaskVerification,
}

// IsValid reports whether the id names one of the pipeline stages.
func (id TaskID) IsValid() bool {
	for _, t := range PipelineTasks {
		if t == id {
			return true
		}
	}
	return false
}

// Task is a single pipeline stage of an event.
type Task struct {
	ID        TaskID     `json:"id"`
	Status    Status     `json:"status"`
	Timestamp *time.Time `json:"timestamp"`
}

// Event is the lifecycle record of one MCT submission.
type Event struct {
	EventID   string    `json:"eventID"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent"`
	Tasks     []Task    `json:"tasks"`
}

// EventSummary is the list projection of an Event.
type EventSummary struct {
	EventID   string    `json:"eventID"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent builds a fresh event with all four tasks unset.
func NewEvent(id, agent string, createdAt time.Time) *Event {
	tasks := make([]Task, len(PipelineTasks))
	for i, taskID := range PipelineTasks {
		tasks[i] = Task{ID: taskID, Status: StatusUnset}
	}

	return &Event{
		EventID:   id,
		Status:    StatusUnset,
		Timestamp: createdAt.UTC(),
		Agent:     agent,
		Tasks:     tasks,
	}
}

// Validate checks the structural invariants of a stored event: a non-empty
// id, known statuses and exactly one entry per pipeline task.
func (e *Event) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("%w: empty event id", ErrMalformedEvent)
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("%w: status %q", ErrMalformedEvent, e.Status)
	}
	if len(e.Tasks) != len(PipelineTasks) {
		return fmt.Errorf("%w: expected %d tasks, got %d", ErrMalformedEvent, len(PipelineTasks), len(e.Tasks))
	}

	seen := make(map[TaskID]bool, len(PipelineTasks))
	for _, t := range e.Tasks {
		if !t.ID.IsValid() || seen[t.ID] {
			return fmt.Errorf("%w: task id %q", ErrMalformedEvent, t.ID)
		}
		if !t.Status.IsValid() {
			return fmt.Errorf("%w: task %s status %q", ErrMalformedEvent, t.ID, t.Status)
		}
		seen[t.ID] = true
	}

	return nil
}

// Task returns the entry for the given task id, or nil.
func (e *Event) Task(id TaskID) *Task {
	for i := range e.Tasks {
		if e.Tasks[i].ID == id {
			return &e.Tasks[i]
		}
	}
	return nil
}

// SetTaskStatus updates every entry matching id and stamps it with at.
// It returns false when no entry matched.
func (e *Event) SetTaskStatus(id TaskID, status Status, at time.Time) bool {
	matched := false
	for i := range e.Tasks {
		if e.Tasks[i].ID != id {
			continue
		}
		ts := at.UTC()
		e.Tasks[i].Status = status
		e.Tasks[i].Timestamp = &ts
		matched = true
	}
	return matched
}

// Summary returns the list projection of the event.
func (e *Event) Summary() EventSummary {
	return EventSummary{
		EventID:   e.EventID,
		Status:    e.Status,
		Timestamp: e.Timestamp,
	}
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	c := *e
	c.Tasks = make([]Task, len(e.Tasks))
	for i, t := range e.Tasks {
		c.Tasks[i] = t
		if t.Timestamp != nil {
			ts := *t.Timestamp
			c.Tasks[i].Timestamp = &ts
		}
	}
	return &c
}

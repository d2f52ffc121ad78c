package api

import (
	"time"

	"github.com/mctflow/mct-tracker/internal/domain"
)

// CreateEventRequest is the body of POST /mct/createevent.
type CreateEventRequest struct {
	Airport       string `json:"airport"`
	OriginCarrier string `json:"origin_carrier"`
	DestCarrier   string `json:"dest_carrier"`
	Time          int    `json:"time"`
	SenderMailID  string `json:"sender_mail_id"`
}

func (r CreateEventRequest) toDomain() domain.MCTRequest {
	return domain.MCTRequest{
		Airport:       r.Airport,
		OriginCarrier: r.OriginCarrier,
		DestCarrier:   r.DestCarrier,
		Time:          r.Time,
		SenderMailID:  r.SenderMailID,
	}
}

// CreateEventResponse is returned when an event was created and completed.
// The field name is part of the public contract.
type CreateEventResponse struct {
	EventID string `json:"evnt"`
}

// UpdateTaskRequest is the body of POST /mct/event/{eventID}/task/{taskID}.
type UpdateTaskRequest struct {
	Status string `json:"status" validate:"required,oneof=success failure"`
}

// TaskResponse is one pipeline task of an event.
type TaskResponse struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	Timestamp *time.Time `json:"timestamp"`
}

// EventResponse is the full event record.
type EventResponse struct {
	EventID   string         `json:"eventID"`
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Agent     string         `json:"agent"`
	Tasks     []TaskResponse `json:"tasks"`
}

// EventSummaryResponse is one entry of GET /mct/events.
type EventSummaryResponse struct {
	EventID   string    `json:"eventID"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func eventToResponse(e *domain.Event) EventResponse {
	tasks := make([]TaskResponse, len(e.Tasks))
	for i, t := range e.Tasks {
		tasks[i] = TaskResponse{ID: string(t.ID), Status: string(t.Status), Timestamp: t.Timestamp}
	}
	return EventResponse{
		EventID:   e.EventID,
		Status:    string(e.Status),
		Timestamp: e.Timestamp,
		Agent:     e.Agent,
		Tasks:     tasks,
	}
}

func summariesToResponse(summaries []domain.EventSummary) []EventSummaryResponse {
	out := make([]EventSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = EventSummaryResponse{EventID: s.EventID, Status: string(s.Status), Timestamp: s.Timestamp}
	}
	return out
}

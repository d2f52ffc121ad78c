package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mctflow/mct-tracker/internal/api/shared"
	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/platform/logger"
	"github.com/mctflow/mct-tracker/internal/service"
)

// WelcomeMessage is the body of GET /mct/welcome.
const WelcomeMessage = "Welcome to the MCT event tracker"

// EventIDHeader carries the id of an event that was recorded even though
// the request was rejected.
const EventIDHeader = "X-Event-ID"

// EventHandler handles the /mct routes.
type EventHandler struct {
	tracker   service.EventTracker
	validator *validator.Validate
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(tracker service.EventTracker) *EventHandler {
	return &EventHandler{
		tracker:   tracker,
		validator: validator.New(),
	}
}

// Welcome handles GET /mct/welcome.
func (h *EventHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithText(w, r, http.StatusOK, WelcomeMessage)
}

// CreateEvent handles POST /mct/createevent.
//
// An invalid request still produces a stored event (with a failed
// validation task); its id is returned in the X-Event-ID header alongside
// the 400 response.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	eventID, err := h.tracker.CreateEvent(r.Context(), req.toDomain())
	if eventID != "" {
		w.Header().Set(EventIDHeader, eventID)
	}
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("event created", slog.String("event_id", eventID))
	shared.RespondWithJSON(w, r, http.StatusOK, CreateEventResponse{EventID: eventID})
}

// GetEvent handles GET /mct/event/{eventID}.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	event, err := h.tracker.GetEvent(r.Context(), eventID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, eventToResponse(event))
}

// ListEvents handles GET /mct/events.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.tracker.ListEvents(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summariesToResponse(summaries))
}

// UpdateTask handles POST /mct/event/{eventID}/task/{taskID}, letting the
// systems behind each pipeline stage report their outcome.
func (h *EventHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	taskID := domain.TaskID(chi.URLParam(r, "taskID"))

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid task status", err)
		return
	}

	err := h.tracker.UpdateTask(r.Context(), eventID, taskID, domain.Status(req.Status))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	event, err := h.tracker.GetEvent(r.Context(), eventID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, eventToResponse(event))
}

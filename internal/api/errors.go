package api

import (
	"errors"
	"net/http"

	"github.com/mctflow/mct-tracker/internal/api/shared"
	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/service"
	"github.com/mctflow/mct-tracker/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrCorruptEvent):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrInvalidMCTData):
		return "invalid MCT data"
	case errors.Is(err, domain.ErrInvalidTaskID):
		return "invalid task id"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "invalid task status"
	case errors.Is(err, domain.ErrValidation):
		return "invalid request"
	case errors.Is(err, shared.ErrEmptyBody):
		return "request body is required"
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, store.ErrNotFound):
		return "event not found"
	case errors.Is(err, service.ErrCorruptEvent):
		return "event record could not be read"
	default:
		return "An unexpected error occurred"
	}
}

// respondWithServiceError writes the mapped status and safe message and
// logs the redacted cause.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

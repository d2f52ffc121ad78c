package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidMCTData is returned when an incoming MCT request fails the
	// structural length checks. The message is the one exposed to clients.
	ErrInvalidMCTData = fmt.Errorf("%w: invalid MCT data", ErrValidation)

	// ErrInvalidTaskID is returned when a task id is not one of the four
	// pipeline stages.
	ErrInvalidTaskID = fmt.Errorf("%w: invalid task id", ErrValidation)

	// ErrInvalidStatus is returned when a status value is not recognised.
	ErrInvalidStatus = fmt.Errorf("%w: invalid status", ErrValidation)

	// ErrMalformedEvent is returned when a stored event does not hold
	// exactly the four pipeline tasks.
	ErrMalformedEvent = errors.New("malformed event record")
)

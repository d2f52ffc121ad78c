// Package api exposes the event tracker over HTTP. Handlers decode
// requests, call service.EventTracker and translate service errors into
// sanitized JSON responses.
package api

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mctflow/mct-tracker/internal/api"
	apiMiddleware "github.com/mctflow/mct-tracker/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	eventHandler := api.NewEventHandler(app.tracker)

	r.Route("/mct", func(r chi.Router) {
		r.Get("/welcome", eventHandler.Welcome)
		r.Post("/createevent", eventHandler.CreateEvent)
		r.Get("/events", eventHandler.ListEvents)
		r.Get("/event/{eventID}", eventHandler.GetEvent)
		r.Post("/event/{eventID}/task/{taskID}", eventHandler.UpdateTask)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mctflow/mct-tracker/internal/config"
	"github.com/mctflow/mct-tracker/internal/notify"
	"github.com/mctflow/mct-tracker/internal/redact"
	"github.com/mctflow/mct-tracker/internal/service"
	"github.com/mctflow/mct-tracker/internal/store"
	"github.com/mctflow/mct-tracker/internal/task"
)

// application holds the shared dependencies of the server and releases
// them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	store    store.EventStore
	notifier notify.Notifier
	runner   *task.Runner
	tracker  service.EventTracker

	// closers run in reverse order during cleanup.
	closers []func() error
}

// newApplication opens the configured store, starts the notification
// workers and builds the tracker. On error everything opened so far is
// released.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *application, err error) {
	app := &application{config: cfg, logger: log}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	eventStore, closeStore, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return nil, err
	}
	app.store = eventStore
	app.addCloser(closeStore)

	app.runner = task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Notify.WorkerCount,
		QueueSize:   cfg.Notify.QueueSize,
		TaskTimeout: cfg.Notify.Timeout,
	}, log)
	app.runner.SetErrorHandler(func(t task.Task, err error) {
		log.Warn("notification delivery failed",
			"task_id", t.ID().String(),
			"task_type", t.Type(),
			"error", redact.Error(err))
	})

	transport, closeTransport, err := buildNotifier(ctx, cfg.Notify, log)
	if err != nil {
		return nil, err
	}
	app.addCloser(closeTransport)

	if err := app.runner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start notification workers: %w", err)
	}
	// Registered after the transport so workers drain before it closes.
	app.addCloser(func() error {
		app.runner.Stop()
		return nil
	})
	app.notifier = notify.NewAsyncNotifier(transport, app.runner, log)

	app.tracker, err = service.NewEventTracker(app.store, app.notifier, log,
		service.WithOperationTimeout(cfg.Tracker.OperationTimeout),
		service.WithNotifyTimeout(cfg.Notify.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create event tracker: %w", err)
	}

	return app, nil
}

func (app *application) addCloser(fn func() error) {
	if fn != nil {
		app.closers = append(app.closers, fn)
	}
}

// cleanup releases resources in reverse order of acquisition.
func (app *application) cleanup() {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil

	if err := errors.Join(errs...); err != nil {
		app.logger.Error("cleanup finished with errors", "error", redact.Error(err))
	}
}

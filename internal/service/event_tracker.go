package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/notify"
	"github.com/mctflow/mct-tracker/internal/platform/logger"
	"github.com/mctflow/mct-tracker/internal/store"
)

// maxCreateAttempts bounds the retries when a generated id is already taken.
const maxCreateAttempts = 3

// Default timeouts applied to store and notifier calls.
const (
	DefaultOperationTimeout = 5 * time.Second
	DefaultNotifyTimeout    = 5 * time.Second
)

// EventTracker defines the operations on the MCT event lifecycle.
type EventTracker interface {
	// CreateEvent records a new event for req and runs it through the
	// pipeline. The id is returned whenever a record was created, even
	// when the request is invalid; in that case the error wraps
	// domain.ErrInvalidMCTData.
	CreateEvent(ctx context.Context, req domain.MCTRequest) (string, error)

	// UpdateTask sets the status of one pipeline task, derives the event
	// status, persists the record and notifies on terminal outcomes.
	UpdateTask(ctx context.Context, eventID string, taskID domain.TaskID, status domain.Status) error

	// GetEvent returns the stored record. Returns ErrEventNotFound for
	// unknown ids and ErrCorruptEvent for undecodable records.
	GetEvent(ctx context.Context, eventID string) (*domain.Event, error)

	// ListEvents returns a summary of every stored event, in no particular
	// order.
	ListEvents(ctx context.Context) ([]domain.EventSummary, error)
}

// TrackerOption configures an EventTracker.
type TrackerOption func(*eventTrackerImpl)

// WithClock sets the clock used for event and task timestamps.
func WithClock(clock domain.Clock) TrackerOption {
	return func(t *eventTrackerImpl) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithIDGenerator sets the event id generator.
func WithIDGenerator(ids *domain.IDGenerator) TrackerOption {
	return func(t *eventTrackerImpl) {
		if ids != nil {
			t.ids = ids
		}
	}
}

// WithOperationTimeout bounds every store call.
func WithOperationTimeout(d time.Duration) TrackerOption {
	return func(t *eventTrackerImpl) {
		if d > 0 {
			t.opTimeout = d
		}
	}
}

// WithNotifyTimeout bounds every notifier call.
func WithNotifyTimeout(d time.Duration) TrackerOption {
	return func(t *eventTrackerImpl) {
		if d > 0 {
			t.notifyTimeout = d
		}
	}
}

type eventTrackerImpl struct {
	store         store.EventStore
	notifier      notify.Notifier
	logger        *slog.Logger
	clock         domain.Clock
	ids           *domain.IDGenerator
	locks         *keyedMutex
	opTimeout     time.Duration
	notifyTimeout time.Duration
}

// NewEventTracker creates an EventTracker.
// It returns an error if the store or the notifier is nil.
func NewEventTracker(
	eventStore store.EventStore,
	notifier notify.Notifier,
	log *slog.Logger,
	opts ...TrackerOption,
) (EventTracker, error) {
	if eventStore == nil {
		return nil, fmt.Errorf("%w: event store cannot be nil", domain.ErrValidation)
	}
	if notifier == nil {
		return nil, fmt.Errorf("%w: notifier cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	t := &eventTrackerImpl{
		store:         eventStore,
		notifier:      notifier,
		logger:        log.With(slog.String("component", "event_tracker")),
		clock:         domain.SystemClock,
		locks:         newKeyedMutex(),
		opTimeout:     DefaultOperationTimeout,
		notifyTimeout: DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.ids == nil {
		t.ids = domain.NewIDGenerator(t.clock, nil)
	}
	return t, nil
}

// CreateEvent implements EventTracker.CreateEvent.
func (t *eventTrackerImpl) CreateEvent(ctx context.Context, req domain.MCTRequest) (string, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	event, err := t.createRecord(ctx, req.SenderMailID)
	if err != nil {
		log.Error("failed to create event record", slog.String("error", err.Error()))
		return "", err
	}

	unlock := t.locks.Lock(event.EventID)
	defer unlock()

	// Once the record exists the sequence runs to completion even if the
	// caller goes away. Each store call is still bounded by opTimeout.
	ctx = context.WithoutCancel(ctx)

	log = log.With(slog.String("event_id", event.EventID))

	if err := req.Validate(); err != nil {
		log.Info("mct request rejected",
			slog.String("airport", req.Airport),
			slog.String("origin_carrier", req.OriginCarrier),
			slog.String("dest_carrier", req.DestCarrier))

		if uerr := t.updateTaskLocked(ctx, event.EventID, domain.TaskValidation, domain.StatusFailure); uerr != nil {
			return event.EventID, uerr
		}
		return event.EventID, fmt.Errorf("event %s: %w", event.EventID, err)
	}

	for _, taskID := range domain.PipelineTasks {
		if err := t.updateTaskLocked(ctx, event.EventID, taskID, domain.StatusSuccess); err != nil {
			log.Error("pipeline aborted",
				slog.String("task", string(taskID)),
				slog.String("error", err.Error()))
			return event.EventID, err
		}
	}

	log.Info("event completed", slog.String("status", string(domain.StatusSuccess)))
	return event.EventID, nil
}

// createRecord persists a fresh event, drawing a new id when the generated
// one is already taken.
func (t *eventTrackerImpl) createRecord(ctx context.Context, agent string) (*domain.Event, error) {
	var lastErr error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		event := domain.NewEvent(t.ids.Generate(), agent, t.clock.Now())

		opCtx, cancel := context.WithTimeout(ctx, t.opTimeout)
		err := t.store.Create(opCtx, event)
		cancel()

		if err == nil {
			return event, nil
		}
		if !errors.Is(err, store.ErrEventExists) {
			return nil, NewEventServiceError("create_event", "failed to save event", err)
		}

		lastErr = err
		t.logger.Warn("event id collision, retrying",
			slog.String("event_id", event.EventID),
			slog.Int("attempt", attempt))
	}
	return nil, NewEventServiceError("create_event", "could not allocate a unique event id", lastErr)
}

// UpdateTask implements EventTracker.UpdateTask.
func (t *eventTrackerImpl) UpdateTask(
	ctx context.Context,
	eventID string,
	taskID domain.TaskID,
	status domain.Status,
) error {
	if !taskID.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, taskID)
	}
	if !status.IsTerminal() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	unlock := t.locks.Lock(eventID)
	defer unlock()

	return t.updateTaskLocked(ctx, eventID, taskID, status)
}

// updateTaskLocked runs read, mutate, derive, persist and notify for one
// task transition. The caller holds the event lock.
func (t *eventTrackerImpl) updateTaskLocked(
	ctx context.Context,
	eventID string,
	taskID domain.TaskID,
	status domain.Status,
) error {
	log := logger.FromContextOrDefault(ctx, t.logger).With(
		slog.String("event_id", eventID),
		slog.String("task", string(taskID)),
		slog.String("task_status", string(status)))

	event, err := t.get(ctx, "update_task", eventID)
	if err != nil {
		return err
	}

	if !event.SetTaskStatus(taskID, status, t.clock.Now()) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, taskID)
	}

	// Failure is sticky: a later verification success never reverts it.
	outcome := domain.StatusUnset
	switch {
	case status == domain.StatusFailure:
		event.Status = domain.StatusFailure
		outcome = domain.StatusFailure
	case taskID == domain.TaskVerification && status == domain.StatusSuccess &&
		event.Status != domain.StatusFailure:
		event.Status = domain.StatusSuccess
		outcome = domain.StatusSuccess
	}

	opCtx, cancel := context.WithTimeout(ctx, t.opTimeout)
	err = t.store.Update(opCtx, event)
	cancel()
	if err != nil {
		log.Error("failed to persist task transition", slog.String("error", err.Error()))
		if store.IsNotFoundError(err) {
			return NewEventServiceError("update_task", "event not found", ErrEventNotFound)
		}
		return NewEventServiceError("update_task", "failed to save event", err)
	}

	log.Debug("task updated", slog.String("event_status", string(event.Status)))

	if outcome != domain.StatusUnset {
		t.notify(ctx, log, event, outcome)
	}
	return nil
}

// notify hands a snapshot of the persisted record to the notifier.
// Delivery errors are logged and never returned.
func (t *eventTrackerImpl) notify(ctx context.Context, log *slog.Logger, event *domain.Event, outcome domain.Status) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.notifyTimeout)
	defer cancel()

	if err := t.notifier.Notify(nctx, event.Clone(), event.Agent, outcome); err != nil {
		log.Warn("outcome notification failed",
			slog.String("outcome", string(outcome)),
			slog.String("error", err.Error()))
		return
	}
	log.Debug("outcome notification dispatched", slog.String("outcome", string(outcome)))
}

// GetEvent implements EventTracker.GetEvent.
func (t *eventTrackerImpl) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	return t.get(ctx, "get_event", eventID)
}

func (t *eventTrackerImpl) get(ctx context.Context, operation, eventID string) (*domain.Event, error) {
	opCtx, cancel := context.WithTimeout(ctx, t.opTimeout)
	defer cancel()

	event, err := t.store.Get(opCtx, eventID)
	if err == nil {
		return event, nil
	}

	switch {
	case store.IsNotFoundError(err):
		return nil, NewEventServiceError(operation, "event not found", ErrEventNotFound)
	case errors.Is(err, store.ErrInvalidEntity):
		logger.FromContextOrDefault(ctx, t.logger).Error("stored event is malformed",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()))
		return nil, NewEventServiceError(operation, "event record is malformed",
			fmt.Errorf("%w: %w", ErrCorruptEvent, err))
	default:
		return nil, NewEventServiceError(operation, "failed to retrieve event", err)
	}
}

// ListEvents implements EventTracker.ListEvents.
func (t *eventTrackerImpl) ListEvents(ctx context.Context) ([]domain.EventSummary, error) {
	opCtx, cancel := context.WithTimeout(ctx, t.opTimeout)
	defer cancel()

	events, err := t.store.List(opCtx)
	if err != nil {
		logger.FromContextOrDefault(ctx, t.logger).Error("failed to list events",
			slog.String("error", err.Error()))
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, NewEventServiceError("list_events", "event record is malformed",
				fmt.Errorf("%w: %w", ErrCorruptEvent, err))
		}
		return nil, NewEventServiceError("list_events", "failed to list events", err)
	}

	summaries := make([]domain.EventSummary, 0, len(events))
	for _, event := range events {
		summaries = append(summaries, event.Summary())
	}
	return summaries, nil
}

package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/task"
)

// TaskSubmitter accepts background tasks; *task.Runner implements it.
type TaskSubmitter interface {
	Submit(ctx context.Context, t task.Task) error
}

// AsyncNotifier queues each notification as a task so delivery happens on
// the runner's workers. Notify only fails when the task cannot be queued.
type AsyncNotifier struct {
	next   Notifier
	runner TaskSubmitter
	logger *slog.Logger
}

// NewAsyncNotifier wraps next so that deliveries run on runner.
func NewAsyncNotifier(next Notifier, runner TaskSubmitter, logger *slog.Logger) *AsyncNotifier {
	return &AsyncNotifier{
		next:   next,
		runner: runner,
		logger: logger.With("component", "async_notifier"),
	}
}

// Notify implements Notifier.
func (n *AsyncNotifier) Notify(ctx context.Context, event *domain.Event, recipient string, outcome domain.Status) error {
	t := &deliveryTask{
		id:        uuid.New(),
		event:     event.Clone(),
		recipient: recipient,
		outcome:   outcome,
		next:      n.next,
	}

	if err := n.runner.Submit(ctx, t); err != nil {
		return fmt.Errorf("failed to queue notification for event %s: %w", event.EventID, err)
	}

	n.logger.Debug("notification queued",
		"task_id", t.id,
		"event_id", event.EventID,
		"outcome", string(outcome))
	return nil
}

// deliveryTask is a single queued notification.
type deliveryTask struct {
	id        uuid.UUID
	event     *domain.Event
	recipient string
	outcome   domain.Status
	next      Notifier
}

func (t *deliveryTask) ID() uuid.UUID { return t.id }

func (t *deliveryTask) Type() string { return task.TaskTypeNotification }

func (t *deliveryTask) Execute(ctx context.Context) error {
	return t.next.Notify(ctx, t.event, t.recipient, t.outcome)
}

package notify

import (
	"context"
	"log/slog"

	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/redact"
)

// LogNotifier writes outcomes to the structured log. It is the default
// channel when no transport is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, event *domain.Event, recipient string, outcome domain.Status) error {
	tasks := make([]any, 0, len(event.Tasks))
	for _, t := range event.Tasks {
		tasks = append(tasks, slog.String(string(t.ID), statusLabel(t.Status)))
	}

	n.logger.InfoContext(ctx, "event outcome",
		"event_id", event.EventID,
		"recipient", redact.String(recipient),
		"outcome", string(outcome),
		slog.Group("tasks", tasks...))
	return nil
}

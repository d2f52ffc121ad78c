package notify

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/mctflow/mct-tracker/internal/domain"
)

// Message is the rendered, transport-independent notification.
type Message struct {
	Subject string
	Body    string
}

var bodyTemplate = template.Must(template.New("body").Funcs(template.FuncMap{
	"status": statusLabel,
	"stamp":  stampLabel,
}).Parse(`MCT event {{.Event.EventID}} finished with status {{status .Outcome}}.

Submitted: {{.Event.Timestamp.Format "2006-01-02T15:04:05Z07:00"}}
Agent:     {{.Event.Agent}}

Tasks:
{{- range .Event.Tasks}}
  - {{printf "%-15s" .ID}} {{printf "%-8s" (status .Status)}} {{stamp .Timestamp}}
{{- end}}
`))

// Render builds the message for an event outcome. The body lists every
// task with its status and last transition time.
func Render(event *domain.Event, outcome domain.Status) (Message, error) {
	var body bytes.Buffer
	err := bodyTemplate.Execute(&body, struct {
		Event   *domain.Event
		Outcome domain.Status
	}{event, outcome})
	if err != nil {
		return Message{}, fmt.Errorf("failed to render notification body: %w", err)
	}

	return Message{
		Subject: fmt.Sprintf("MCT event %s: %s", event.EventID, statusLabel(outcome)),
		Body:    body.String(),
	}, nil
}

func statusLabel(s domain.Status) string {
	if s == domain.StatusUnset {
		return "pending"
	}
	return string(s)
}

func stampLabel(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return ts.UTC().Format(time.RFC3339)
}

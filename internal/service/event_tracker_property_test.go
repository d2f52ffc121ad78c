package service

import (
	"context"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/platform/memory"
)

func TestCreateEvent_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	tracker, err := NewEventTracker(memory.NewEventStore(), &recordingNotifier{}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// Lengths are counted in characters, so multi-byte letters must behave
	// like ASCII ones.
	letters := []string{"X", "É", "航"}
	letter := gen.IntRange(0, len(letters)-1).Map(func(i int) string { return letters[i] })
	code := func(n int, ch string) string { return strings.Repeat(ch, n) }

	properties.Property("status follows the length checks", prop.ForAll(
		func(airportLen, originLen, destLen int, ch string) bool {
			req := domain.MCTRequest{
				Airport:       code(airportLen, ch),
				OriginCarrier: code(originLen, ch),
				DestCarrier:   code(destLen, ch),
				Time:          30,
				SenderMailID:  "p@example.com",
			}
			valid := airportLen == 3 && originLen == 2 && destLen == 2

			id, err := tracker.CreateEvent(ctx, req)
			if id == "" {
				return false
			}
			if valid != (err == nil) {
				return false
			}

			event, gerr := tracker.GetEvent(ctx, id)
			if gerr != nil {
				return false
			}

			if valid {
				if event.Status != domain.StatusSuccess {
					return false
				}
				for _, task := range event.Tasks {
					if task.Status != domain.StatusSuccess {
						return false
					}
				}
				return true
			}

			return event.Status == domain.StatusFailure &&
				event.Task(domain.TaskValidation).Status == domain.StatusFailure
		},
		gen.IntRange(0, 5),
		gen.IntRange(0, 4),
		gen.IntRange(0, 4),
		letter,
	))

	properties.Property("any task failure fails the event", prop.ForAll(
		func(prior []bool, failIdx int) bool {
			id := domain.NewIDGenerator(nil, nil).Generate() + "-p"
			st := memory.NewEventStore()
			tr, _ := NewEventTracker(st, &recordingNotifier{}, discardLogger())
			if err := st.Create(ctx, domain.NewEvent(id, "p@example.com", fixedNow)); err != nil {
				return false
			}

			for i, done := range prior {
				if done {
					_ = tr.UpdateTask(ctx, id, domain.PipelineTasks[i], domain.StatusSuccess)
				}
			}
			if err := tr.UpdateTask(ctx, id, domain.PipelineTasks[failIdx], domain.StatusFailure); err != nil {
				return false
			}

			event, err := tr.GetEvent(ctx, id)
			return err == nil && event.Status == domain.StatusFailure
		},
		gen.SliceOfN(4, gen.Bool()),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}

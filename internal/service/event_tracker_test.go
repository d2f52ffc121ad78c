package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mctflow/mct-tracker/internal/domain"
	"github.com/mctflow/mct-tracker/internal/platform/memory"
	"github.com/mctflow/mct-tracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 4, 5, 10, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() domain.Clock {
	return domain.ClockFunc(func() time.Time { return fixedNow })
}

func newTestTracker(t *testing.T, st store.EventStore, n *recordingNotifier) EventTracker {
	t.Helper()
	tracker, err := NewEventTracker(st, n, discardLogger(), WithClock(fixedClock()))
	require.NoError(t, err)
	return tracker
}

func validRequest() domain.MCTRequest {
	return domain.MCTRequest{
		Airport:       "JFK",
		OriginCarrier: "AA",
		DestCarrier:   "BA",
		Time:          60,
		SenderMailID:  "x@y.com",
	}
}

func TestNewEventTracker(t *testing.T) {
	t.Parallel()

	_, err := NewEventTracker(nil, &recordingNotifier{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewEventTracker(memory.NewEventStore(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	tracker, err := NewEventTracker(memory.NewEventStore(), &recordingNotifier{}, nil,
		WithOperationTimeout(time.Second), WithNotifyTimeout(time.Second), WithIDGenerator(nil))
	require.NoError(t, err)
	assert.NotNil(t, tracker)
}

func TestCreateEvent_ValidRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	n := &recordingNotifier{}
	tracker := newTestTracker(t, memory.NewEventStore(), n)

	id, err := tracker.CreateEvent(ctx, validRequest())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	event, err := tracker.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, event.Status)
	assert.Equal(t, "x@y.com", event.Agent)
	assert.Equal(t, fixedNow, event.Timestamp)
	require.Len(t, event.Tasks, 4)
	for i, task := range event.Tasks {
		assert.Equal(t, domain.PipelineTasks[i], task.ID)
		assert.Equal(t, domain.StatusSuccess, task.Status)
		require.NotNil(t, task.Timestamp)
		assert.Equal(t, fixedNow, *task.Timestamp)
	}

	calls := n.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.StatusSuccess, calls[0].outcome)
	assert.Equal(t, "x@y.com", calls[0].recipient)
	assert.Len(t, calls[0].event.Tasks, 4)
}

func TestCreateEvent_InvalidRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	n := &recordingNotifier{}
	tracker := newTestTracker(t, memory.NewEventStore(), n)

	req := validRequest()
	req.Airport = "JF"

	id, err := tracker.CreateEvent(ctx, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidMCTData)
	require.NotEmpty(t, id)

	event, err := tracker.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailure, event.Status)
	assert.Equal(t, domain.StatusFailure, event.Task(domain.TaskValidation).Status)
	for _, taskID := range domain.PipelineTasks[1:] {
		task := event.Task(taskID)
		assert.Equal(t, domain.StatusUnset, task.Status, taskID)
		assert.Nil(t, task.Timestamp, taskID)
	}

	calls := n.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.StatusFailure, calls[0].outcome)
	assert.Equal(t, domain.StatusFailure, calls[0].event.Task(domain.TaskValidation).Status)
}

func TestCreateEvent_StoreFailureAbortsPipeline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	n := &recordingNotifier{}
	mem := memory.NewEventStore()
	boom := errors.New("disk full")
	tracker := newTestTracker(t, &failingUpdateStore{EventStore: mem, failOn: domain.TaskUpload, err: boom}, n)

	id, err := tracker.CreateEvent(ctx, validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	require.NotEmpty(t, id)

	var svcErr *EventServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "update_task", svcErr.Operation)

	// Steps applied before the failure stay persisted.
	event, err := mem.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, event.Task(domain.TaskValidation).Status)
	assert.Equal(t, domain.StatusSuccess, event.Task(domain.TaskChangeRequest).Status)
	assert.Equal(t, domain.StatusUnset, event.Task(domain.TaskUpload).Status)
	assert.Equal(t, domain.StatusUnset, event.Task(domain.TaskVerification).Status)
	assert.Equal(t, domain.StatusUnset, event.Status)
	assert.Empty(t, n.Calls())
}

func TestCreateEvent_CallerCancellationDoesNotAbortPipeline(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := &recordingNotifier{}
	mem := memory.NewEventStore()
	tracker := newTestTracker(t, &cancelAfterCreateStore{EventStore: mem, cancel: cancel}, n)

	id, err := tracker.CreateEvent(ctx, validRequest())
	require.NoError(t, err)
	require.Error(t, ctx.Err())

	event, err := mem.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, event.Status)
	for _, task := range event.Tasks {
		assert.Equal(t, domain.StatusSuccess, task.Status, task.ID)
	}

	calls := n.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.StatusSuccess, calls[0].outcome)
}

func TestCreateEvent_IDCollision(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("retries with a fresh id", func(t *testing.T) {
		t.Parallel()

		ms := &MockEventStore{}
		ms.On("Create", mock.Anything, mock.Anything).Return(store.ErrEventExists).Twice()
		ms.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		ms.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		tracker := newTestTracker(t, ms, &recordingNotifier{})
		id, err := tracker.CreateEvent(ctx, validRequest())

		assert.NotEmpty(t, id)
		assert.ErrorContains(t, err, "connection refused")
		ms.AssertNumberOfCalls(t, "Create", 3)
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		t.Parallel()

		ms := &MockEventStore{}
		ms.On("Create", mock.Anything, mock.Anything).Return(store.ErrEventExists)

		tracker := newTestTracker(t, ms, &recordingNotifier{})
		id, err := tracker.CreateEvent(ctx, validRequest())

		assert.Empty(t, id)
		assert.ErrorIs(t, err, store.ErrEventExists)
		ms.AssertNumberOfCalls(t, "Create", maxCreateAttempts)
		ms.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("other create errors are not retried", func(t *testing.T) {
		t.Parallel()

		ms := &MockEventStore{}
		ms.On("Create", mock.Anything, mock.Anything).Return(errors.New("read-only filesystem"))

		tracker := newTestTracker(t, ms, &recordingNotifier{})
		_, err := tracker.CreateEvent(ctx, validRequest())

		var svcErr *EventServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "create_event", svcErr.Operation)
		ms.AssertNumberOfCalls(t, "Create", 1)
	})
}

// seed stores a fresh event with all tasks unset.
func seed(t *testing.T, st store.EventStore, id string) {
	t.Helper()
	require.NoError(t, st.Create(context.Background(), domain.NewEvent(id, "ops@example.com", fixedNow)))
}

func TestUpdateTask_DerivedStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		updates      [][2]string
		wantStatus   domain.Status
		wantOutcomes []domain.Status
	}{
		{
			name:         "verification success completes event",
			updates:      [][2]string{{"verification", "success"}},
			wantStatus:   domain.StatusSuccess,
			wantOutcomes: []domain.Status{domain.StatusSuccess},
		},
		{
			name:         "non-verification success keeps event unset",
			updates:      [][2]string{{"validation", "success"}, {"upload", "success"}},
			wantStatus:   domain.StatusUnset,
			wantOutcomes: nil,
		},
		{
			name:         "any failure fails event",
			updates:      [][2]string{{"validation", "success"}, {"change_request", "failure"}},
			wantStatus:   domain.StatusFailure,
			wantOutcomes: []domain.Status{domain.StatusFailure},
		},
		{
			name:         "failure after success overrides",
			updates:      [][2]string{{"verification", "success"}, {"upload", "failure"}},
			wantStatus:   domain.StatusFailure,
			wantOutcomes: []domain.Status{domain.StatusSuccess, domain.StatusFailure},
		},
		{
			name:         "failure is sticky",
			updates:      [][2]string{{"validation", "failure"}, {"verification", "success"}},
			wantStatus:   domain.StatusFailure,
			wantOutcomes: []domain.Status{domain.StatusFailure},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			st := memory.NewEventStore()
			n := &recordingNotifier{}
			tracker := newTestTracker(t, st, n)
			seed(t, st, "e1")

			for _, u := range tt.updates {
				require.NoError(t, tracker.UpdateTask(ctx, "e1", domain.TaskID(u[0]), domain.Status(u[1])))
			}

			event, err := tracker.GetEvent(ctx, "e1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, event.Status)

			var outcomes []domain.Status
			for _, c := range n.Calls() {
				outcomes = append(outcomes, c.outcome)
				assert.Equal(t, "ops@example.com", c.recipient)
			}
			assert.Equal(t, tt.wantOutcomes, outcomes)
		})
	}
}

func TestUpdateTask_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := memory.NewEventStore()
	tracker := newTestTracker(t, st, &recordingNotifier{})
	seed(t, st, "e1")

	err := tracker.UpdateTask(ctx, "missing", domain.TaskValidation, domain.StatusSuccess)
	assert.ErrorIs(t, err, ErrEventNotFound)

	err = tracker.UpdateTask(ctx, "e1", domain.TaskID("deploy"), domain.StatusSuccess)
	assert.ErrorIs(t, err, domain.ErrInvalidTaskID)

	err = tracker.UpdateTask(ctx, "e1", domain.TaskUpload, domain.Status("done"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	err = tracker.UpdateTask(ctx, "e1", domain.TaskUpload, domain.StatusUnset)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateTask_NotificationFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := memory.NewEventStore()
	n := &recordingNotifier{err: errors.New("smtp unavailable")}
	tracker := newTestTracker(t, st, n)
	seed(t, st, "e1")

	require.NoError(t, tracker.UpdateTask(ctx, "e1", domain.TaskVerification, domain.StatusSuccess))

	event, err := tracker.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, event.Status)
	assert.Len(t, n.Calls(), 1)
}

func TestUpdateTask_ConcurrentSameEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := memory.NewEventStore()
	tracker := newTestTracker(t, st, &recordingNotifier{})
	seed(t, st, "e1")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		for _, taskID := range domain.PipelineTasks {
			wg.Add(1)
			go func(id domain.TaskID) {
				defer wg.Done()
				assert.NoError(t, tracker.UpdateTask(ctx, "e1", id, domain.StatusSuccess))
			}(taskID)
		}
	}
	wg.Wait()

	event, err := tracker.GetEvent(ctx, "e1")
	require.NoError(t, err)
	for _, task := range event.Tasks {
		assert.Equal(t, domain.StatusSuccess, task.Status, task.ID)
	}
	assert.Equal(t, domain.StatusSuccess, event.Status)
	assert.Zero(t, tracker.(*eventTrackerImpl).locks.size())
}

func TestGetEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := memory.NewEventStore()
	tracker := newTestTracker(t, st, &recordingNotifier{})

	_, err := tracker.GetEvent(ctx, "unknown")
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.NotErrorIs(t, err, ErrCorruptEvent)

	st.Put("bad", []byte(`{"eventID":"bad","status":"","tasks":[{"id":"validation","status":""}]}`))
	_, err = tracker.GetEvent(ctx, "bad")
	assert.ErrorIs(t, err, ErrCorruptEvent)
	assert.NotErrorIs(t, err, ErrEventNotFound)

	id, err := tracker.CreateEvent(ctx, validRequest())
	require.NoError(t, err)

	first, err := tracker.GetEvent(ctx, id)
	require.NoError(t, err)
	second, err := tracker.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetEvent_StoreFailure(t *testing.T) {
	t.Parallel()

	ms := &MockEventStore{}
	ms.On("Get", mock.Anything, "e1").Return(nil, errors.New("timeout"))

	tracker := newTestTracker(t, ms, &recordingNotifier{})
	_, err := tracker.GetEvent(context.Background(), "e1")

	var svcErr *EventServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "get_event", svcErr.Operation)
	assert.NotErrorIs(t, err, ErrEventNotFound)
	ms.AssertExpectations(t)
}

func TestListEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker := newTestTracker(t, memory.NewEventStore(), &recordingNotifier{})

	summaries, err := tracker.ListEvents(ctx)
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)

	ok, err := tracker.CreateEvent(ctx, validRequest())
	require.NoError(t, err)

	bad := validRequest()
	bad.DestCarrier = "B"
	failed, err := tracker.CreateEvent(ctx, bad)
	require.Error(t, err)

	summaries, err = tracker.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[string]domain.Status{}
	for _, s := range summaries {
		byID[s.EventID] = s.Status
		assert.Equal(t, fixedNow, s.Timestamp)
	}
	assert.Equal(t, map[string]domain.Status{
		ok:     domain.StatusSuccess,
		failed: domain.StatusFailure,
	}, byID)
}

func TestListEvents_StoreFailure(t *testing.T) {
	t.Parallel()

	ms := &MockEventStore{}
	ms.On("List", mock.Anything).Return(nil, errors.New("connection reset"))

	tracker := newTestTracker(t, ms, &recordingNotifier{})
	_, err := tracker.ListEvents(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}

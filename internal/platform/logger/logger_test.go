package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mctflow/mct-tracker/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", "debug", slog.LevelDebug, true},
		{"upper case info", "INFO", slog.LevelInfo, true},
		{"warn", "warn", slog.LevelWarn, true},
		{"error", "Error", slog.LevelError, true},
		{"unknown falls back to info", "verbose", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level, ok := logger.ParseLevel(tc.input)
			assert.Equal(t, tc.want, level)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	buf := &logger.TestLogBuffer{}
	l := logger.New(buf, "warn")

	l.Info("dropped")
	l.Warn("kept", "event_id", "171234567890142")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
	logger.AssertLogField(t, buf, "event_id", "171234567890142")

	// New installs the logger as the default
	assert.Same(t, l, slog.Default())
}

func TestContextRoundTrip(t *testing.T) {
	l, buf := logger.GetTestLogger(t)

	ctx := logger.WithContext(context.Background(), l)
	logger.FromContext(ctx).Info("from context")
	logger.AssertLogContains(t, buf, "from context")

	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))

	fallback, _ := logger.GetTestLogger(t)
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, l, logger.FromContextOrDefault(ctx, fallback))
}

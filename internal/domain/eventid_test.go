package domain

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func TestIDGeneratorFormat(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(1712345678901)
	clock := ClockFunc(func() time.Time { return at })

	tests := []struct {
		name string
		rnd  fixedRand
		want string
	}{
		{"lowest suffix", 0, "171234567890110"},
		{"middle suffix", 32, "171234567890142"},
		{"highest suffix", 89, "171234567890199"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := NewIDGenerator(clock, tc.rnd)
			assert.Equal(t, tc.want, gen.Generate())
		})
	}
}

func TestIDGeneratorDefaults(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator(nil, nil)
	before := time.Now().UnixMilli()
	id := gen.Generate()
	after := time.Now().UnixMilli()

	require.Greater(t, len(id), 2)
	millis, err := strconv.ParseInt(id[:len(id)-2], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, millis, before)
	assert.LessOrEqual(t, millis, after)

	suffix, err := strconv.Atoi(id[len(id)-2:])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, suffix, 10)
	assert.LessOrEqual(t, suffix, 99)
}

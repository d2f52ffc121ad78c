package domain

import (
	"math/rand/v2"
	"strconv"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// RandomSource supplies entropy for the identifier generator.
type RandomSource interface {
	// IntN returns a non-negative pseudo-random number in [0,n).
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRandomSource draws from the process-wide math/rand/v2 source.
var DefaultRandomSource RandomSource = globalRand{}

// Suffix bounds of generated event ids: two decimal digits.
const (
	idSuffixMin = 10
	idSuffixMax = 99
)

// IDGenerator mints event identifiers from the millisecond wall clock and a
// two digit random suffix. Ids are unique with high probability only: two
// calls in the same millisecond collide when their suffixes do.
type IDGenerator struct {
	clock Clock
	rnd   RandomSource
}

// NewIDGenerator creates an IDGenerator. Nil arguments fall back to the
// system clock and the default random source.
func NewIDGenerator(clock Clock, rnd RandomSource) *IDGenerator {
	if clock == nil {
		clock = SystemClock
	}
	if rnd == nil {
		rnd = DefaultRandomSource
	}
	return &IDGenerator{clock: clock, rnd: rnd}
}

// Generate returns a new event identifier, e.g. "171234567890142".
func (g *IDGenerator) Generate() string {
	millis := g.clock.Now().UnixMilli()
	suffix := idSuffixMin + g.rnd.IntN(idSuffixMax-idSuffixMin+1)

	buf := make([]byte, 0, 24)
	buf = strconv.AppendInt(buf, millis, 10)
	buf = strconv.AppendInt(buf, int64(suffix), 10)
	return string(buf)
}

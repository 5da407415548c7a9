package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGateNilStampIsReady(t *testing.T) {
	c := Gate(nil, 5*time.Minute, time.Now())
	assert.True(t, c.Ready)
	assert.Zero(t, c.RemainingMinutes())
}

func TestGateBlocksInsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-2 * time.Minute)

	c := Gate(&last, 5*time.Minute, now)
	assert.False(t, c.Ready)
	assert.Equal(t, 3*time.Minute, c.Remaining)
	assert.Equal(t, 3, c.RemainingMinutes())
}

func TestGateReadyAtExactBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-5 * time.Minute)

	c := Gate(&last, 5*time.Minute, now)
	assert.True(t, c.Ready)
}

func TestRemainingMinutesRoundsUp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-(4*time.Minute + 30*time.Second))

	c := Gate(&last, 5*time.Minute, now)
	assert.False(t, c.Ready)
	assert.Equal(t, 1, c.RemainingMinutes())
}

func TestReduce(t *testing.T) {
	assert.Nil(t, Reduce(nil, time.Hour))

	last := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	got := Reduce(&last, 30*time.Minute)
	assert.Equal(t, last.Add(-30*time.Minute), *got)
}

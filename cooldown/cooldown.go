// Package cooldown implements the shared gate for timed actions. A
// nil last-performed stamp always passes; otherwise the action is
// blocked until the configured window has elapsed.
package cooldown

import "time"

// Check is the result of a gate evaluation.
type Check struct {
	Ready     bool
	Remaining time.Duration
}

// Gate evaluates whether an action whose last run was at `last` may
// run again at `now` given the cooldown window. Remaining is rounded
// up to the next whole minute for display.
func Gate(last *time.Time, window time.Duration, now time.Time) Check {
	if last == nil {
		return Check{Ready: true}
	}
	elapsed := now.Sub(*last)
	if elapsed >= window {
		return Check{Ready: true}
	}
	return Check{Ready: false, Remaining: window - elapsed}
}

// RemainingMinutes reports the remaining wait rounded up to whole
// minutes, the unit shown to players.
func (c Check) RemainingMinutes() int {
	if c.Ready {
		return 0
	}
	m := int(c.Remaining / time.Minute)
	if c.Remaining%time.Minute != 0 {
		m++
	}
	return m
}

// Reduce shifts a cooldown stamp back in time, shortening the wait.
// A nil stamp stays nil.
func Reduce(last *time.Time, by time.Duration) *time.Time {
	if last == nil {
		return nil
	}
	t := last.Add(-by)
	return &t
}

package animation

import "time"

// Clock provides time for animation scheduling. The default implementation
// uses system time. Tests can inject a fake clock via SetClock to control
// both the current instant and the expiry of phase-transition timers.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// realClock uses system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// clock is the package-level time source, replaceable for testing.
var clock Clock = realClock{}

// SetClock replaces the animation clock. Returns the previous clock
// so callers can restore it during cleanup.
func SetClock(c Clock) Clock {
	prev := clock
	clock = c
	return prev
}

// Now returns the current time from the active clock.
func Now() time.Time { return clock.Now() }

// After returns a channel that delivers once d has elapsed on the active
// clock.
func After(d time.Duration) <-chan time.Time { return clock.After(d) }

package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic
// relative-date resolution.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for default reference instants.
// Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current instant from the package clock. It is the default
// reference against which relative date expressions are resolved.
func Now() time.Time { return clock.Now() }

package client

import "time"

// Clock abstracts time so retry waits can be tested deterministically.
// Production code uses the real clock; tests may substitute a fake that
// controls when timers fire.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// NewTimer creates a new Timer that fires after duration d.
	NewTimer(d time.Duration) Timer
}

// Timer abstracts time.Timer so fake clocks can provide controllable
// timers for retry-wait tests.
type Timer interface {
	// C returns the channel on which the firing time is delivered.
	C() <-chan time.Time
	// Stop prevents the timer from firing and reports whether it was
	// stopped before it fired.
	Stop() bool
}

// realClock is the zero-value Clock backed by the time package.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTimer(d time.Duration) Timer {
	return &realTimer{inner: time.NewTimer(d)}
}

// realTimer wraps time.Timer to satisfy the Timer interface.
type realTimer struct {
	inner *time.Timer
}

func (t *realTimer) C() <-chan time.Time { return t.inner.C }
func (t *realTimer) Stop() bool          { return t.inner.Stop() }

// Package clock abstracts wall-clock reads and one-shot timers so code that
// schedules work at calendar boundaries can be driven by a fake in tests.
package clock

import "time"

// Clock reads the current time and schedules callbacks.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time
	// AfterFunc runs f on its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback created by AfterFunc.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Real returns the clock backed by the time package.
func Real() Clock {
	return realClock{}
}

// realClock delegates to the time package.
type realClock struct{}

// Now returns time.Now.
func (realClock) Now() time.Time { return time.Now() }

// AfterFunc wraps time.AfterFunc.
func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Package clocktest provides a manually advanced clock.Clock for tests.
package clocktest

import (
	"sort"
	"sync"
	"time"

	"github.com/cardfolio/dashboard-sync/internal/clock"
)

// Fake is a clock whose time only moves when Advance or Set is called.
// Due callbacks run synchronously on the goroutine that moves the clock,
// in deadline order.
type Fake struct {
	// mu protects now, timers and nextSeq.
	mu sync.Mutex
	// now is the current fake instant.
	now time.Time
	// timers are the callbacks that have not fired or been stopped.
	timers []*fakeTimer
	// nextSeq orders timers sharing a deadline by creation.
	nextSeq int
	// fired counts callbacks that ran.
	fired int
}

var _ clock.Clock = (*Fake)(nil)

// NewFake returns a clock frozen at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake instant.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

// AfterFunc schedules fn at now+d.
func (f *Fake) AfterFunc(d time.Duration, fn func()) clock.Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTimer{
		clock:    f,
		deadline: f.now.Add(d),
		fn:       fn,
		seq:      f.nextSeq,
	}
	f.nextSeq++
	f.timers = append(f.timers, t)

	return t
}

// Advance moves the clock forward by d, firing every timer that falls due.
func (f *Fake) Advance(d time.Duration) {
	f.Set(f.Now().Add(d))
}

// Set moves the clock to target, firing due timers one at a time. A callback
// may schedule new timers; those fire too if they are due before target.
func (f *Fake) Set(target time.Time) {
	for {
		f.mu.Lock()

		next := f.popDue(target)
		if next == nil {
			if target.After(f.now) {
				f.now = target
			}

			f.mu.Unlock()

			return
		}

		if next.deadline.After(f.now) {
			f.now = next.deadline
		}

		f.fired++
		f.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of timers waiting to fire.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.timers)
}

// Fired returns the number of callbacks run so far.
func (f *Fake) Fired() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fired
}

// NextDeadline returns the earliest pending deadline.
func (f *Fake) NextDeadline() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.timers) == 0 {
		return time.Time{}, false
	}

	f.sortTimers()

	return f.timers[0].deadline, true
}

// popDue removes and returns the earliest timer due at or before target.
// The caller holds mu.
func (f *Fake) popDue(target time.Time) *fakeTimer {
	if len(f.timers) == 0 {
		return nil
	}

	f.sortTimers()

	first := f.timers[0]
	if first.deadline.After(target) {
		return nil
	}

	f.timers = f.timers[1:]

	return first
}

// sortTimers orders timers by deadline then creation; the caller holds mu.
func (f *Fake) sortTimers() {
	sort.SliceStable(f.timers, func(i, j int) bool {
		if f.timers[i].deadline.Equal(f.timers[j].deadline) {
			return f.timers[i].seq < f.timers[j].seq
		}

		return f.timers[i].deadline.Before(f.timers[j].deadline)
	})
}

// remove drops t from the pending list and reports whether it was there.
func (f *Fake) remove(t *fakeTimer) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, pending := range f.timers {
		if pending == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)

			return true
		}
	}

	return false
}

// fakeTimer is a pending callback on a Fake clock.
type fakeTimer struct {
	// clock owns the timer.
	clock *Fake
	// deadline is when the callback becomes due.
	deadline time.Time
	// fn is the callback.
	fn func()
	// seq breaks ties between equal deadlines.
	seq int
}

// Stop removes the timer from its clock.
func (t *fakeTimer) Stop() bool {
	return t.clock.remove(t)
}

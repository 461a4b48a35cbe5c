package today

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardfolio/dashboard-sync/internal/clock"
	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
	"github.com/cardfolio/dashboard-sync/internal/logger"
	"github.com/cardfolio/dashboard-sync/internal/reactive"
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithFallback sets the zone used when the timezone is unset or unknown.
// Defaults to the process local zone.
func WithFallback(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.fallback = loc
		}
	}
}

// WithGuard sets the delay added after midnight before recomputing.
func WithGuard(d time.Duration) Option {
	return func(t *Tracker) {
		if d >= 0 {
			t.guard = d
		}
	}
}

// Tracker publishes the current day for one consumer.
type Tracker struct {
	// ctx carries the tracker's logger.
	ctx context.Context //nolint:containedctx // Only used for logging from timer callbacks.
	// id identifies the tracker in logs.
	id string
	// zone is the reactive timezone the day is derived from.
	zone reactive.Readable[calendar.Timezone]
	// clock reads time and schedules the midnight timer.
	clock clock.Clock
	// fallback is used when zone is unset or fails to load.
	fallback *time.Location
	// guard is added after each midnight boundary.
	guard time.Duration
	// day is the published current day.
	day *reactive.Value[calendar.Day]

	// evalMu serialises evaluations so the latest one is published last.
	evalMu sync.Mutex
	// mu protects the fields below.
	mu sync.Mutex
	// timer is the pending midnight timer, nil once released.
	timer clock.Timer
	// nextRefresh is when timer is due.
	nextRefresh time.Time
	// generation increases with every evaluation; timers from older
	// generations are ignored.
	generation uint64
	// evaluations counts completed evaluations.
	evaluations int
	// closed is set by Close.
	closed bool
	// unsubscribe detaches the tracker from zone.
	unsubscribe func()
}

var _ reactive.Readable[calendar.Day] = (*Tracker)(nil)

// New starts a tracker on zone: it evaluates the day immediately, schedules
// the next midnight refresh and follows timezone changes until Close.
func New(ctx context.Context, zone reactive.Readable[calendar.Timezone], opts ...Option) *Tracker {
	t := &Tracker{
		id:       uuid.NewString(),
		zone:     zone,
		clock:    clock.Real(),
		fallback: time.Local,
		guard:    calendar.DefaultMidnightGuard,
		day:      reactive.NewValue(calendar.Day{}),
	}

	for _, opt := range opts {
		opt(t)
	}

	t.ctx = logger.WithKV(logger.WithName(ctx, "today"), "tracker_id", t.id)

	// Subscribe before the first evaluation so no change is missed.
	unsubscribe := zone.Subscribe(func(tz calendar.Timezone) {
		t.evaluate(tz, triggerTimezone, 0)
	})

	t.mu.Lock()
	t.unsubscribe = unsubscribe
	t.mu.Unlock()

	t.evaluate(zone.Get(), triggerStart, 0)

	return t
}

// Evaluation triggers, used in logs.
const (
	triggerStart    = "start"
	triggerTimezone = "timezone"
	triggerMidnight = "midnight"
)

// ID returns the tracker identifier.
func (t *Tracker) ID() string {
	return t.id
}

// Get returns the current day.
func (t *Tracker) Get() calendar.Day {
	return t.day.Get()
}

// Subscribe registers fn to run whenever the current day changes.
// fn runs while the tracker is evaluating, so it must not change the
// timezone or close the tracker synchronously.
func (t *Tracker) Subscribe(fn func(calendar.Day)) func() {
	return t.day.Subscribe(fn)
}

// NextRefresh returns when the pending timer is due; false once closed.
func (t *Tracker) NextRefresh() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.timer == nil {
		return time.Time{}, false
	}

	return t.nextRefresh, true
}

// Evaluations returns how many times the day has been computed.
func (t *Tracker) Evaluations() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.evaluations
}

// Close cancels the pending timer and stops following the timezone. After
// Close returns the published day never changes again. Close is idempotent
// and must not be called from a day subscriber.
func (t *Tracker) Close() {
	t.evalMu.Lock()
	defer t.evalMu.Unlock()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()

		return
	}

	t.closed = true
	t.generation++

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}

	unsubscribe := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	logger.Debug(t.ctx, "Tracker released")
}

// evaluate recomputes the day for tz and replaces the pending timer.
// A non-zero expected generation makes the call a no-op unless it still
// matches, which is how superseded timers are discarded.
func (t *Tracker) evaluate(tz calendar.Timezone, trigger string, expected uint64) {
	t.evalMu.Lock()
	defer t.evalMu.Unlock()

	t.mu.Lock()
	if t.closed || (expected != 0 && expected != t.generation) {
		t.mu.Unlock()

		return
	}

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}

	t.generation++
	generation := t.generation

	now := t.clock.Now()

	loc, err := calendar.Resolve(tz, t.fallback)
	if err != nil {
		logger.WarnKV(t.ctx, "Unknown timezone, using the default zone",
			"timezone", tz.String(), "fallback", loc.String(), "error", err)
	}

	day := calendar.Today(now, loc)
	next := calendar.NextMidnight(now, loc).Add(t.guard)

	t.nextRefresh = next
	t.timer = t.clock.AfterFunc(next.Sub(now), func() {
		t.evaluate(t.zone.Get(), triggerMidnight, generation)
	})
	t.evaluations++
	t.mu.Unlock()

	if t.day.Set(day) {
		logger.DebugKV(t.ctx, "Current day changed",
			"day", day.String(), "timezone", loc.String(), "trigger", trigger, "next_refresh", next)
	}
}

package calendar

import (
	"fmt"
	"strings"
	"time"

	// Embedded zone database so lookups work on hosts without /usr/share/zoneinfo.
	_ "time/tzdata"
)

// DefaultMidnightGuard is added after a midnight boundary before the day is
// recomputed, so a timer that fires a little early still lands on the new day.
const DefaultMidnightGuard = 100 * time.Millisecond

// Timezone is an IANA zone identifier such as "America/New_York".
// The empty value means no explicit preference: use the environment default.
type Timezone string

// IsSet reports whether an explicit zone is selected.
func (tz Timezone) IsSet() bool {
	return strings.TrimSpace(string(tz)) != ""
}

// String returns the zone name, or "" when unset.
func (tz Timezone) String() string {
	return strings.TrimSpace(string(tz))
}

// Location loads the zone. An unset zone is an error; callers decide the fallback.
func (tz Timezone) Location() (*time.Location, error) {
	if !tz.IsSet() {
		return nil, ErrTimezoneNotSet
	}

	loc, err := time.LoadLocation(tz.String())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidTimezone, tz.String(), err)
	}

	return loc, nil
}

// Validate returns an error when tz is set but not a known zone.
func (tz Timezone) Validate() error {
	if !tz.IsSet() {
		return nil
	}

	_, err := tz.Location()

	return err
}

// Resolve returns the location for tz, or fallback when tz is unset or unknown.
// The returned error is non-nil only when tz was set and failed to load; the
// location is still usable in that case.
func Resolve(tz Timezone, fallback *time.Location) (*time.Location, error) {
	if fallback == nil {
		fallback = time.Local
	}

	if !tz.IsSet() {
		return fallback, nil
	}

	loc, err := tz.Location()
	if err != nil {
		return fallback, err
	}

	return loc, nil
}

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) Day {
	return DayOf(now.In(loc))
}

// NextMidnight returns the first instant of the day after now's day in loc.
// AddDate keeps this correct across DST transitions where a day is not 24h.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
}

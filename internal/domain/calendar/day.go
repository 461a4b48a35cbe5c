package calendar

import (
	"fmt"
	"time"
)

// Layout is the ISO-8601 format of a Day.
const Layout = "2006-01-02"

// Day is a calendar date with day granularity.
type Day struct {
	y int
	m time.Month
	d int
}

// NewDay returns a normalized Day, so NewDay(2024, 2, 30) is 2024-03-01.
func NewDay(year int, month time.Month, day int) Day {
	d := Day{year, month, day}
	d.y, d.m, d.d = d.time().Date()

	return d
}

// DayOf returns the calendar date of t as observed in t's own location.
func DayOf(t time.Time) Day {
	return NewDay(t.Date())
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q, want format %q: %w", s, Layout, err)
	}

	return DayOf(t), nil
}

// MustParseDay is like ParseDay but panics on error.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}

	return d
}

// time is the canonical representation of the day: midnight UTC.
func (d Day) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the year of the day.
func (d Day) Year() int { return d.y }

// Month returns the month of the day.
func (d Day) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Day) Day() int { return d.d }

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d == Day{} }

// Before reports whether d is before x.
func (d Day) Before(x Day) bool { return d.time().Before(x.time()) }

// After reports whether d is after x.
func (d Day) After(x Day) bool { return d.time().After(x.time()) }

// AddDays returns the day n days after d.
func (d Day) AddDays(n int) Day { return NewDay(d.y, d.m, d.d+n) }

// AddMonths adds n calendar months, clamping to the last day of the target
// month (Jan 31 + 1 month is Feb 28 or 29).
func (d Day) AddMonths(n int) Day {
	first := NewDay(d.y, d.m+time.Month(n), 1)
	last := NewDay(first.y, first.m+1, 0).d

	return NewDay(first.y, first.m, min(d.d, last))
}

// DaysUntil returns the number of days from d to x, negative when x is earlier.
func (d Day) DaysUntil(x Day) int {
	return int(x.time().Sub(d.time()).Hours() / 24) //nolint:mnd // Hours per day.
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string { return d.time().Format(Layout) }

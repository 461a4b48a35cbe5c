package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
)

// Frequency is how often a benefit resets.
type Frequency string

// Supported frequencies; anything else is treated as Annual.
const (
	Monthly    Frequency = "monthly"
	Quarterly  Frequency = "quarterly"
	SemiAnnual Frequency = "semi_annual"
	Annual     Frequency = "annual"
)

// months returns the period length in months.
func (f Frequency) months() int {
	switch f {
	case Monthly:
		return 1
	case Quarterly:
		return 3 //nolint:mnd // Months per quarter.
	case SemiAnnual:
		return 6 //nolint:mnd // Months per half year.
	default:
		return 12 //nolint:mnd // Months per year.
	}
}

// ResetType aligns periods to the calendar or to the card's open date.
type ResetType string

// Supported reset types; anything else is treated as Calendar.
const (
	Calendar     ResetType = "calendar"
	Cardiversary ResetType = "cardiversary"
)

// Period is an inclusive day range.
type Period struct {
	// Start is the first day of the period.
	Start calendar.Day
	// End is the last day of the period.
	End calendar.Day
}

// String formats the period as start..end.
func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.Start, p.End)
}

// Current returns the period containing today. Cardiversary periods need an
// open date and fall back to calendar alignment without one.
func Current(frequency Frequency, reset ResetType, openDate, today calendar.Day) Period {
	if reset == Cardiversary && !openDate.IsZero() {
		return cardiversary(frequency, openDate, today)
	}

	return calendarAligned(frequency, today)
}

// calendarAligned returns the calendar month, quarter, half or year of today.
func calendarAligned(frequency Frequency, today calendar.Day) Period {
	months := frequency.months()
	firstMonth := (int(today.Month())-1)/months*months + 1
	start := calendar.NewDay(today.Year(), time.Month(firstMonth), 1)

	return Period{Start: start, End: start.AddMonths(months).AddDays(-1)}
}

// cardiversary walks forward from the open date one period at a time until
// the period containing today is found. An open date after today yields the
// first period.
func cardiversary(frequency Frequency, openDate, today calendar.Day) Period {
	months := frequency.months()
	cursor := openDate

	for {
		next := cursor.AddMonths(months)
		if next.After(today) {
			return Period{Start: cursor, End: next.AddDays(-1)}
		}

		cursor = next
	}
}

// DaysUntilReset counts the days left in a period ending on end, today
// included. A period that already ended has zero days left.
func DaysUntilReset(end, today calendar.Day) int {
	if end.Before(today) {
		return 0
	}

	return today.DaysUntil(end) + 1
}

// ResetLabel describes when a period ending on end resets, such as
// "Resets Jan 2" or "Resets Jan 2 (cardiversary)".
func ResetLabel(end calendar.Day, reset ResetType) string {
	next := end.AddDays(1)

	var b strings.Builder

	fmt.Fprintf(&b, "Resets %s %d", next.Month().String()[:3], next.Day())

	if reset == Cardiversary {
		b.WriteString(" (cardiversary)")
	}

	return b.String()
}

// Summary is the current period of a benefit with its reset countdown.
type Summary struct {
	Period
	// DaysUntilReset counts the days left, today included.
	DaysUntilReset int
	// ResetLabel describes the next reset.
	ResetLabel string
}

// Summarize returns the current period of a benefit as seen from today.
func Summarize(frequency Frequency, reset ResetType, openDate, today calendar.Day) Summary {
	current := Current(frequency, reset, openDate, today)

	return Summary{
		Period:         current,
		DaysUntilReset: DaysUntilReset(current.End, today),
		ResetLabel:     ResetLabel(current.End, reset),
	}
}

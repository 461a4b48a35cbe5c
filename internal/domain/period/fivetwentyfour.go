package period

import (
	"slices"

	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
)

// Window is the 5/24 look-back in months.
const Window = 24

// Status levels of the 5/24 count.
const (
	StatusGreen  = "green"
	StatusYellow = "yellow"
	StatusRed    = "red"
)

// yellowCount is the count at which the status turns yellow; above it is red.
const yellowCount = 4

// DropOff is one counted card and the day it leaves the window.
type DropOff struct {
	// Opened is the card's open date.
	Opened calendar.Day
	// DropOff is Opened plus the window.
	DropOff calendar.Day
}

// FiveTwentyFourStatus summarizes cards opened within the window.
type FiveTwentyFourStatus struct {
	// Count is the number of cards opened within the window.
	Count int
	// Status is green, yellow or red.
	Status string
	// DropOffs lists counted cards ordered by open date.
	DropOffs []DropOff
}

// FiveTwentyFour counts open dates on or after today minus 24 months. Zero
// dates are ignored.
func FiveTwentyFour(openDates []calendar.Day, today calendar.Day) FiveTwentyFourStatus {
	cutoff := today.AddMonths(-Window)

	counted := make([]calendar.Day, 0, len(openDates))
	for _, opened := range openDates {
		if opened.IsZero() || opened.Before(cutoff) {
			continue
		}

		counted = append(counted, opened)
	}

	slices.SortFunc(counted, func(a, b calendar.Day) int {
		switch {
		case a.Before(b):
			return -1
		case a.After(b):
			return 1
		default:
			return 0
		}
	})

	result := FiveTwentyFourStatus{
		Count:    len(counted),
		Status:   level(len(counted)),
		DropOffs: make([]DropOff, 0, len(counted)),
	}

	for _, opened := range counted {
		result.DropOffs = append(result.DropOffs, DropOff{Opened: opened, DropOff: opened.AddMonths(Window)})
	}

	return result
}

// level maps a count to its status.
func level(count int) string {
	switch {
	case count < yellowCount:
		return StatusGreen
	case count == yellowCount:
		return StatusYellow
	default:
		return StatusRed
	}
}

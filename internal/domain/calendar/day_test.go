package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestNewDay_Normalizes verifies overflowing components roll into the next month.
func TestNewDay_Normalizes(t *testing.T) {
	t.Parallel()

	require.Equal(t, MustParseDay("2024-03-01"), NewDay(2024, time.February, 30))
	require.Equal(t, MustParseDay("2023-12-31"), NewDay(2024, time.January, 0))
}

// TestParseDay rejects malformed input and accepts ISO dates.
func TestParseDay(t *testing.T) {
	t.Parallel()

	d, err := ParseDay("2024-03-10")
	require.NoError(t, err)
	require.Equal(t, 2024, d.Year())
	require.Equal(t, time.March, d.Month())
	require.Equal(t, 10, d.Day())
	require.Equal(t, "2024-03-10", d.String())

	_, err = ParseDay("10/03/2024")
	require.Error(t, err)
}

// TestDay_Ordering checks comparisons are by calendar date only.
func TestDay_Ordering(t *testing.T) {
	t.Parallel()

	a := MustParseDay("2024-03-10")
	b := MustParseDay("2024-03-11")

	require.True(t, a.Before(b))
	require.True(t, b.After(a))
	require.False(t, a.After(a))
	require.Equal(t, b, a.AddDays(1))
	require.Equal(t, 1, a.DaysUntil(b))
	require.Equal(t, -1, b.DaysUntil(a))
	require.True(t, Day{}.IsZero())
}

// TestDay_AddMonths clamps to the end of shorter months.
func TestDay_AddMonths(t *testing.T) {
	t.Parallel()

	require.Equal(t, MustParseDay("2024-02-29"), MustParseDay("2024-01-31").AddMonths(1))
	require.Equal(t, MustParseDay("2023-02-28"), MustParseDay("2023-01-31").AddMonths(1))
	require.Equal(t, MustParseDay("2026-03-15"), MustParseDay("2024-03-15").AddMonths(24))
	require.Equal(t, MustParseDay("2022-03-15"), MustParseDay("2024-03-15").AddMonths(-24))
}

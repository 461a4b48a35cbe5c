package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestTimezone_Validate accepts unset and known zones and rejects unknown ones.
func TestTimezone_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Timezone("").Validate())
	require.NoError(t, Timezone("  ").Validate())
	require.NoError(t, Timezone("America/New_York").Validate())
	require.ErrorIs(t, Timezone("Mars/Olympus_Mons").Validate(), ErrInvalidTimezone)

	_, err := Timezone("").Location()
	require.ErrorIs(t, err, ErrTimezoneNotSet)
}

// TestResolve falls back for unset and unknown zones.
func TestResolve(t *testing.T) {
	t.Parallel()

	loc, err := Resolve("", time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)

	loc, err = Resolve("Not/AZone", time.UTC)
	require.Error(t, err)
	require.Equal(t, time.UTC, loc)

	loc, err = Resolve("Asia/Tokyo", time.UTC)
	require.NoError(t, err)
	require.Equal(t, "Asia/Tokyo", loc.String())

	loc, err = Resolve("", nil)
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)
}

// TestToday uses the zone's calendar, not the instant's own location.
func TestToday(t *testing.T) {
	t.Parallel()

	instant := time.Date(2024, time.March, 11, 2, 30, 0, 0, time.UTC)

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	require.Equal(t, MustParseDay("2024-03-11"), Today(instant, time.UTC))
	require.Equal(t, MustParseDay("2024-03-10"), Today(instant, ny))
	require.Equal(t, MustParseDay("2024-03-11"), Today(instant, tokyo))
}

// TestNextMidnight covers plain days and a DST switch where the day is 23h long.
func TestNextMidnight(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 23, 59, 59, 950_000_000, time.UTC)
	require.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), NextMidnight(now, time.UTC))

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 is 23 hours long in New York.
	start := time.Date(2024, time.March, 10, 0, 30, 0, 0, ny)
	next := NextMidnight(start, ny)
	require.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, ny), next)
	require.Equal(t, 22*time.Hour+30*time.Minute, next.Sub(start))
}

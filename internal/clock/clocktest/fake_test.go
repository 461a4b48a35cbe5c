package clocktest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFake_FiresInDeadlineOrder checks ordering, partial advances and Stop.
func TestFake_FiresInDeadlineOrder(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)
	f := NewFake(start)

	var fired []string

	f.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	f.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	stopped := f.AfterFunc(3*time.Second, func() { fired = append(fired, "never") })

	require.Equal(t, 3, f.Pending())
	require.True(t, stopped.Stop())
	require.False(t, stopped.Stop())

	f.Advance(1500 * time.Millisecond)
	require.Equal(t, []string{"a"}, fired)
	require.Equal(t, start.Add(1500*time.Millisecond), f.Now())

	f.Advance(time.Hour)
	require.Equal(t, []string{"a", "b"}, fired)
	require.Zero(t, f.Pending())
	require.Equal(t, 2, f.Fired())
}

// TestFake_CallbackSeesDeadline verifies Now inside a callback equals its deadline
// and that timers scheduled from a callback still fire within the same advance.
func TestFake_CallbackSeesDeadline(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0).UTC()
	f := NewFake(start)

	var seen []time.Time

	f.AfterFunc(time.Second, func() {
		seen = append(seen, f.Now())
		f.AfterFunc(time.Second, func() { seen = append(seen, f.Now()) })
	})

	deadline, ok := f.NextDeadline()
	require.True(t, ok)
	require.Equal(t, start.Add(time.Second), deadline)

	f.Advance(5 * time.Second)

	require.Equal(t, []time.Time{start.Add(time.Second), start.Add(2 * time.Second)}, seen)
	require.Equal(t, start.Add(5*time.Second), f.Now())
}

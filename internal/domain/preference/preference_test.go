package preference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestActorClone verifies that Clone returns a deep copy and handles nil safely.
func TestActorClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Actor)(nil).Clone())

	a := &Actor{
		Hostname: "dash-01",
		Username: "jdoe",
	}

	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)
	require.Equal(t, "jdoe@dash-01", a.String())
	require.Equal(t, "<unknown>", (*Actor)(nil).String())
}

// TestPreferenceClone verifies that Clone copies fields and deep-copies UpdatedBy.
func TestPreferenceClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Preference)(nil).Clone())

	p := Preference{
		Timezone:  "Europe/Berlin",
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedBy: &Actor{
			Hostname: "dash-01",
			Username: "jdoe",
		},
	}

	c := p.Clone()
	require.Equal(t, p.Timezone, c.Timezone)
	require.Equal(t, p.UpdatedAt, c.UpdatedAt)
	require.Equal(t, p.UpdatedBy, c.UpdatedBy)
	require.NotSame(t, p.UpdatedBy, c.UpdatedBy)
}

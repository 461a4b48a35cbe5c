package preference

import (
	"time"

	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
)

// Actor identifies who changed a preference.
type Actor struct {
	// Hostname is the machine name where the change was made.
	Hostname string
	// Username is the system user who made the change.
	Username string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// String formats the actor as username@hostname.
func (a *Actor) String() string {
	if a == nil {
		return "<unknown>"
	}

	return a.Username + "@" + a.Hostname
}

// Preference is the timezone selection of a session.
type Preference struct {
	// Timezone is the selected zone; empty means the environment default.
	Timezone calendar.Timezone
	// UpdatedAt is when the timezone was last changed.
	UpdatedAt time.Time
	// UpdatedBy is who last changed the timezone.
	UpdatedBy *Actor
}

// Clone returns a copy of the preference to avoid leaking internal references.
func (p *Preference) Clone() *Preference {
	if p == nil {
		return nil
	}

	return &Preference{
		Timezone:  p.Timezone,
		UpdatedAt: p.UpdatedAt,
		UpdatedBy: p.UpdatedBy.Clone(),
	}
}

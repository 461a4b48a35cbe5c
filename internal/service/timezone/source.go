package timezone

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
	domain "github.com/cardfolio/dashboard-sync/internal/domain/preference"
	"github.com/cardfolio/dashboard-sync/internal/logger"
	"github.com/cardfolio/dashboard-sync/internal/reactive"
	repo "github.com/cardfolio/dashboard-sync/internal/repository/preference"
)

// ErrInvalidTimezone is returned when an update names an unknown zone.
var ErrInvalidTimezone = calendar.ErrInvalidTimezone

// Source holds the active timezone preference.
type Source struct {
	// repo handles persistent storage of the preference.
	repo repo.Repository
	// preference is the current in-memory preference.
	preference *domain.Preference
	// zone publishes the active timezone to readers.
	zone *reactive.Value[calendar.Timezone]
	// now stamps updates.
	now func() time.Time
	// writeMu serialises writers, including the publish to subscribers.
	writeMu sync.Mutex
	// mu protects preference.
	mu sync.RWMutex
}

// NewSource creates a Source backed by the provided repository and loads the
// stored preference. A missing preference starts with no explicit zone; a
// stored zone that no longer loads is kept but logged, consumers fall back.
func NewSource(ctx context.Context, repository repo.Repository) (*Source, error) {
	s := &Source{
		repo:       repository,
		preference: new(domain.Preference),
		zone:       reactive.NewValue(calendar.Timezone("")),
		now:        time.Now,
	}

	if repository == nil {
		return s, nil
	}

	preference, err := repository.Load(ctx)
	switch {
	case err == nil:
		s.adopt(ctx, preference)
	case errors.Is(err, repo.ErrNotFound):
		// Keep the default: no explicit timezone.
	default:
		return nil, fmt.Errorf("load preference: %w", err)
	}

	return s, nil
}

// View returns the reactive read-only timezone.
func (s *Source) View() reactive.Readable[calendar.Timezone] {
	return s.zone.ReadOnly()
}

// Current returns a copy of the current preference.
func (s *Source) Current() *domain.Preference {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.preference.Clone()
}

// Update validates and stores a new timezone. An empty zone clears the
// preference. Subscribers are notified after the preference is persisted.
func (s *Source) Update(ctx context.Context, actor *domain.Actor, tz calendar.Timezone) (*domain.Preference, error) {
	tz = calendar.Timezone(tz.String())
	if err := tz.Validate(); err != nil {
		return nil, fmt.Errorf("validate timezone: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := &domain.Preference{
		Timezone:  tz,
		UpdatedAt: s.now(),
		UpdatedBy: actor.Clone(),
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, next); err != nil {
			logger.Errorf(ctx, "Failed to persist timezone preference: %v", err)

			return nil, fmt.Errorf("persist preference: %w", err)
		}
	}

	s.mu.Lock()
	s.preference = next
	s.mu.Unlock()

	s.zone.Set(next.Timezone)

	logger.InfoKV(ctx, "Timezone preference updated", "timezone", next.Timezone.String(), "actor", next.UpdatedBy.String())

	return next.Clone(), nil
}

// Reload re-reads the repository and publishes any change. It is the refresh
// entry point used when the state file is edited by another process.
func (s *Source) Reload(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	// Load under writeMu so a concurrent Update is never overwritten by an
	// older snapshot.
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	preference, err := s.repo.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrNotFound):
		preference = new(domain.Preference)
	default:
		return fmt.Errorf("reload preference: %w", err)
	}

	s.adopt(ctx, preference)

	return nil
}

// adopt installs a loaded preference; the caller holds writeMu or owns s exclusively.
func (s *Source) adopt(ctx context.Context, preference *domain.Preference) {
	if err := preference.Timezone.Validate(); err != nil {
		logger.WarnKV(ctx, "Stored timezone is not recognised, the default zone will be used",
			"timezone", preference.Timezone.String(), "error", err)
	}

	s.mu.Lock()
	s.preference = preference
	s.mu.Unlock()

	if s.zone.Set(preference.Timezone) {
		logger.InfoKV(ctx, "Timezone preference loaded", "timezone", preference.Timezone.String())
	}
}

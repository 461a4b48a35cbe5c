package server

import (
	"context"
	"fmt"

	api "github.com/cardfolio/dashboard-sync/internal/api/grpc/dashboard"
	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
	"github.com/cardfolio/dashboard-sync/internal/domain/period"
	domain "github.com/cardfolio/dashboard-sync/internal/domain/preference"
	"github.com/cardfolio/dashboard-sync/internal/logger"
	"github.com/cardfolio/dashboard-sync/internal/service/cardimage"
	"github.com/cardfolio/dashboard-sync/internal/service/timezone"
	"github.com/cardfolio/dashboard-sync/internal/service/today"
)

// service encapsulates the dashboard business logic.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// source owns the timezone preference.
	source *timezone.Source
	// images resolves card images.
	images *cardimage.Service
	// trackerOptions configure every current-day tracker.
	trackerOptions []today.Option
	// today answers unary current-day reads and period computations.
	today *today.Tracker
}

var _ api.Service = (*service)(nil)

// newService creates a service over a timezone source and an image resolver.
func newService(
	ctx context.Context,
	source *timezone.Source,
	images *cardimage.Service,
	trackerOptions ...today.Option,
) *service {
	return &service{
		source:         source,
		images:         images,
		trackerOptions: trackerOptions,
		today:          today.New(logger.WithName(ctx, "today"), source.View(), trackerOptions...),
	}
}

// Close stops the shared tracker.
func (s *service) Close() {
	s.today.Close()
}

// GetTimezone returns the current preference.
func (s *service) GetTimezone(ctx context.Context) *domain.Preference {
	preference := s.source.Current()

	logger.DebugKV(ctx, "Timezone requested", "timezone", preference.Timezone.String())

	return preference
}

// SetTimezone stores a new preference on behalf of actor.
func (s *service) SetTimezone(
	ctx context.Context,
	actor *domain.Actor,
	tz calendar.Timezone,
) (*domain.Preference, error) {
	preference, err := s.source.Update(ctx, actor, tz)
	if err != nil {
		return nil, fmt.Errorf("update timezone: %w", err)
	}

	return preference, nil
}

// CurrentDay returns today in the active timezone.
func (s *service) CurrentDay(context.Context) calendar.Day {
	return s.today.Get()
}

// WatchCurrentDay creates a tracker owned by the caller, who must close it.
func (s *service) WatchCurrentDay(ctx context.Context) api.DayFeed {
	tracker := today.New(ctx, s.source.View(), s.trackerOptions...)

	logger.DebugKV(ctx, "Current day stream opened", "tracker_id", tracker.ID())

	return tracker
}

// ResolveCardImage walks the fallback chain of a card image.
func (s *service) ResolveCardImage(ctx context.Context, assetID, variantID string) (cardimage.Result, error) {
	result, err := s.images.Resolve(ctx, assetID, variantID)
	if err != nil {
		return result, fmt.Errorf("resolve card image: %w", err)
	}

	return result, nil
}

// BenefitPeriod returns the current period of a benefit as of today.
func (s *service) BenefitPeriod(
	_ context.Context,
	frequency period.Frequency,
	reset period.ResetType,
	openDate calendar.Day,
) period.Summary {
	return period.Summarize(frequency, reset, openDate, s.today.Get())
}

// FiveTwentyFour returns the 5/24 status as of today.
func (s *service) FiveTwentyFour(_ context.Context, openDates []calendar.Day) period.FiveTwentyFourStatus {
	return period.FiveTwentyFour(openDates, s.today.Get())
}

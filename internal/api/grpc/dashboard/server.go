package dashboard

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
	"github.com/cardfolio/dashboard-sync/internal/domain/period"
	domain "github.com/cardfolio/dashboard-sync/internal/domain/preference"
	"github.com/cardfolio/dashboard-sync/internal/logger"
	"github.com/cardfolio/dashboard-sync/internal/service/cardimage"
)

// DayFeed is a current-day value owned by one stream.
type DayFeed interface {
	Get() calendar.Day
	Subscribe(fn func(calendar.Day)) func()
	Close()
}

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	GetTimezone(ctx context.Context) *domain.Preference
	SetTimezone(ctx context.Context, actor *domain.Actor, tz calendar.Timezone) (*domain.Preference, error)
	CurrentDay(ctx context.Context) calendar.Day
	WatchCurrentDay(ctx context.Context) DayFeed
	ResolveCardImage(ctx context.Context, assetID, variantID string) (cardimage.Result, error)
	BenefitPeriod(ctx context.Context, frequency period.Frequency, reset period.ResetType, openDate calendar.Day) period.Summary
	FiveTwentyFour(ctx context.Context, openDates []calendar.Day) period.FiveTwentyFourStatus
}

// Server implements the DashboardSync gRPC API.
type Server struct {
	// service provides the business logic.
	service Service
	// shutdown is closed by Shutdown to end open streams.
	shutdown chan struct{}
	// shutdownOnce guards closing shutdown.
	shutdownOnce sync.Once
}

var _ DashboardSyncServer = (*Server)(nil)

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service:  service,
		shutdown: make(chan struct{}),
	}
}

// Shutdown ends every open WatchCurrentDay stream so a graceful stop of the
// gRPC server can complete. Later streams end right after their first day.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
}

// GetTimezone returns the stored timezone preference; empty when unset.
func (s *Server) GetTimezone(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	preference := s.service.GetTimezone(ctx)

	return wrapperspb.String(preference.Timezone.String()), nil
}

// SetTimezone stores a new timezone preference. An empty value clears it.
func (s *Server) SetTimezone(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	preference, err := s.service.SetTimezone(ctx, actorFromMetadata(ctx), calendar.Timezone(req.GetValue()))
	switch {
	case err == nil:
		return wrapperspb.String(preference.Timezone.String()), nil
	case errors.Is(err, calendar.ErrInvalidTimezone):
		return nil, status.Errorf(codes.InvalidArgument, "unknown timezone %q", req.GetValue())
	default:
		return nil, status.Error(codes.Internal, "unable to persist timezone preference")
	}
}

// GetCurrentDay returns today in the active timezone as YYYY-MM-DD.
func (s *Server) GetCurrentDay(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(s.service.CurrentDay(ctx).String()), nil
}

// WatchCurrentDay sends the current day immediately and again on every change
// until the client goes away or the server shuts down. Each stream owns its
// own feed.
func (s *Server) WatchCurrentDay(_ *emptypb.Empty, stream grpc.ServerStreamingServer[wrapperspb.StringValue]) error {
	ctx := stream.Context()

	feed := s.service.WatchCurrentDay(ctx)
	defer feed.Close()

	// Only the latest day matters; a slow client skips intermediate values.
	days := make(chan calendar.Day, 1)

	unsubscribe := feed.Subscribe(func(day calendar.Day) {
		for {
			select {
			case days <- day:
				return
			default:
			}

			select {
			case <-days:
			default:
			}
		}
	})
	defer unsubscribe()

	last := feed.Get()
	if err := stream.Send(wrapperspb.String(last.String())); err != nil {
		return err //nolint:wrapcheck // Stream errors already carry a status.
	}

	for {
		select {
		case <-ctx.Done():
			logger.Debug(ctx, "Current day stream closed")

			return nil
		case <-s.shutdown:
			logger.Debug(ctx, "Current day stream ended by shutdown")

			return nil
		case day := <-days:
			if day == last {
				continue
			}

			last = day

			if err := stream.Send(wrapperspb.String(day.String())); err != nil {
				return err //nolint:wrapcheck // Stream errors already carry a status.
			}
		}
	}
}

// ResolveCardImage walks the fallback chain of a card image.
func (s *Server) ResolveCardImage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	result, err := s.service.ResolveCardImage(ctx, fields["asset_id"].GetStringValue(), fields["variant_id"].GetStringValue())
	if err != nil {
		return nil, statusFromError(err)
	}

	return toImageStruct(result), nil
}

// GetBenefitPeriod returns the current period of a benefit.
func (s *Server) GetBenefitPeriod(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	frequency := period.Frequency(fields["frequency"].GetStringValue())
	if frequency == "" {
		return nil, status.Error(codes.InvalidArgument, "frequency is required")
	}

	var openDate calendar.Day

	if raw := fields["open_date"].GetStringValue(); raw != "" {
		parsed, err := calendar.ParseDay(raw)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid open_date %q", raw)
		}

		openDate = parsed
	}

	reset := period.ResetType(fields["reset_type"].GetStringValue())

	return toPeriodStruct(s.service.BenefitPeriod(ctx, frequency, reset, openDate)), nil
}

// GetFiveTwentyFour returns the 5/24 status of the given open dates.
func (s *Server) GetFiveTwentyFour(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	values := req.GetFields()["open_dates"].GetListValue().GetValues()
	openDates := make([]calendar.Day, 0, len(values))

	for _, value := range values {
		parsed, err := calendar.ParseDay(value.GetStringValue())
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid open date %q", value.GetStringValue())
		}

		openDates = append(openDates, parsed)
	}

	return toFiveTwentyFourStruct(s.service.FiveTwentyFour(ctx, openDates)), nil
}

// actorFromMetadata reads the caller identity; nil when none was sent.
func actorFromMetadata(ctx context.Context) *domain.Actor {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil
	}

	actor := &domain.Actor{
		Hostname: first(md.Get(MetadataActorHostname)),
		Username: first(md.Get(MetadataActorUsername)),
	}

	if actor.Hostname == "" && actor.Username == "" {
		return nil
	}

	return actor
}

// first returns the first value or an empty string.
func first(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}

// statusFromError maps context errors to their codes and anything else to Internal.
func statusFromError(err error) error {
	if st := status.FromContextError(err); st.Code() != codes.Unknown {
		return st.Err()
	}

	return status.Error(codes.Internal, err.Error())
}

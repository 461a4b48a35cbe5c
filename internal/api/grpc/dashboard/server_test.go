package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
	"github.com/cardfolio/dashboard-sync/internal/domain/period"
	domain "github.com/cardfolio/dashboard-sync/internal/domain/preference"
	"github.com/cardfolio/dashboard-sync/internal/reactive"
	"github.com/cardfolio/dashboard-sync/internal/service/cardimage"
)

// fakeFeed is a DayFeed backed by a reactive value.
type fakeFeed struct {
	*reactive.Value[calendar.Day]

	// closed is set by Close.
	closed atomic.Bool
}

// Close marks the feed closed.
func (f *fakeFeed) Close() { f.closed.Store(true) }

// fakeService implements Service for transport tests.
type fakeService struct {
	// mu guards preference and lastActor.
	mu sync.Mutex
	// preference is the stored preference.
	preference *domain.Preference
	// lastActor is the actor of the last SetTimezone.
	lastActor *domain.Actor
	// saveErr is returned by SetTimezone when set.
	saveErr error
	// today is returned by CurrentDay.
	today calendar.Day
	// feeds receives every feed handed to a stream.
	feeds chan *fakeFeed
	// image is returned by ResolveCardImage.
	image cardimage.Result
	// imageErr is returned by ResolveCardImage when set.
	imageErr error
}

// GetTimezone returns the stored preference.
func (f *fakeService) GetTimezone(context.Context) *domain.Preference {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.preference.Clone()
}

// SetTimezone validates like the real service and stores the zone.
func (f *fakeService) SetTimezone(_ context.Context, actor *domain.Actor, tz calendar.Timezone) (*domain.Preference, error) {
	if err := tz.Validate(); err != nil {
		return nil, fmt.Errorf("validate timezone: %w", err)
	}

	if f.saveErr != nil {
		return nil, f.saveErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastActor = actor
	f.preference = &domain.Preference{Timezone: tz, UpdatedBy: actor}

	return f.preference.Clone(), nil
}

// CurrentDay returns the configured day.
func (f *fakeService) CurrentDay(context.Context) calendar.Day { return f.today }

// WatchCurrentDay hands out a new feed starting at today.
func (f *fakeService) WatchCurrentDay(context.Context) DayFeed {
	feed := &fakeFeed{Value: reactive.NewValue(f.today)}
	f.feeds <- feed

	return feed
}

// ResolveCardImage returns the configured result.
func (f *fakeService) ResolveCardImage(context.Context, string, string) (cardimage.Result, error) {
	return f.image, f.imageErr
}

// BenefitPeriod delegates to the period package with a fixed today.
func (f *fakeService) BenefitPeriod(
	_ context.Context,
	frequency period.Frequency,
	reset period.ResetType,
	openDate calendar.Day,
) period.Summary {
	return period.Summarize(frequency, reset, openDate, f.today)
}

// FiveTwentyFour delegates to the period package with a fixed today.
func (f *fakeService) FiveTwentyFour(_ context.Context, openDates []calendar.Day) period.FiveTwentyFourStatus {
	return period.FiveTwentyFour(openDates, f.today)
}

// startServer serves svc over an in-memory listener and returns a client.
func startServer(t *testing.T, svc Service) DashboardSyncClient {
	t.Helper()

	return serve(t, NewServer(svc))
}

// serve registers server on an in-memory listener and returns a client.
func serve(t *testing.T, server *Server) DashboardSyncClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	grpcServer := grpc.NewServer()
	RegisterDashboardSyncServer(grpcServer, server)

	go func() { _ = grpcServer.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		grpcServer.Stop()
	})

	return NewDashboardSyncClient(conn)
}

// newFakeService returns a fake whose today is 2024-06-15.
func newFakeService() *fakeService {
	return &fakeService{
		preference: &domain.Preference{},
		today:      calendar.MustParseDay("2024-06-15"),
		feeds:      make(chan *fakeFeed, 4),
	}
}

// TestServer_Timezone covers get, set with actor metadata, clear and invalid zones.
func TestServer_Timezone(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	client := startServer(t, svc)

	got, err := client.GetTimezone(t.Context(), new(emptypb.Empty))
	require.NoError(t, err)
	require.Empty(t, got.GetValue())

	ctx := metadata.AppendToOutgoingContext(t.Context(),
		MetadataActorHostname, "desk-1",
		MetadataActorUsername, "alice",
	)

	got, err = client.SetTimezone(ctx, wrapperspb.String("Asia/Tokyo"))
	require.NoError(t, err)
	require.Equal(t, "Asia/Tokyo", got.GetValue())
	require.Equal(t, &domain.Actor{Hostname: "desk-1", Username: "alice"}, svc.lastActor)

	got, err = client.GetTimezone(t.Context(), new(emptypb.Empty))
	require.NoError(t, err)
	require.Equal(t, "Asia/Tokyo", got.GetValue())

	_, err = client.SetTimezone(t.Context(), wrapperspb.String("Mars/Olympus"))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	got, err = client.SetTimezone(t.Context(), wrapperspb.String(""))
	require.NoError(t, err)
	require.Empty(t, got.GetValue())
	require.Nil(t, svc.lastActor)
}

// TestServer_SetTimezone_PersistFailure maps storage errors to Internal.
func TestServer_SetTimezone_PersistFailure(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	svc.saveErr = errors.New("disk full")
	client := startServer(t, svc)

	_, err := client.SetTimezone(t.Context(), wrapperspb.String("UTC"))
	require.Equal(t, codes.Internal, status.Code(err))
}

// TestServer_GetCurrentDay returns the formatted day.
func TestServer_GetCurrentDay(t *testing.T) {
	t.Parallel()

	client := startServer(t, newFakeService())

	got, err := client.GetCurrentDay(t.Context(), new(emptypb.Empty))
	require.NoError(t, err)
	require.Equal(t, "2024-06-15", got.GetValue())
}

// TestServer_WatchCurrentDay streams the initial day and each change, and
// closes the feed when the client goes away.
func TestServer_WatchCurrentDay(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	client := startServer(t, svc)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	stream, err := client.WatchCurrentDay(ctx, new(emptypb.Empty))
	require.NoError(t, err)

	first, err := stream.Recv()
	require.NoError(t, err)
	require.Equal(t, "2024-06-15", first.GetValue())

	feed := <-svc.feeds
	feed.Set(calendar.MustParseDay("2024-06-16"))

	next, err := stream.Recv()
	require.NoError(t, err)
	require.Equal(t, "2024-06-16", next.GetValue())

	cancel()

	require.Eventually(t, feed.closed.Load, testWait, testTick)
	require.Zero(t, feed.Subscribers())
}

// TestServer_ShutdownEndsWatchStreams ends an open stream cleanly and releases its feed.
func TestServer_ShutdownEndsWatchStreams(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	server := NewServer(svc)
	client := serve(t, server)

	stream, err := client.WatchCurrentDay(t.Context(), new(emptypb.Empty))
	require.NoError(t, err)

	_, err = stream.Recv()
	require.NoError(t, err)

	feed := <-svc.feeds

	server.Shutdown()
	server.Shutdown()

	_, err = stream.Recv()
	require.ErrorIs(t, err, io.EOF)
	require.Eventually(t, feed.closed.Load, testWait, testTick)
	require.Zero(t, feed.Subscribers())
}

// TestServer_ResolveCardImage converts the result and maps errors.
func TestServer_ResolveCardImage(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	svc.image = cardimage.Result{URL: "https://cdn/placeholder", Placeholder: true, Attempts: 2}
	client := startServer(t, svc)

	request, err := structpb.NewStruct(map[string]any{"asset_id": "A", "variant_id": "V"})
	require.NoError(t, err)

	got, err := client.ResolveCardImage(t.Context(), request)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"url":         "https://cdn/placeholder",
		"placeholder": true,
		"exhausted":   false,
		"attempts":    float64(2),
	}, got.AsMap())

	svc.imageErr = context.DeadlineExceeded

	_, err = client.ResolveCardImage(t.Context(), request)
	require.Equal(t, codes.DeadlineExceeded, status.Code(err))
}

// TestServer_GetBenefitPeriod validates input and returns the summary.
func TestServer_GetBenefitPeriod(t *testing.T) {
	t.Parallel()

	client := startServer(t, newFakeService())

	request, err := structpb.NewStruct(map[string]any{
		"frequency":  "quarterly",
		"reset_type": "calendar",
	})
	require.NoError(t, err)

	got, err := client.GetBenefitPeriod(t.Context(), request)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"period_start":     "2024-04-01",
		"period_end":       "2024-06-30",
		"days_until_reset": float64(16),
		"reset_label":      "Resets Jul 1",
	}, got.AsMap())

	request.Fields["open_date"] = structpb.NewStringValue("not-a-date")

	_, err = client.GetBenefitPeriod(t.Context(), request)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetBenefitPeriod(t.Context(), &structpb.Struct{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// TestServer_GetFiveTwentyFour returns the count, status and drop-off dates.
func TestServer_GetFiveTwentyFour(t *testing.T) {
	t.Parallel()

	client := startServer(t, newFakeService())

	request, err := structpb.NewStruct(map[string]any{
		"open_dates": []any{"2024-01-01", "2020-01-01"},
	})
	require.NoError(t, err)

	got, err := client.GetFiveTwentyFour(t.Context(), request)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"count":  float64(1),
		"status": "green",
		"dropoff_dates": []any{
			map[string]any{"open_date": "2024-01-01", "dropoff_date": "2026-01-01"},
		},
	}, got.AsMap())

	request.Fields["open_dates"] = structpb.NewListValue(&structpb.ListValue{
		Values: []*structpb.Value{structpb.NewStringValue("01/02/2024")},
	})

	_, err = client.GetFiveTwentyFour(t.Context(), request)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/cardfolio/dashboard-sync/internal/api/grpc/dashboard"
	"github.com/cardfolio/dashboard-sync/internal/config"
	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
	"github.com/cardfolio/dashboard-sync/internal/domain/period"
	domain "github.com/cardfolio/dashboard-sync/internal/domain/preference"
	"github.com/cardfolio/dashboard-sync/internal/service/cardimage"
)

// Client wraps the DashboardSync gRPC client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the server.
	conn *grpc.ClientConn
	// api is the DashboardSync client stub.
	api api.DashboardSyncClient

	// callTimeout is the default timeout for unary calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for unary calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the dashboard sync server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial dashboard sync server: %w", err)
	}

	client := NewClient(api.NewDashboardSyncClient(conn), opts...)
	client.conn = conn

	return client, nil
}

// NewClient wraps an existing stub, for example one over an in-memory connection.
func NewClient(stub api.DashboardSyncClient, opts ...Option) *Client {
	client := &Client{
		api:         stub,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetTimezone returns the stored timezone preference; empty when unset.
func (c *Client) GetTimezone(ctx context.Context) (calendar.Timezone, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetTimezone(callCtx, new(emptypb.Empty))
	if err != nil {
		return "", fmt.Errorf("get timezone: %w", err)
	}

	return calendar.Timezone(response.GetValue()), nil
}

// SetTimezone stores a new timezone preference on behalf of actor. An empty
// zone clears the preference.
func (c *Client) SetTimezone(ctx context.Context, actor *domain.Actor, tz calendar.Timezone) (calendar.Timezone, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if actor != nil {
		callCtx = metadata.AppendToOutgoingContext(callCtx,
			api.MetadataActorHostname, actor.Hostname,
			api.MetadataActorUsername, actor.Username,
		)
	}

	response, err := c.api.SetTimezone(callCtx, wrapperspb.String(tz.String()))
	if err != nil {
		return "", fmt.Errorf("set timezone: %w", err)
	}

	return calendar.Timezone(response.GetValue()), nil
}

// GetCurrentDay returns today in the server's active timezone.
func (c *Client) GetCurrentDay(ctx context.Context) (calendar.Day, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetCurrentDay(callCtx, new(emptypb.Empty))
	if err != nil {
		return calendar.Day{}, fmt.Errorf("get current day: %w", err)
	}

	day, err := calendar.ParseDay(response.GetValue())
	if err != nil {
		return calendar.Day{}, fmt.Errorf("parse current day: %w", err)
	}

	return day, nil
}

// WatchCurrentDay calls fn with the current day and again on every change.
// It blocks until ctx is canceled or the stream fails; the call timeout does
// not apply.
func (c *Client) WatchCurrentDay(ctx context.Context, fn func(calendar.Day)) error {
	stream, err := c.api.WatchCurrentDay(ctx, new(emptypb.Empty))
	if err != nil {
		return fmt.Errorf("watch current day: %w", err)
	}

	for {
		response, err := stream.Recv()
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), ctx.Err() != nil:
			return nil
		default:
			return fmt.Errorf("receive current day: %w", err)
		}

		day, err := calendar.ParseDay(response.GetValue())
		if err != nil {
			return fmt.Errorf("parse current day: %w", err)
		}

		fn(day)
	}
}

// ResolveCardImage asks the server for the first loadable candidate of an image.
func (c *Client) ResolveCardImage(ctx context.Context, assetID, variantID string) (cardimage.Result, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := &structpb.Struct{Fields: map[string]*structpb.Value{
		"asset_id":   structpb.NewStringValue(assetID),
		"variant_id": structpb.NewStringValue(variantID),
	}}

	response, err := c.api.ResolveCardImage(callCtx, request)
	if err != nil {
		return cardimage.Result{}, fmt.Errorf("resolve card image: %w", err)
	}

	fields := response.GetFields()

	return cardimage.Result{
		URL:         fields["url"].GetStringValue(),
		Placeholder: fields["placeholder"].GetBoolValue(),
		Exhausted:   fields["exhausted"].GetBoolValue(),
		Attempts:    int(fields["attempts"].GetNumberValue()),
	}, nil
}

// GetBenefitPeriod returns the current period of a benefit. openDate may be
// empty for calendar resets.
func (c *Client) GetBenefitPeriod(
	ctx context.Context,
	frequency period.Frequency,
	reset period.ResetType,
	openDate string,
) (period.Summary, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := &structpb.Struct{Fields: map[string]*structpb.Value{
		"frequency":  structpb.NewStringValue(string(frequency)),
		"reset_type": structpb.NewStringValue(string(reset)),
		"open_date":  structpb.NewStringValue(openDate),
	}}

	response, err := c.api.GetBenefitPeriod(callCtx, request)
	if err != nil {
		return period.Summary{}, fmt.Errorf("get benefit period: %w", err)
	}

	fields := response.GetFields()

	start, err := calendar.ParseDay(fields["period_start"].GetStringValue())
	if err != nil {
		return period.Summary{}, fmt.Errorf("parse period start: %w", err)
	}

	end, err := calendar.ParseDay(fields["period_end"].GetStringValue())
	if err != nil {
		return period.Summary{}, fmt.Errorf("parse period end: %w", err)
	}

	return period.Summary{
		Period:         period.Period{Start: start, End: end},
		DaysUntilReset: int(fields["days_until_reset"].GetNumberValue()),
		ResetLabel:     fields["reset_label"].GetStringValue(),
	}, nil
}

// GetFiveTwentyFour returns the 5/24 status of the given open dates.
func (c *Client) GetFiveTwentyFour(ctx context.Context, openDates []string) (period.FiveTwentyFourStatus, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	values := make([]*structpb.Value, 0, len(openDates))
	for _, openDate := range openDates {
		values = append(values, structpb.NewStringValue(openDate))
	}

	request := &structpb.Struct{Fields: map[string]*structpb.Value{
		"open_dates": structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}

	response, err := c.api.GetFiveTwentyFour(callCtx, request)
	if err != nil {
		return period.FiveTwentyFourStatus{}, fmt.Errorf("get 5/24 status: %w", err)
	}

	fields := response.GetFields()
	entries := fields["dropoff_dates"].GetListValue().GetValues()

	result := period.FiveTwentyFourStatus{
		Count:    int(fields["count"].GetNumberValue()),
		Status:   fields["status"].GetStringValue(),
		DropOffs: make([]period.DropOff, 0, len(entries)),
	}

	for _, entry := range entries {
		entryFields := entry.GetStructValue().GetFields()

		opened, err := calendar.ParseDay(entryFields["open_date"].GetStringValue())
		if err != nil {
			return period.FiveTwentyFourStatus{}, fmt.Errorf("parse open date: %w", err)
		}

		dropOff, err := calendar.ParseDay(entryFields["dropoff_date"].GetStringValue())
		if err != nil {
			return period.FiveTwentyFourStatus{}, fmt.Errorf("parse drop-off date: %w", err)
		}

		result.DropOffs = append(result.DropOffs, period.DropOff{Opened: opened, DropOff: dropOff})
	}

	return result, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

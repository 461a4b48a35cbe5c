package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cardfolio/dashboard-sync/internal/config"
	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
	"github.com/cardfolio/dashboard-sync/internal/domain/period"
	"github.com/cardfolio/dashboard-sync/internal/logger"
	"github.com/cardfolio/dashboard-sync/internal/service/common"
)

// Options configures a client session.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides server address from config when specified.
	ServerAddress string

	// Output receives command results; defaults to stdout.
	Output io.Writer
}

// Session is a connected CLI client.
type Session struct {
	// client talks to the server.
	client *common.Client
	// out receives command results.
	out io.Writer
}

// Open loads settings and connects to the server.
func Open(ctx context.Context, opts *Options) (*Session, error) {
	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return nil, err //nolint:wrapcheck // Dial errors are already descriptive.
	}

	logger.DebugKV(ctx, "Connected to dashboard sync server", "server_address", serverAddress)

	return NewSession(client, opts.Output), nil
}

// NewSession wraps an existing client. A nil out writes to stdout.
func NewSession(client *common.Client, out io.Writer) *Session {
	if out == nil {
		out = os.Stdout
	}

	return &Session{client: client, out: out}
}

// Close releases the connection.
func (s *Session) Close() error {
	return s.client.Close()
}

// ShowTimezone prints the stored timezone preference.
func (s *Session) ShowTimezone(ctx context.Context) error {
	tz, err := s.client.GetTimezone(ctx)
	if err != nil {
		return err //nolint:wrapcheck // Client errors are already wrapped.
	}

	return s.printf("%s\n", describeTimezone(tz))
}

// SetTimezone changes the timezone preference on behalf of the local actor.
// An empty zone clears it.
func (s *Session) SetTimezone(ctx context.Context, tz calendar.Timezone) error {
	// Identify current user and hostname for the audit trail.
	actor, err := common.DetectActor()
	if err != nil {
		return err //nolint:wrapcheck // Detection errors are already descriptive.
	}

	stored, err := s.client.SetTimezone(ctx, actor, tz)
	if err != nil {
		return err //nolint:wrapcheck // Client errors are already wrapped.
	}

	logger.InfoKV(ctx, "Timezone preference updated", "timezone", stored.String(), "actor", actor.String())

	return s.printf("%s\n", describeTimezone(stored))
}

// ShowToday prints the current day.
func (s *Session) ShowToday(ctx context.Context) error {
	day, err := s.client.GetCurrentDay(ctx)
	if err != nil {
		return err //nolint:wrapcheck // Client errors are already wrapped.
	}

	return s.printf("%s\n", day)
}

// Watch prints the current day and every change until ctx is canceled.
func (s *Session) Watch(ctx context.Context) error {
	var printErr error

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	err := s.client.WatchCurrentDay(ctx, func(day calendar.Day) {
		if printErr = s.printf("%s\n", day); printErr != nil {
			cancel()
		}
	})
	if printErr != nil {
		return printErr
	}

	return err //nolint:wrapcheck // Client errors are already wrapped.
}

// ResolveImage prints the URL to render for a card image, or a note when
// nothing should be rendered.
func (s *Session) ResolveImage(ctx context.Context, assetID, variantID string) error {
	result, err := s.client.ResolveCardImage(ctx, assetID, variantID)
	if err != nil {
		return err //nolint:wrapcheck // Client errors are already wrapped.
	}

	switch {
	case result.Exhausted:
		return s.printf("no image (%d attempts)\n", result.Attempts)
	case result.Placeholder:
		return s.printf("%s (placeholder)\n", result.URL)
	default:
		return s.printf("%s\n", result.URL)
	}
}

// ShowPeriod prints the current period of a benefit.
func (s *Session) ShowPeriod(
	ctx context.Context,
	frequency period.Frequency,
	reset period.ResetType,
	openDate string,
) error {
	summary, err := s.client.GetBenefitPeriod(ctx, frequency, reset, openDate)
	if err != nil {
		return err //nolint:wrapcheck // Client errors are already wrapped.
	}

	return s.printf("%s, %d days left, %s\n", summary.Period, summary.DaysUntilReset, summary.ResetLabel)
}

// ShowFiveTwentyFour prints the 5/24 count, status and drop-off dates.
func (s *Session) ShowFiveTwentyFour(ctx context.Context, openDates []string) error {
	status, err := s.client.GetFiveTwentyFour(ctx, openDates)
	if err != nil {
		return err //nolint:wrapcheck // Client errors are already wrapped.
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%d/24 (%s)\n", status.Count, status.Status)

	for _, dropOff := range status.DropOffs {
		fmt.Fprintf(&b, "  opened %s, drops off %s\n", dropOff.Opened, dropOff.DropOff)
	}

	return s.printf("%s", b.String())
}

// printf writes to the session output.
func (s *Session) printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(s.out, format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// describeTimezone renders a preference for humans.
func describeTimezone(tz calendar.Timezone) string {
	if !tz.IsSet() {
		return "<not set, using server default>"
	}

	return tz.String()
}

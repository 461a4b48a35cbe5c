package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	api "github.com/cardfolio/dashboard-sync/internal/api/grpc/dashboard"
	"github.com/cardfolio/dashboard-sync/internal/assets"
	"github.com/cardfolio/dashboard-sync/internal/config"
	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
	"github.com/cardfolio/dashboard-sync/internal/domain/fallback"
	"github.com/cardfolio/dashboard-sync/internal/logger"
	repository "github.com/cardfolio/dashboard-sync/internal/repository/preference"
	"github.com/cardfolio/dashboard-sync/internal/service/cardimage"
	"github.com/cardfolio/dashboard-sync/internal/service/timezone"
	"github.com/cardfolio/dashboard-sync/internal/service/today"
	"github.com/cardfolio/dashboard-sync/internal/version"
)

// Options controls the dashboard-sync-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// StateFile specifies the path to persist the timezone preference JSON.
	StateFile string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server and the preference watcher and blocks until the
// context is canceled or either of them fails.
//
//nolint:funlen // Linear start-up sequence.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "dashboard-sync-server")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	} else {
		logger.WarnKV(ctx, "Unknown log level, keeping default", "log_level", settings.LogLevel)
	}

	// Use StateFile from config unless overridden by command line option.
	stateFile := settings.StateFile
	if opts.StateFile != "" {
		stateFile = opts.StateFile
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	// Initialize the preference repository and the timezone source on top of it.
	repo := repository.NewFileRepository(stateFile)

	source, err := timezone.NewSource(ctx, repo)
	if err != nil {
		return fmt.Errorf("initialise timezone source: %w", err)
	}

	resolver, err := newResolver(ctx, &settings.Assets)
	if err != nil {
		return fmt.Errorf("initialise asset resolver: %w", err)
	}

	loader := cardimage.NewHTTPLoader(&http.Client{Timeout: settings.Assets.ProbeTimeout}, settings.Assets.ProbeTimeout)

	svc := newService(ctx, source, cardimage.NewService(resolver, loader),
		today.WithFallback(fallbackLocation(ctx, settings.DefaultTimezone)),
		today.WithGuard(settings.MidnightGuard),
	)
	defer svc.Close()

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	// Create and configure gRPC server with the dashboard and health services.
	grpcServer := grpc.NewServer()
	apiServer := api.NewServer(svc)
	api.RegisterDashboardSyncServer(grpcServer, apiServer)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)

	logger.InfoKV(ctx, "Dashboard sync server listening", append([]any{
		"listen_address", listenAddress,
		"state_file", stateFile,
		"timezone", source.Current().Timezone.String(),
	}, version.KV()...)...)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return timezone.NewWatcher(source, repo.Path()).Run(groupCtx)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		healthServer.Shutdown()
		apiServer.Shutdown()
		stopServer(ctx, grpcServer, settings.Timeout)

		return nil
	})

	group.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return err //nolint:wrapcheck // Errors are wrapped by each member.
	}

	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// stopServer stops grpcServer gracefully and forces the stop when pending
// calls outlive timeout.
func stopServer(ctx context.Context, grpcServer *grpc.Server, timeout time.Duration) {
	stopped := make(chan struct{})

	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(timeout):
		logger.WarnKV(ctx, "Graceful stop timed out, closing connections", "timeout", timeout)
		grpcServer.Stop()
		<-stopped
	}
}

// newResolver picks presigned S3 URLs when a bucket is configured and the
// template image API otherwise.
func newResolver(ctx context.Context, settings *config.Assets) (fallback.Resolver, error) {
	if !settings.S3.Enabled() {
		return assets.NewURLResolver(settings.BaseURL, settings.PlaceholderURL), nil
	}

	resolver, err := assets.NewS3Resolver(ctx, settings.S3)
	if err != nil {
		return nil, fmt.Errorf("create s3 resolver: %w", err)
	}

	logger.InfoKV(ctx, "Resolving card images from S3", "bucket", settings.S3.Bucket, "prefix", settings.S3.Prefix)

	return resolver, nil
}

// fallbackLocation returns the configured default zone or the process local one.
func fallbackLocation(ctx context.Context, tz calendar.Timezone) *time.Location {
	loc, err := calendar.Resolve(tz, time.Local)
	if err != nil {
		logger.WarnKV(ctx, "Default timezone unavailable, using local zone", "timezone", tz.String(), "error", err)
	}

	return loc
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Bind on all interfaces.
	return ":" + port, nil
}

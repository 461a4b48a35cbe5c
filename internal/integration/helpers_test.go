package integration

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	api "github.com/cardfolio/dashboard-sync/internal/api/grpc/dashboard"
	"github.com/cardfolio/dashboard-sync/internal/config"
	"github.com/cardfolio/dashboard-sync/internal/service/server"
)

const (
	// waitFor bounds asynchronous assertions.
	waitFor = 5 * time.Second
	// tick is the polling interval of asynchronous assertions.
	tick = 20 * time.Millisecond
	// serverTimeout is the network timeout of test servers. It also bounds
	// a forced stop after a stuck graceful one.
	serverTimeout = 3 * time.Second
)

// reservePort returns a free loopback address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// startImages serves a placeholder image and 404 for everything else.
func startImages(t *testing.T) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/templates/placeholder-image", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv.URL
}

// startServer runs the real server with a temporary config and the given
// state file, waits until it reports SERVING and stops it on cleanup.
func startServer(t *testing.T, statePath string) string {
	t.Helper()

	addr, stop := runServer(t, statePath)

	t.Cleanup(func() { require.NoError(t, stop()) })

	return addr
}

// runServer is startServer with the stop left to the caller. stop cancels
// the server, waits for Run to return and may be called more than once.
func runServer(t *testing.T, statePath string) (string, func() error) {
	t.Helper()

	addr := reservePort(t)
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	require.NoError(t, config.Save(cfgPath, &config.Config{
		ServerAddress:   addr,
		Timeout:         serverTimeout,
		DefaultTimezone: "UTC",
		Assets: config.Assets{
			BaseURL:      startImages(t),
			ProbeTimeout: time.Second,
		},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- server.Run(ctx, &server.Options{
			ConfigPath: cfgPath,
			StateFile:  statePath,
		})
	}()

	stop := sync.OnceValue(func() error {
		cancel()

		return <-done
	})

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	defer func() { _ = conn.Close() }()

	health := healthpb.NewHealthClient(conn)

	require.Eventually(t, func() bool {
		response, err := health.Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})

		return err == nil && response.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, waitFor, tick)

	return addr, stop
}

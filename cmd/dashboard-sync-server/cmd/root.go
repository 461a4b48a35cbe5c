package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cardfolio/dashboard-sync/internal/config"
	"github.com/cardfolio/dashboard-sync/internal/service/server"
	"github.com/cardfolio/dashboard-sync/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// stateFile path where the timezone preference is persisted.
	stateFile string

	// rootCmd represents the base command for running the gRPC server.
	rootCmd = &cobra.Command{
		Use:   "dashboard-sync-server [listen-address]",
		Short: "Run the dashboard sync gRPC server.",
		Long: `Starts the gRPC server that owns the dashboard timezone preference.

Clients read and change the preference, read or stream the current day in the
active timezone, resolve card images through their fallback chain and compute
benefit periods and the 5/24 status.

Only the port from server_addr is used for listening (e.g., :8080). A listen
address argument overrides it (e.g., :9090, 0.0.0.0:8080). The preference is
persisted to a JSON file and reloaded when that file changes on disk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				StateFile:     stateFile,
			})
		},
	}
)

// Execute runs the dashboard-sync-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&stateFile, "state-file", "s", "", "path to persist the timezone preference (overrides state_file)")
}

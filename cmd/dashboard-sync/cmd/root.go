package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cardfolio/dashboard-sync/internal/config"
	"github.com/cardfolio/dashboard-sync/internal/service/client"
	"github.com/cardfolio/dashboard-sync/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// serverAddress overrides server_addr from the configuration.
	serverAddress string

	// rootCmd represents the base command of the client.
	rootCmd = &cobra.Command{
		Use:   "dashboard-sync",
		Short: "Talk to a dashboard-sync-server.",
		Long: `Reads and changes the dashboard timezone preference, prints or follows the
current day in the active timezone, resolves card images and computes benefit
periods and the 5/24 status.`,
		SilenceUsage: true,
	}
)

// Execute runs the dashboard-sync CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runSession opens a session for the duration of fn, canceling on SIGINT/SIGTERM.
func runSession(cmd *cobra.Command, fn func(ctx context.Context, session *client.Session) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	session, err := client.Open(ctx, &client.Options{
		ConfigPath:    configPath,
		ServerAddress: serverAddress,
		Output:        cmd.OutOrStdout(),
	})
	if err != nil {
		return err //nolint:wrapcheck // Open errors are already wrapped.
	}

	defer func() {
		_ = session.Close()
	}()

	return fn(ctx, session)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "server", "a", "", "server address (overrides server_addr)")

	rootCmd.AddCommand(
		newTimezoneCommand(),
		newTodayCommand(),
		newWatchCommand(),
		newImageCommand(),
		newPeriodCommand(),
		newFiveTwentyFourCommand(),
	)
}

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
	"github.com/cardfolio/dashboard-sync/internal/domain/period"
	"github.com/cardfolio/dashboard-sync/internal/service/client"
)

// newTimezoneCommand builds `timezone get|set`.
func newTimezoneCommand() *cobra.Command {
	timezoneCmd := &cobra.Command{
		Use:   "timezone",
		Short: "Read or change the timezone preference.",
	}

	timezoneCmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the stored timezone preference.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runSession(cmd, func(ctx context.Context, session *client.Session) error {
					return session.ShowTimezone(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "set <zone>",
			Short: `Set the IANA timezone, or "" to clear it.`,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSession(cmd, func(ctx context.Context, session *client.Session) error {
					return session.SetTimezone(ctx, calendar.Timezone(args[0]))
				})
			},
		},
	)

	return timezoneCmd
}

// newTodayCommand builds `today`.
func newTodayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print the current day in the active timezone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, func(ctx context.Context, session *client.Session) error {
				return session.ShowToday(ctx)
			})
		},
	}
}

// newWatchCommand builds `watch`.
func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the current day and every change until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, func(ctx context.Context, session *client.Session) error {
				return session.Watch(ctx)
			})
		},
	}
}

// newImageCommand builds `image <asset> [variant]`.
func newImageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "image <asset> [variant]",
		Short: "Resolve the image to render for a card.",
		Args:  cobra.RangeArgs(1, 2), //nolint:mnd // Asset and optional variant.
		RunE: func(cmd *cobra.Command, args []string) error {
			var variantID string
			if len(args) > 1 {
				variantID = args[1]
			}

			return runSession(cmd, func(ctx context.Context, session *client.Session) error {
				return session.ResolveImage(ctx, args[0], variantID)
			})
		},
	}
}

// newPeriodCommand builds `period <frequency> [--reset cardiversary --open YYYY-MM-DD]`.
func newPeriodCommand() *cobra.Command {
	var (
		reset    string
		openDate string
	)

	periodCmd := &cobra.Command{
		Use:   "period <monthly|quarterly|semi_annual|annual>",
		Short: "Print the current benefit period.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, func(ctx context.Context, session *client.Session) error {
				return session.ShowPeriod(ctx, period.Frequency(args[0]), period.ResetType(reset), openDate)
			})
		},
	}

	periodCmd.Flags().StringVarP(&reset, "reset", "r", string(period.Calendar), "reset type: calendar or cardiversary")
	periodCmd.Flags().StringVarP(&openDate, "open", "o", "", "card open date (YYYY-MM-DD) for cardiversary resets")

	return periodCmd
}

// newFiveTwentyFourCommand builds `five-twenty-four <open-date>...`.
func newFiveTwentyFourCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "five-twenty-four <open-date>...",
		Aliases: []string{"524"},
		Short:   "Print the 5/24 status of personal cards opened on the given dates.",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, func(ctx context.Context, session *client.Session) error {
				return session.ShowFiveTwentyFour(ctx, args)
			})
		},
	}
}

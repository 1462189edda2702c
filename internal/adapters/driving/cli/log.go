package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tempo-labs/tempo-cli/internal/core/ports/driving"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show activity logs",
	Long: `Show activity logs.

By default only shows activities in the past 7 days.`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func init() {
	logCmd.Flags().String("since", "", "show activities more recent than a specific date")
	logCmd.Flags().String("until", "", "show activities older than a specific date")
	logCmd.Flags().StringP("project", "p", "", "only show activities for a project")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	var in driving.LogInput

	if cmd.Flags().Changed("since") {
		v, _ := cmd.Flags().GetString("since")
		since, err := parseUserDatetime(v)
		if err != nil {
			return err
		}
		in.Since = since
	}
	if cmd.Flags().Changed("until") {
		v, _ := cmd.Flags().GetString("until")
		until, err := parseUserDatetime(v)
		if err != nil {
			return err
		}
		in.Until = until
	}
	in.Project, _ = cmd.Flags().GetString("project")

	return withTracker(func(ctx context.Context, svc driving.TrackerService) error {
		activities, err := svc.Log(ctx, in)
		if err != nil {
			return err
		}

		if len(activities) == 0 {
			cmd.Println("no recorded activities")
			return nil
		}

		// Styling is for humans; drop it when piped.
		styled := term.IsTerminal(int(os.Stdout.Fd()))
		renderLog(cmd.OutOrStdout(), activities, styled)
		return nil
	})
}

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tempo-labs/tempo-cli/internal/core/ports/driving"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start tracking an activity",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

func init() {
	startCmd.Flags().StringP("message", "m", "", "set message")
	startCmd.Flags().StringP("project", "p", "", "set project")
	startCmd.Flags().String("at", "", "set alternative start datetime")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, _ []string) error {
	var in driving.StartInput

	if cmd.Flags().Changed("message") {
		v, _ := cmd.Flags().GetString("message")
		in.Message = &v
	}
	if cmd.Flags().Changed("project") {
		v, _ := cmd.Flags().GetString("project")
		in.Project = &v
	}
	if cmd.Flags().Changed("at") {
		v, _ := cmd.Flags().GetString("at")
		at, err := parseUserDatetime(v)
		if err != nil {
			return err
		}
		in.At = &at
	}

	return withTracker(func(ctx context.Context, svc driving.TrackerService) error {
		id, err := svc.Start(ctx, in)
		if err != nil {
			return err
		}
		cmd.Println(id)
		return nil
	})
}

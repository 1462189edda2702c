package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tempo-labs/tempo-cli/internal/core/ports/driving"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop tracking an activity",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().StringP("message", "m", "", "set/update message")
	stopCmd.Flags().StringP("project", "p", "", "set/update project")
	stopCmd.Flags().String("at", "", "set alternative stop datetime")
	stopCmd.Flags().Bool("discard", false, "discard activity")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, _ []string) error {
	discard, _ := cmd.Flags().GetBool("discard")
	if discard {
		return withTracker(func(ctx context.Context, svc driving.TrackerService) error {
			_, err := svc.Discard(ctx)
			return err
		})
	}

	var in driving.StopInput

	// An explicit empty -m or -p clears the stored field; an omitted
	// flag keeps it.
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
		id, err := svc.Stop(ctx, in)
		if err != nil {
			return err
		}
		cmd.Println(id)
		return nil
	})
}

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tempo-labs/tempo-cli/internal/core/ports/driving"
)

var addCmd = &cobra.Command{
	Use:   "add <start> <stop>",
	Short: "Add a parametrized activity",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringP("message", "m", "", "set message")
	addCmd.Flags().StringP("project", "p", "", "set project")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	start, err := parseUserDatetime(args[0])
	if err != nil {
		return err
	}
	stop, err := parseUserDatetime(args[1])
	if err != nil {
		return err
	}

	in := driving.AddInput{Start: start, Stop: stop}
	if cmd.Flags().Changed("message") {
		v, _ := cmd.Flags().GetString("message")
		in.Message = &v
	}
	if cmd.Flags().Changed("project") {
		v, _ := cmd.Flags().GetString("project")
		in.Project = &v
	}

	return withTracker(func(ctx context.Context, svc driving.TrackerService) error {
		id, err := svc.Add(ctx, in)
		if err != nil {
			return err
		}
		cmd.Println(id)
		return nil
	})
}

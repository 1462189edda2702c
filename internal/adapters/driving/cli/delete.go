package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tempo-labs/tempo-cli/internal/core/ports/driving"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id-prefix>",
	Short: "Delete an activity",
	Long: `Delete an activity.

The activity may be referred to by a leading prefix of its identifier,
at least 4 characters long. The prefix must match exactly one activity.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	return withTracker(func(ctx context.Context, svc driving.TrackerService) error {
		id, err := svc.Delete(ctx, args[0])
		if err != nil {
			return err
		}
		cmd.Println(id)
		return nil
	})
}

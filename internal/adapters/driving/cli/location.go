package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tempo-labs/tempo-cli/internal/adapters/driven/config/file"
)

var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Print the database location",
	Args:  cobra.NoArgs,
	RunE:  runLocation,
}

func init() {
	rootCmd.AddCommand(locationCmd)
}

// runLocation resolves the store path without opening the store.
func runLocation(cmd *cobra.Command, _ []string) error {
	cfg, err := file.NewConfigStore(os.Getenv("TEMPO_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cmd.Println(resolveDBPath(cfg))
	return nil
}

// Package cli implements the tempo command-line interface with cobra.
// Each command acquires the store for the duration of one invocation:
// open, operate inside a transaction, commit or roll back, close.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tempo-labs/tempo-cli/internal/adapters/driven/config/file"
	"github.com/tempo-labs/tempo-cli/internal/adapters/driven/storage/sqlite"
	"github.com/tempo-labs/tempo-cli/internal/core/domain"
	"github.com/tempo-labs/tempo-cli/internal/core/ports/driving"
	"github.com/tempo-labs/tempo-cli/internal/core/services"
	"github.com/tempo-labs/tempo-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "tempo",
	Short: "Minimal time tracking CLI app",
	Long: `Minimal time tracking CLI app.

Run with no arguments to get current tracking status.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	RunE: runStatus,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
}

// Execute runs the CLI. Diagnostics go to stderr prefixed with the tool
// name; any failure terminates the process with exit code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tempo: %v\n", err)
		os.Exit(1)
	}
}

// withTracker runs fn against a tracker service over a freshly opened
// store. The store is closed before returning on every path, so a
// failed operation still releases the database.
func withTracker(fn func(ctx context.Context, svc driving.TrackerService) error) error {
	cfg, err := file.NewConfigStore(os.Getenv("TEMPO_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := sqlite.NewStore(resolveDBPath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Debug("store open at %s", store.Path())
	svc := services.NewTrackerService(store, services.LogPolicyFromConfig(cfg))
	return fn(context.Background(), svc)
}

// runStatus reports the running activity, if any.
func runStatus(cmd *cobra.Command, _ []string) error {
	return withTracker(func(ctx context.Context, svc driving.TrackerService) error {
		a, err := svc.Status(ctx)
		if errors.Is(err, domain.ErrNoRunningActivity) {
			cmd.Println("no tracking ongoing")
			return nil
		}
		if err != nil {
			return err
		}

		elapsed := a.Duration(time.Now()).Truncate(time.Second)
		cmd.Printf("tracking %s [%s] for %s\n",
			orBraces(a.Message), orBraces(a.Project), formatDuration(elapsed))
		return nil
	})
}

// orBraces renders an absent field as {} in status and log output.
func orBraces(s string) string {
	if s == "" {
		return "{}"
	}
	return s
}

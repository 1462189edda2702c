package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tempo-labs/tempo-cli/internal/core/ports/driving"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import activities from other tools",
	Long: `Import activities from other tools.

The whole file is imported in one transaction: if any record conflicts,
nothing is imported.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringP("tool", "t", "", "specify tool (toggl)")
	_ = importCmd.MarkFlagRequired("tool")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	tool, _ := cmd.Flags().GetString("tool")
	if tool != "toggl" {
		return fmt.Errorf("unsupported tool %q", tool)
	}

	f, err := os.Open(args[0])
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no such file %q", args[0])
		}
		return err
	}
	defer f.Close()

	records, err := parseTogglCSV(f)
	if err != nil {
		return err
	}

	return withTracker(func(ctx context.Context, svc driving.TrackerService) error {
		ids, err := svc.Import(ctx, records)
		if err != nil {
			return err
		}
		for _, id := range ids {
			cmd.Println(id)
		}
		return nil
	})
}

// parseTogglCSV maps a toggl detailed-report export into import
// records. Only the description, project, and interval columns are
// used; empty cells become absent fields.
func parseTogglCSV(r io.Reader) ([]driving.ImportRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"Description", "Project", "Start date", "Start time", "End date", "End time"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing csv column %q", required)
		}
	}

	var records []driving.ImportRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		start, err := parseTogglTimestamp(row[col["Start date"]], row[col["Start time"]])
		if err != nil {
			return nil, err
		}
		stop, err := parseTogglTimestamp(row[col["End date"]], row[col["End time"]])
		if err != nil {
			return nil, err
		}

		records = append(records, driving.ImportRecord{
			Message: row[col["Description"]],
			Project: row[col["Project"]],
			Start:   start,
			Stop:    stop,
		})
	}
	return records, nil
}

// parseTogglTimestamp combines toggl's separate date and time columns.
func parseTogglTimestamp(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse %q %q as a datetime", date, clock)
	}
	return t, nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"renderhq/janus/pkg/audit"
	"renderhq/janus/pkg/audit/export"
)

var outcomesFlags struct {
	runID  string
	path   string
	action string
	failed bool
	format string
	limit  int
}

var outcomesCmd = &cobra.Command{
	Use:   "outcomes",
	Short: "Query and export audit outcomes",
	Long: `Read back outcome records from the audit log and write them to stdout
as JSON or CSV.

Examples:
  # Everything from one run
  janus outcomes --run-id 2f1c...

  # Failures across all runs, as CSV
  janus outcomes --failed --format csv

  # History of one path
  janus outcomes --path /mnt/projects/show01/old.bak`,
	RunE: runOutcomes,
}

func init() {
	rootCmd.AddCommand(outcomesCmd)

	outcomesCmd.Flags().StringVar(&outcomesFlags.runID, "run-id", "", "filter by run")
	outcomesCmd.Flags().StringVar(&outcomesFlags.path, "path", "", "filter by entry path")
	outcomesCmd.Flags().StringVar(&outcomesFlags.action, "action", "", "filter by action")
	outcomesCmd.Flags().BoolVar(&outcomesFlags.failed, "failed", false, "only failed outcomes")
	outcomesCmd.Flags().StringVar(&outcomesFlags.format, "format", "json", "output format (json, csv)")
	outcomesCmd.Flags().IntVar(&outcomesFlags.limit, "limit", 0, "maximum records (0 = all)")
}

func runOutcomes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	sqliteCfg := audit.DefaultSQLiteConfig()
	sqliteCfg.Path = cfg.Audit.Path
	store, err := audit.NewSQLiteStorage(sqliteCfg)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer store.Close()

	query := &audit.Query{
		RunID:  outcomesFlags.runID,
		Path:   outcomesFlags.path,
		Action: outcomesFlags.action,
		Limit:  outcomesFlags.limit,
	}
	if outcomesFlags.failed {
		success := false
		query.Success = &success
	}

	ctx := context.Background()
	records, err := store.Query(ctx, query)
	if err != nil {
		return err
	}

	switch outcomesFlags.format {
	case "csv":
		return export.NewCSVExporter().Export(ctx, records, os.Stdout)
	case "json":
		return export.NewJSONExporter(true).Export(ctx, records, os.Stdout)
	default:
		return fmt.Errorf("unknown format %q (must be \"json\" or \"csv\")", outcomesFlags.format)
	}
}

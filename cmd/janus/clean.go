package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"renderhq/janus/pkg/engine"
	"renderhq/janus/pkg/report"
)

var cleanFlags struct {
	paths        []string
	dryRun       bool
	approve      string
	secureDelete bool
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run one cleanup over the given trees",
	Long: `Walk the given trees, classify files against the pattern catalog, and
apply retention-driven actions.

The exit code is 0 only when every outcome succeeded; any failed entry makes
it nonzero.

Examples:
  # Simulate first
  janus clean --path /mnt/projects/show01 --dry-run

  # Apply for real
  janus clean --path /mnt/projects/show01

  # Authorize gated backup deletions
  janus clean --path /mnt/projects/show01 --approve TICKET-4821

  # Overwrite content before unlinking
  janus clean --path /mnt/projects/show01 --secure-delete`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringArrayVarP(&cleanFlags.paths, "path", "p", nil, "tree to clean (repeatable)")
	cleanCmd.Flags().BoolVar(&cleanFlags.dryRun, "dry-run", false, "simulate without mutating anything")
	cleanCmd.Flags().StringVar(&cleanFlags.approve, "approve", "", "approval token for gated categories")
	cleanCmd.Flags().BoolVar(&cleanFlags.secureDelete, "secure-delete", false, "overwrite content before unlinking")
	cleanCmd.MarkFlagRequired("path")
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cleanFlags.secureDelete {
		cfg.Actions.SecureDelete = true
	}
	setupLogging(cfg)

	c, err := assemble(cfg, false)
	if err != nil {
		return err
	}
	defer c.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := c.engine.Run(ctx, engine.RunOptions{
		Roots:         cleanFlags.paths,
		DryRun:        cleanFlags.dryRun,
		ApprovalToken: cleanFlags.approve,
	})
	if err != nil {
		return err
	}

	printReport(rep)

	if rep.ErrorsCount > 0 {
		return fmt.Errorf("%d entries failed", rep.ErrorsCount)
	}
	return nil
}

func printReport(rep *report.Report) {
	fmt.Printf("Run %s\n", rep.RunID)
	fmt.Printf("  %s\n", rep.Summary())
	if rep.BytesArchived > 0 {
		fmt.Printf("  archived: %s\n", report.FormatBytes(rep.BytesArchived))
	}
	if rep.UsageBefore != nil && rep.UsageAfter != nil {
		d := report.Compare(rep.UsageBefore, rep.UsageAfter)
		fmt.Printf("  storage: %s -> %s (%s freed)\n",
			report.FormatBytes(rep.UsageBefore.TotalBytes),
			report.FormatBytes(rep.UsageAfter.TotalBytes),
			report.FormatBytes(d.BytesFreed))
	}
	for _, f := range rep.Failed {
		fmt.Printf("  FAILED %s [%s]: %s\n", f.Path, f.ErrorKind, f.Error)
	}
}

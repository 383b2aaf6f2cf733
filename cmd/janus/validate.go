package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and pattern catalog",
	Long: `Load the configuration and pattern catalog and report the first problem
found, without running anything. Malformed globs, unknown categories, and
invalid config values are all rejected here rather than mid-run.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ruleSet, err := loadRuleSet(cfg)
	if err != nil {
		return fmt.Errorf("pattern catalog: %w", err)
	}

	fmt.Println("✓ Configuration valid")
	fmt.Printf("✓ Pattern catalog valid (%d active rules)\n", ruleSet.Len())
	if len(cfg.Rules.Applications) > 0 {
		fmt.Printf("✓ Application packs: %v\n", cfg.Rules.Applications)
	}
	return nil
}

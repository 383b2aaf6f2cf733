package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"renderhq/janus/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "janus",
	Short: "Janus - post-render cleanup engine",
	Long: `Janus walks production directory trees, classifies files against a
pattern catalog, and applies retention-driven disposition actions:

  - delete expired temp files, logs, and intermediates
  - compress expired render artifacts in place
  - archive to cold storage with verified two-phase deletion
  - keep everything a rule or retention window still protects

Destructive actions are dry-run simulable, approval-gated for backups,
recorded in an append-only audit log, and idempotent under re-run.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads and validates the configuration, tolerating a missing
// default config file.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) && !rootCmd.PersistentFlags().Changed("config") {
		cfg := config.DefaultConfig()
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// setupLogging installs the process logger per the telemetry config. The
// --verbose flag forces debug level.
func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.Telemetry.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Telemetry.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

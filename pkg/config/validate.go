package config

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"renderhq/janus/pkg/rules"
)

// Validate checks the configuration for errors. It returns the first problem
// found, prefixed with the section it belongs to.
func Validate(cfg *Config) error {
	for name, days := range cfg.Retention {
		if _, err := rules.ParseCategory(name); err != nil {
			return fmt.Errorf("retention: %w", err)
		}
		if days < 0 {
			return fmt.Errorf("retention: category %q has negative window %d", name, days)
		}
	}

	for _, app := range cfg.Rules.Applications {
		if app == "" {
			return fmt.Errorf("rules: empty application name")
		}
	}

	switch cfg.Actions.Compression {
	case "zstd", "gzip":
	default:
		return fmt.Errorf("actions: unknown compression codec %q (must be \"zstd\" or \"gzip\")", cfg.Actions.Compression)
	}

	if cfg.Actions.ArchiveToColdStorage && cfg.Archive.Dir == "" {
		return fmt.Errorf("archive: dir is required when archive_to_cold_storage is enabled")
	}

	switch cfg.Audit.Backend {
	case "sqlite":
		if cfg.Audit.Path == "" {
			return fmt.Errorf("audit: path is required for the sqlite backend")
		}
	case "memory":
	default:
		return fmt.Errorf("audit: unknown backend %q (must be \"sqlite\" or \"memory\")", cfg.Audit.Backend)
	}

	switch cfg.Ledger.Backend {
	case "sqlite":
		if cfg.Ledger.Path == "" {
			return fmt.Errorf("ledger: path is required for the sqlite backend")
		}
	case "memory":
	default:
		return fmt.Errorf("ledger: unknown backend %q (must be \"sqlite\" or \"memory\")", cfg.Ledger.Backend)
	}

	if cfg.Execution.Workers < 1 {
		return fmt.Errorf("execution: workers must be at least 1, got %d", cfg.Execution.Workers)
	}
	if cfg.Execution.RetryAttempts < 0 {
		return fmt.Errorf("execution: retry_attempts must not be negative, got %d", cfg.Execution.RetryAttempts)
	}
	if cfg.Execution.RetryBaseBackoff <= 0 {
		return fmt.Errorf("execution: retry_base_backoff must be positive, got %s", cfg.Execution.RetryBaseBackoff)
	}
	if cfg.Execution.RetryMaxBackoff < cfg.Execution.RetryBaseBackoff {
		return fmt.Errorf("execution: retry_max_backoff %s is below retry_base_backoff %s",
			cfg.Execution.RetryMaxBackoff, cfg.Execution.RetryBaseBackoff)
	}

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			return fmt.Errorf("schedule: invalid cron expression %q: %w", cfg.Schedule, err)
		}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry: unknown logging level %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry: unknown logging format %q", cfg.Telemetry.Logging.Format)
	}
	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.ListenAddress == "" {
		return fmt.Errorf("telemetry: metrics listen_address is required when metrics are enabled")
	}

	return nil
}

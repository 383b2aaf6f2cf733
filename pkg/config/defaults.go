package config

import "time"

// DefaultConfig returns a Config populated with the default values. The
// retention defaults are conservative: nothing expires in under a week, and
// backups carry the longest window.
func DefaultConfig() *Config {
	return &Config{
		Retention: map[string]int{
			"temp":            7,
			"render_artifact": 14,
			"intermediate":    7,
			"log":             30,
			"backup":          90,
		},
		Actions: ActionsConfig{
			CompressRenders:           true,
			Compression:               "zstd",
			RequireApprovalForBackups: true,
			GenerateUsageReport:       true,
		},
		Audit: AuditConfig{
			Backend: "sqlite",
			Path:    "data/audit.db",
		},
		Ledger: LedgerConfig{
			Backend: "sqlite",
			Path:    "data/ledger.db",
		},
		Execution: ExecutionConfig{
			Workers:          4,
			RetryAttempts:    3,
			RetryBaseBackoff: 500 * time.Millisecond,
			RetryMaxBackoff:  10 * time.Second,
		},
		Notification: NotificationConfig{
			OnSuccess: true,
			OnFailure: true,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
			Metrics: MetricsConfig{
				ListenAddress: "127.0.0.1:9090",
			},
		},
	}
}

// ApplyDefaults fills zero-valued fields in cfg with the defaults. Boolean
// toggles are left alone: an explicit false in the file must survive, so the
// loader starts from DefaultConfig and lets YAML overwrite it instead of
// calling this on a bare struct.
func ApplyDefaults(cfg *Config) {
	def := DefaultConfig()

	if cfg.Retention == nil {
		cfg.Retention = def.Retention
	}
	if cfg.Actions.Compression == "" {
		cfg.Actions.Compression = def.Actions.Compression
	}
	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = def.Audit.Backend
	}
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = def.Audit.Path
	}
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = def.Ledger.Backend
	}
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = def.Ledger.Path
	}
	if cfg.Execution.Workers == 0 {
		cfg.Execution.Workers = def.Execution.Workers
	}
	if cfg.Execution.RetryAttempts == 0 {
		cfg.Execution.RetryAttempts = def.Execution.RetryAttempts
	}
	if cfg.Execution.RetryBaseBackoff == 0 {
		cfg.Execution.RetryBaseBackoff = def.Execution.RetryBaseBackoff
	}
	if cfg.Execution.RetryMaxBackoff == 0 {
		cfg.Execution.RetryMaxBackoff = def.Execution.RetryMaxBackoff
	}
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = def.Telemetry.Logging.Level
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = def.Telemetry.Logging.Format
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = def.Telemetry.Metrics.ListenAddress
	}
}

package config

import "time"

// Config is the root configuration for cleanup runs.
type Config struct {
	// Rules configures pattern matching and the active application packs.
	Rules RulesConfig `yaml:"rules"`

	// Retention maps category names to retention windows in days. A
	// category absent from the map never auto-expires; an explicit zero
	// means always eligible once classified.
	Retention map[string]int `yaml:"retention"`

	// Actions toggles the disposition actions.
	Actions ActionsConfig `yaml:"actions"`

	// Archive configures the cold-storage target.
	Archive ArchiveConfig `yaml:"archive"`

	// Audit configures the append-only outcome log.
	Audit AuditConfig `yaml:"audit"`

	// Ledger configures the completed-action index used for idempotent
	// re-runs.
	Ledger LedgerConfig `yaml:"ledger"`

	// Execution configures the worker pool and retry behavior.
	Execution ExecutionConfig `yaml:"execution"`

	// Schedule is an optional cron expression for recurring runs in daemon
	// mode (e.g. "0 3 * * *"). Empty disables scheduling.
	Schedule string `yaml:"schedule"`

	// Notification toggles run notifications.
	Notification NotificationConfig `yaml:"notification"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RulesConfig configures classification.
type RulesConfig struct {
	// CatalogPath points to a pattern catalog YAML file. Empty uses the
	// built-in catalog.
	CatalogPath string `yaml:"catalog_path"`

	// WatchCatalog reloads the catalog when the file changes (daemon mode
	// only). Default: false
	WatchCatalog bool `yaml:"watch_catalog"`

	// CaseInsensitive folds ASCII case during matching.
	// Default: false
	CaseInsensitive bool `yaml:"case_insensitive"`

	// Applications enables application pattern packs ("blender", "maya",
	// "nuke", "houdini", "aftereffects"). Packs merge additively with the
	// base catalog.
	Applications []string `yaml:"applications"`
}

// ActionsConfig toggles the disposition actions.
type ActionsConfig struct {
	// CompressRenders compresses expired render artifacts and
	// intermediates instead of deleting them outright.
	// Default: true
	CompressRenders bool `yaml:"compress_renders"`

	// Compression selects the codec ("zstd", "gzip").
	// Default: "zstd"
	Compression string `yaml:"compression"`

	// ArchiveToColdStorage copies expired files to the archive directory
	// and deletes the source only after verification.
	// Default: false
	ArchiveToColdStorage bool `yaml:"archive_to_cold_storage"`

	// SecureDelete overwrites file content before unlinking.
	// Default: false
	SecureDelete bool `yaml:"secure_delete"`

	// RequireApprovalForBackups keeps backup-category files unless the run
	// carries an approval token. Default: true
	RequireApprovalForBackups bool `yaml:"require_approval_for_backups"`

	// GenerateUsageReport attaches before/after storage snapshots to the
	// run report. Default: true
	GenerateUsageReport bool `yaml:"generate_usage_report"`
}

// ArchiveConfig configures the cold-storage target.
type ArchiveConfig struct {
	// Dir is the archive destination directory, typically a cold-storage
	// mount. Required when archiving is enabled.
	Dir string `yaml:"dir"`
}

// AuditConfig configures the audit log.
type AuditConfig struct {
	// Backend selects the audit backend ("sqlite", "memory").
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the sqlite database path.
	// Default: "data/audit.db"
	Path string `yaml:"path"`
}

// LedgerConfig configures the completed-action index.
type LedgerConfig struct {
	// Backend selects the ledger backend ("sqlite", "memory").
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the sqlite database path.
	// Default: "data/ledger.db"
	Path string `yaml:"path"`
}

// ExecutionConfig configures how actions are applied.
type ExecutionConfig struct {
	// Workers bounds the number of concurrent action appliers.
	// Default: 4
	Workers int `yaml:"workers"`

	// RetryAttempts is the retry budget for transient storage failures.
	// Default: 3
	RetryAttempts int `yaml:"retry_attempts"`

	// RetryBaseBackoff is the initial delay between retries.
	// Default: 500ms
	RetryBaseBackoff time.Duration `yaml:"retry_base_backoff"`

	// RetryMaxBackoff caps the delay between retries.
	// Default: 10s
	RetryMaxBackoff time.Duration `yaml:"retry_max_backoff"`

	// FollowSymlinksOutsideRoot lets the walker follow links that resolve
	// outside the run root. Default: false
	FollowSymlinksOutsideRoot bool `yaml:"follow_symlinks_outside_root"`
}

// NotificationConfig toggles run notifications.
type NotificationConfig struct {
	// OnSuccess notifies after a run with zero failures. Default: true
	OnSuccess bool `yaml:"on_success"`

	// OnFailure notifies after a run with failures. Default: true
	OnFailure bool `yaml:"on_failure"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	// Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint for daemon mode.
type MetricsConfig struct {
	// Enabled serves /metrics in daemon mode. Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the metrics listen address.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path. The
// document is unmarshalled over DefaultConfig, so fields the file omits keep
// their defaults while an explicit false or zero in the file survives. The
// result is validated before it is returned.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	// An explicit retention map replaces the default map wholesale: a
	// category the file omits means never expire. Unmarshalling into a
	// populated map would merge instead, so clear it first and restore the
	// default only when the file says nothing.
	cfg.Retention = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// JANUS_SECTION_FIELD (e.g. JANUS_ARCHIVE_DIR) and always take precedence
// over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies JANUS_SECTION_FIELD environment overrides.
func applyEnvOverrides(cfg *Config) {
	// Rules overrides
	if val := os.Getenv("JANUS_RULES_CATALOG_PATH"); val != "" {
		cfg.Rules.CatalogPath = val
	}
	if val := os.Getenv("JANUS_RULES_CASE_INSENSITIVE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.CaseInsensitive = b
		}
	}

	// Actions overrides
	if val := os.Getenv("JANUS_ACTIONS_COMPRESS_RENDERS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Actions.CompressRenders = b
		}
	}
	if val := os.Getenv("JANUS_ACTIONS_COMPRESSION"); val != "" {
		cfg.Actions.Compression = val
	}
	if val := os.Getenv("JANUS_ACTIONS_ARCHIVE_TO_COLD_STORAGE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Actions.ArchiveToColdStorage = b
		}
	}
	if val := os.Getenv("JANUS_ACTIONS_SECURE_DELETE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Actions.SecureDelete = b
		}
	}

	// Archive overrides
	if val := os.Getenv("JANUS_ARCHIVE_DIR"); val != "" {
		cfg.Archive.Dir = val
	}

	// Audit and ledger overrides
	if val := os.Getenv("JANUS_AUDIT_BACKEND"); val != "" {
		cfg.Audit.Backend = val
	}
	if val := os.Getenv("JANUS_AUDIT_PATH"); val != "" {
		cfg.Audit.Path = val
	}
	if val := os.Getenv("JANUS_LEDGER_BACKEND"); val != "" {
		cfg.Ledger.Backend = val
	}
	if val := os.Getenv("JANUS_LEDGER_PATH"); val != "" {
		cfg.Ledger.Path = val
	}

	// Execution overrides
	if val := os.Getenv("JANUS_EXECUTION_WORKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Execution.Workers = i
		}
	}
	if val := os.Getenv("JANUS_EXECUTION_RETRY_ATTEMPTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Execution.RetryAttempts = i
		}
	}
	if val := os.Getenv("JANUS_EXECUTION_RETRY_BASE_BACKOFF"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Execution.RetryBaseBackoff = d
		}
	}
	if val := os.Getenv("JANUS_EXECUTION_RETRY_MAX_BACKOFF"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Execution.RetryMaxBackoff = d
		}
	}

	// Schedule override
	if val := os.Getenv("JANUS_SCHEDULE"); val != "" {
		cfg.Schedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("JANUS_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("JANUS_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("JANUS_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("JANUS_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
}

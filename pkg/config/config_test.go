package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

// TestDefaultConfigValid tests that the defaults pass validation unchanged.
func TestDefaultConfigValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("Validate(DefaultConfig()) failed: %v", err)
	}
}

// TestLoadConfig_PartialOverride tests that a partial file overrides only
// what it mentions.
func TestLoadConfig_PartialOverride(t *testing.T) {
	path := writeConfig(t, `
retention:
  log: 60
actions:
  compress_renders: false
execution:
  workers: 8
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Retention["log"] != 60 {
		t.Errorf("Retention[log] = %d, want 60", cfg.Retention["log"])
	}
	if cfg.Actions.CompressRenders {
		t.Error("explicit compress_renders: false did not survive loading")
	}
	if cfg.Execution.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Execution.Workers)
	}

	// Untouched sections keep their defaults.
	if cfg.Actions.Compression != "zstd" {
		t.Errorf("Compression = %q, want default zstd", cfg.Actions.Compression)
	}
	if cfg.Audit.Backend != "sqlite" {
		t.Errorf("Audit.Backend = %q, want default sqlite", cfg.Audit.Backend)
	}
	if !cfg.Actions.RequireApprovalForBackups {
		t.Error("RequireApprovalForBackups default lost")
	}
}

// TestLoadConfig_ExplicitRetentionOverride tests that a retention map in the
// file replaces the default map rather than merging with it: a category the
// file omits must mean never expire, not fall back to a default window.
func TestLoadConfig_ExplicitRetentionOverride(t *testing.T) {
	path := writeConfig(t, `
retention:
  temp: 3
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Retention["temp"] != 3 {
		t.Errorf("Retention[temp] = %d, want 3", cfg.Retention["temp"])
	}
	if _, ok := cfg.Retention["backup"]; ok {
		t.Error("default backup window leaked into an explicit retention map")
	}
}

// TestLoadConfig_Invalid tests rejection of bad values.
func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown category", "retention:\n  scratch: 5\n"},
		{"negative window", "retention:\n  log: -1\n"},
		{"bad codec", "actions:\n  compression: lz77\n"},
		{"archive without dir", "actions:\n  archive_to_cold_storage: true\n"},
		{"bad audit backend", "audit:\n  backend: postgres\n"},
		{"zero workers", "execution:\n  workers: -2\n"},
		{"bad schedule", "schedule: \"not a cron line\"\n"},
		{"bad log level", "telemetry:\n  logging:\n    level: verbose\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadConfig() accepted invalid configuration")
			}
		})
	}
}

// TestLoadConfig_MissingFile tests the error path for an absent file.
func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() succeeded on a missing file")
	}
}

// TestLoadConfigWithEnvOverrides tests that environment variables win over
// the file.
func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
archive:
  dir: /mnt/cold
execution:
  workers: 2
`)
	t.Setenv("JANUS_EXECUTION_WORKERS", "16")
	t.Setenv("JANUS_ACTIONS_SECURE_DELETE", "true")
	t.Setenv("JANUS_EXECUTION_RETRY_BASE_BACKOFF", "1s")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}
	if cfg.Execution.Workers != 16 {
		t.Errorf("Workers = %d, want 16 from environment", cfg.Execution.Workers)
	}
	if !cfg.Actions.SecureDelete {
		t.Error("SecureDelete override not applied")
	}
	if cfg.Execution.RetryBaseBackoff != time.Second {
		t.Errorf("RetryBaseBackoff = %s, want 1s", cfg.Execution.RetryBaseBackoff)
	}
	if cfg.Archive.Dir != "/mnt/cold" {
		t.Errorf("Archive.Dir = %q, want file value to survive", cfg.Archive.Dir)
	}
}

package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"renderhq/janus/pkg/rules"
)

// TestDefaultCompiles tests that the built-in catalog compiles with every
// application pack enabled.
func TestDefaultCompiles(t *testing.T) {
	rs, err := rules.Compile(Default().Rules(), rules.CompileOptions{
		Applications: []string{"blender", "maya", "nuke", "houdini", "aftereffects"},
	})
	if err != nil {
		t.Fatalf("Compile(Default()) failed: %v", err)
	}
	if rs.Len() == 0 {
		t.Error("default catalog compiled to an empty rule set")
	}
}

// TestDefaultClassification tests a few representative default patterns.
func TestDefaultClassification(t *testing.T) {
	rs, err := rules.Compile(Default().Rules(), rules.CompileOptions{
		Applications: []string{"blender", "maya"},
	})
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}

	tests := []struct {
		path string
		want rules.Category
	}{
		{"shots/sq10/frame_scratch.exr", rules.CategoryTemp},
		{"shots/render_cache/pass01.exr", rules.CategoryRenderArtifact},
		{"logs/render_20260101.log", rules.CategoryLog},
		{"assets/env.bak", rules.CategoryBackup},
		{"scenes/main.blend1", rules.CategoryApplication},
		{"scenes/incrementalSave/shot.0004.ma", rules.CategoryApplication},
	}
	for _, tt := range tests {
		if !rs.Classify(tt.path).Has(tt.want) {
			t.Errorf("Classify(%q) is missing %s", tt.path, tt.want)
		}
	}

	// Packs not enabled stay dormant.
	if !rs.Classify("comp/shot.nk~").Empty() {
		t.Error("nuke pattern active without the nuke pack enabled")
	}
}

// TestLoad tests YAML catalog loading and group ordering.
func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
temp_files:
  - "*.tmp"
log_files:
  - "**/logs/**"
application_patterns:
  nuke:
    - "*.nk~"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	ruleList, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(ruleList) != 3 {
		t.Fatalf("Load() returned %d rules, want 3", len(ruleList))
	}
	if ruleList[0].Category != rules.CategoryTemp || ruleList[0].Glob != "*.tmp" {
		t.Errorf("rule 0 = %+v, want the temp group first", ruleList[0])
	}
	if ruleList[2].AppScope != "nuke" {
		t.Errorf("rule 2 AppScope = %q, want nuke pack last", ruleList[2].AppScope)
	}
}

// TestLoad_BadFile tests the error paths.
func TestLoad_BadFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() succeeded on a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("temp_files: {not: a list}"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed YAML")
	}
}

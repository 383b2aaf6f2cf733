package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"renderhq/janus/pkg/rules"
)

// Catalog is the YAML shape of a pattern catalog. Group order below is the
// rule order: base groups first, application packs last.
type Catalog struct {
	// TempFiles matches ephemeral scratch files.
	TempFiles []string `yaml:"temp_files"`

	// RenderArtifacts matches render output caches and partial frames.
	RenderArtifacts []string `yaml:"render_artifacts"`

	// LogFiles matches render and tool logs.
	LogFiles []string `yaml:"log_files"`

	// Intermediates matches regenerable intermediate products.
	Intermediates []string `yaml:"intermediates"`

	// Backups matches backup copies. Backup deletions are irreversible in
	// intent and gated behind approval by default.
	Backups []string `yaml:"backups"`

	// ApplicationPatterns maps an application pack name to its
	// application-specific patterns.
	ApplicationPatterns map[string][]string `yaml:"application_patterns"`
}

// Load reads a catalog file and returns its ordered rule list.
func Load(path string) ([]rules.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %q: %w", path, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %q: %w", path, err)
	}
	return c.Rules(), nil
}

// Rules flattens the catalog into an ordered rule list.
func (c *Catalog) Rules() []rules.Rule {
	var out []rules.Rule
	appendGroup := func(globs []string, cat rules.Category, scope string) {
		for _, g := range globs {
			out = append(out, rules.Rule{Glob: g, Category: cat, AppScope: scope})
		}
	}

	appendGroup(c.TempFiles, rules.CategoryTemp, "")
	appendGroup(c.RenderArtifacts, rules.CategoryRenderArtifact, "")
	appendGroup(c.LogFiles, rules.CategoryLog, "")
	appendGroup(c.Intermediates, rules.CategoryIntermediate, "")
	appendGroup(c.Backups, rules.CategoryBackup, "")

	// Application packs in sorted name order for deterministic rule lists.
	for _, app := range sortedKeys(c.ApplicationPatterns) {
		appendGroup(c.ApplicationPatterns[app], rules.CategoryApplication, app)
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns the built-in catalog covering the common render-farm
// leftovers and the supported application packs.
func Default() *Catalog {
	return &Catalog{
		TempFiles: []string{
			"*.tmp",
			"*.temp",
			"*_scratch.*",
			"**/.thumbnails/**",
		},
		RenderArtifacts: []string{
			"**/render_cache/**",
			"**/ifd_cache/**",
			"*.partial.exr",
		},
		LogFiles: []string{
			"*.log",
			"**/logs/**",
		},
		Intermediates: []string{
			"**/cache/**",
			"*.deepshadow",
			"*.ass",
		},
		Backups: []string{
			"*.bak",
			"**/backup/**",
			"**/autosave/**",
		},
		ApplicationPatterns: map[string][]string{
			"blender": {
				"*.blend1",
				"*.blend2",
				"*.blend@",
			},
			"maya": {
				"**/incrementalSave/**",
				"*.ma.swatches",
				"**/mayaSwatches/**",
			},
			"nuke": {
				"*.nk~",
				"*.nk.autosave",
				"**/.nuke_temp/**",
			},
			"houdini": {
				"**/backup/*.hip*",
				"*.hip.bak",
			},
			"aftereffects": {
				"**/Adobe After Effects Auto-Save/**",
				"*.aep.bak",
			},
		},
	}
}

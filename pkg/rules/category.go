package rules

import (
	"fmt"
	"slices"
)

// Category is a closed classification label driving retention and action
// decisions. Free-form category strings from configuration are rejected at
// load time; the only extension point is CategoryApplication, which carries
// the application name as a separate scope tag on the rule.
type Category string

const (
	// CategoryTemp covers scratch and temporary files.
	CategoryTemp Category = "temp"

	// CategoryRenderArtifact covers render caches and intermediate frames.
	CategoryRenderArtifact Category = "render_artifact"

	// CategoryLog covers render and farm log files.
	CategoryLog Category = "log"

	// CategoryIntermediate covers intermediate working files.
	CategoryIntermediate Category = "intermediate"

	// CategoryBackup covers backup files. Backups are treated as
	// irreversible by the action resolver and may require approval.
	CategoryBackup Category = "backup"

	// CategoryApplication covers application-specific files (Blender, Maya,
	// Nuke, Houdini, After Effects). The application name travels on the
	// rule's AppScope field, not in the category itself.
	CategoryApplication Category = "application_specific"
)

// allCategories lists every valid category for validation.
var allCategories = map[Category]bool{
	CategoryTemp:           true,
	CategoryRenderArtifact: true,
	CategoryLog:            true,
	CategoryIntermediate:   true,
	CategoryBackup:         true,
	CategoryApplication:    true,
}

// ParseCategory validates a category string from configuration.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !allCategories[c] {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether the category is one of the closed enumeration.
func (c Category) Valid() bool {
	return allCategories[c]
}

// Irreversible reports whether an action on this category destroys data that
// has no other copy. The action resolver gates these behind approval.
func (c Category) Irreversible() bool {
	return c == CategoryBackup
}

// CategorySet is a set of categories attached to a classified path.
type CategorySet map[Category]bool

// Add inserts a category into the set.
func (s CategorySet) Add(c Category) {
	s[c] = true
}

// Has reports whether the set contains the category.
func (s CategorySet) Has(c Category) bool {
	return s[c]
}

// Empty reports whether no category matched. Unmatched paths are implicitly
// kept and never acted upon.
func (s CategorySet) Empty() bool {
	return len(s) == 0
}

// Sorted returns the categories in a stable lexical order, for logging and
// decision reasons.
func (s CategorySet) Sorted() []Category {
	out := make([]Category, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

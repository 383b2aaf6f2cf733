// Package rules implements pattern-based file classification for cleanup runs.
//
// A RuleSet is an ordered collection of compiled glob rules, each tagging the
// paths it matches with a category (temp, render artifact, log, intermediate,
// backup, or an application-specific category). Classification is multi-label:
// a single path may carry several categories at once, and downstream retention
// and action decisions must account for all of them.
//
// Glob syntax supports '*', '?', bracket classes, and '**' for matching zero
// or more path segments. '*' and '?' never cross a path-separator boundary.
// Patterns are validated when the rule set is compiled; malformed patterns are
// rejected up front with InvalidPatternError rather than surfacing at match
// time.
package rules

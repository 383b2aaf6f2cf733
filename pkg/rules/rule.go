package rules

import "fmt"

// Rule is a single immutable pattern rule from the catalog: a glob, the
// category it assigns, and an optional application scope restricting the rule
// to runs where that application pack is enabled.
type Rule struct {
	// Glob is the pattern, relative to the run root. A pattern without a
	// path separator matches base names at any depth.
	Glob string

	// Category is the classification assigned to matching paths.
	Category Category

	// AppScope names the application pack this rule belongs to ("blender",
	// "maya", "nuke", "houdini", "aftereffects"). Empty for the always-on
	// base rules.
	AppScope string
}

// CompileOptions controls rule compilation.
type CompileOptions struct {
	// CaseInsensitive folds case during matching. Matching is case-sensitive
	// by default.
	CaseInsensitive bool

	// Applications enables application-scoped rule subsets. Packs merge
	// additively into the base rule set; enabling one never disables
	// another.
	Applications []string
}

// compiledRule pairs a rule with its compiled pattern.
type compiledRule struct {
	rule Rule
	glob *globPattern
}

// RuleSet is an ordered, compiled set of rules ready for classification.
// A RuleSet is immutable after compilation and safe for concurrent use.
type RuleSet struct {
	rules []compiledRule
}

// Compile validates every rule and builds a RuleSet. Rules with an AppScope
// not listed in opts.Applications are dropped; everything else is kept in
// order. Any malformed pattern or unknown category fails the whole
// compilation, so a bad catalog is rejected before a run starts.
func Compile(ruleList []Rule, opts CompileOptions) (*RuleSet, error) {
	enabled := make(map[string]bool, len(opts.Applications))
	for _, app := range opts.Applications {
		enabled[app] = true
	}

	rs := &RuleSet{rules: make([]compiledRule, 0, len(ruleList))}
	for i, r := range ruleList {
		if !r.Category.Valid() {
			return nil, fmt.Errorf("rule %d (%q): unknown category %q", i, r.Glob, r.Category)
		}
		if r.AppScope != "" && !enabled[r.AppScope] {
			continue
		}
		g, err := compileGlob(r.Glob, opts.CaseInsensitive)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rs.rules = append(rs.rules, compiledRule{rule: r, glob: g})
	}
	return rs, nil
}

// Len returns the number of active compiled rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Classify returns the set of categories matching the slash-separated,
// root-relative path. The result is multi-label: overlapping rules from
// different categories all contribute. An empty set means the path is kept
// and never acted upon.
//
// Classification is deterministic and independent of rule order: the same
// path and rule set always produce the same category set.
func (rs *RuleSet) Classify(path string) CategorySet {
	set := make(CategorySet)
	for _, cr := range rs.rules {
		if set.Has(cr.rule.Category) {
			continue // same-category matches collapse to one label
		}
		if cr.glob.match(path) {
			set.Add(cr.rule.Category)
		}
	}
	return set
}

package retention

import (
	"fmt"
	"time"

	"renderhq/janus/pkg/rules"
)

// Policy maps categories to retention windows in days. The zero value has no
// windows defined, so nothing expires.
type Policy struct {
	windows map[rules.Category]int
}

// NewPolicy builds a Policy from a category-to-days mapping, validating the
// categories and rejecting negative windows.
func NewPolicy(days map[rules.Category]int) (*Policy, error) {
	p := &Policy{windows: make(map[rules.Category]int, len(days))}
	for cat, d := range days {
		if !cat.Valid() {
			return nil, fmt.Errorf("retention policy: unknown category %q", cat)
		}
		if d < 0 {
			return nil, fmt.Errorf("retention policy: negative window %d for category %q", d, cat)
		}
		p.windows[cat] = d
	}
	return p, nil
}

// Window returns the retention window for a category and whether one is
// defined. Absence means the category never auto-expires.
func (p *Policy) Window(cat rules.Category) (int, bool) {
	d, ok := p.windows[cat]
	return d, ok
}

// IsExpired reports whether a file of the given age is past the category's
// retention window. A category with no defined window never expires. A window
// of zero days is always expired, whatever the age.
func (p *Policy) IsExpired(cat rules.Category, ageDays int) bool {
	d, ok := p.windows[cat]
	if !ok {
		return false
	}
	return ageDays >= d
}

// AllExpired applies the conservative-wins rule across a category set: the
// entry is expired only when at least one matched category defines a window
// and every matched category with a defined window considers it expired.
// Categories without a window do not veto expiry; they simply carry no
// opinion.
func (p *Policy) AllExpired(cats rules.CategorySet, ageDays int) bool {
	defined := false
	for cat := range cats {
		if _, ok := p.windows[cat]; !ok {
			continue
		}
		defined = true
		if !p.IsExpired(cat, ageDays) {
			return false
		}
	}
	return defined
}

// EffectiveWindow returns the longest defined window across the matched
// categories, for decision reasons. The second result is false when no
// matched category defines a window.
func (p *Policy) EffectiveWindow(cats rules.CategorySet) (int, bool) {
	longest := 0
	found := false
	for cat := range cats {
		if d, ok := p.windows[cat]; ok {
			if !found || d > longest {
				longest = d
			}
			found = true
		}
	}
	return longest, found
}

// AgeDays computes a file's age in whole days, clamped to zero so clock skew
// on remote stores never yields a negative age.
func AgeDays(now, modified time.Time) int {
	age := now.Sub(modified)
	if age < 0 {
		return 0
	}
	return int(age / (24 * time.Hour))
}

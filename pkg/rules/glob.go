package rules

import "strings"

// globPattern is a compiled glob. Compilation validates syntax so matching
// never fails.
type globPattern struct {
	raw      string
	segments []string
	baseOnly bool // no separator in the pattern: match the base name only
	fold     bool // case-insensitive matching
}

// compileGlob validates and compiles a single glob pattern.
//
// Rejected at compile time:
//   - empty patterns
//   - absolute patterns (a rooted glob would silently match everything under
//     the filesystem root instead of the configured run root)
//   - patterns consisting only of '**' segments, which match every path
//   - '**' embedded inside a segment (only a full '**' segment is recursive)
//   - unterminated bracket classes
func compileGlob(raw string, caseInsensitive bool) (*globPattern, error) {
	if raw == "" {
		return nil, NewInvalidPatternError(raw, "empty pattern")
	}
	if strings.HasPrefix(raw, "/") {
		return nil, NewInvalidPatternError(raw, "absolute pattern not allowed; patterns are relative to the run root")
	}

	pat := strings.TrimSuffix(raw, "/")
	if pat == "" {
		return nil, NewInvalidPatternError(raw, "pattern has no segments")
	}

	segments := strings.Split(pat, "/")
	allRecursive := true
	for _, seg := range segments {
		if seg == "" {
			return nil, NewInvalidPatternError(raw, "empty path segment")
		}
		if seg != "**" {
			allRecursive = false
			if strings.Contains(seg, "**") {
				return nil, NewInvalidPatternError(raw, "'**' must be a full path segment")
			}
			if err := validateSegment(seg); err != "" {
				return nil, NewInvalidPatternError(raw, err)
			}
		}
	}
	if allRecursive {
		return nil, NewInvalidPatternError(raw, "pattern matches every path")
	}

	g := &globPattern{
		raw:      raw,
		segments: segments,
		baseOnly: len(segments) == 1,
		fold:     caseInsensitive,
	}
	if g.fold {
		for i, seg := range g.segments {
			g.segments[i] = strings.ToLower(seg)
		}
	}
	return g, nil
}

// validateSegment checks bracket-class syntax. Returns a reason on failure.
func validateSegment(seg string) string {
	for i := 0; i < len(seg); i++ {
		if seg[i] != '[' {
			continue
		}
		j := i + 1
		if j < len(seg) && (seg[j] == '!' || seg[j] == '^') {
			j++
		}
		if j < len(seg) && seg[j] == ']' {
			j++ // first ']' is a literal member
		}
		for j < len(seg) && seg[j] != ']' {
			j++
		}
		if j >= len(seg) {
			return "unterminated bracket class"
		}
		i = j
	}
	return ""
}

// match reports whether the slash-separated, root-relative path matches.
// Patterns without a separator match the base name, so "*.tmp" matches a
// temp file at any depth.
func (g *globPattern) match(path string) bool {
	if g.fold {
		path = strings.ToLower(path)
	}
	parts := strings.Split(path, "/")
	if g.baseOnly {
		return matchSegment(g.segments[0], parts[len(parts)-1])
	}
	return matchSegments(g.segments, parts)
}

// matchSegments matches pattern segments against path segments, with '**'
// consuming zero or more path segments.
func matchSegments(pattern, parts []string) bool {
	if len(pattern) == 0 {
		return len(parts) == 0
	}
	if pattern[0] == "**" {
		// Zero segments, or consume one and retry.
		if matchSegments(pattern[1:], parts) {
			return true
		}
		return len(parts) > 0 && matchSegments(pattern, parts[1:])
	}
	if len(parts) == 0 {
		return false
	}
	if !matchSegment(pattern[0], parts[0]) {
		return false
	}
	return matchSegments(pattern[1:], parts[1:])
}

// matchSegment matches a single segment pattern ('*', '?', bracket classes)
// against a single path segment. Neither wildcard crosses a separator since
// separators never appear inside a segment.
func matchSegment(pattern, s string) bool {
	var pi, si int
	var starPi, starSi int
	starSeen := false
	for si < len(s) {
		if pi < len(pattern) {
			switch pattern[pi] {
			case '*':
				starSeen = true
				starPi, starSi = pi, si
				pi++
				continue
			case '?':
				pi++
				si++
				continue
			case '[':
				ok, next := matchClass(pattern, pi, s[si])
				if ok {
					pi = next
					si++
					continue
				}
			default:
				if pattern[pi] == s[si] {
					pi++
					si++
					continue
				}
			}
		}
		if !starSeen {
			return false
		}
		// Backtrack: let the last '*' absorb one more byte.
		starSi++
		pi, si = starPi+1, starSi
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}

// matchClass matches a bracket class starting at pattern[start] == '[' against
// byte c. Returns whether it matched and the index just past the class.
// Supports negation with '!' or '^' and ranges like 'a-z'.
func matchClass(pattern string, start int, c byte) (bool, int) {
	i := start + 1
	negate := false
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		negate = true
		i++
	}
	matched := false
	first := true
	for i < len(pattern) && (pattern[i] != ']' || first) {
		first = false
		lo := pattern[i]
		if i+2 < len(pattern) && pattern[i+1] == '-' && pattern[i+2] != ']' {
			hi := pattern[i+2]
			if lo <= c && c <= hi {
				matched = true
			}
			i += 3
			continue
		}
		if lo == c {
			matched = true
		}
		i++
	}
	if i >= len(pattern) {
		// Compile-time validation guarantees termination; treat a stray
		// bracket as a literal mismatch if it ever slips through.
		return false, start + 1
	}
	return matched != negate, i + 1
}

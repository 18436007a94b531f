// Package tags implements the pure tag-set reconciliation logic behind the
// order tag editor: wire-form parsing, candidate pooling, incremental search,
// and selection toggling. Nothing in this package performs I/O.
package tags

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Separator is the literal wire-format separator. Tags containing ", "
// cannot round-trip; the format has no escaping and that ambiguity is
// preserved deliberately.
const Separator = ", "

// Split parses a wire-form tag string. Empty input yields an empty slice.
// Segments are passed through unchanged: stray whitespace inside a malformed
// wire string is not corrected here.
func Split(wire string) []string {
	if wire == "" {
		return []string{}
	}
	return strings.Split(wire, Separator)
}

// Join renders tags in wire form. Round-trips with Split for any slice this
// package produces.
func Join(tags []string) string {
	return strings.Join(tags, Separator)
}

// UnionSorted returns the deduplicated union of baseline and working tags in
// ascending order. Baseline tags stay in the pool even after being
// deselected from working, so a removed tag remains choosable again.
func UnionSorted(baseline, working []string) []string {
	merged := make([]string, 0, len(baseline)+len(working))
	merged = append(merged, baseline...)
	merged = append(merged, working...)
	slices.Sort(merged)
	return slices.Compact(merged)
}

// FilterByQuery returns the candidates containing query as a case-insensitive
// literal substring, preserving candidate order. Regex metacharacters in the
// query match themselves.
func FilterByQuery(candidates []string, query string) []string {
	if query == "" {
		return candidates
	}
	pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return []string{}
	}
	filtered := make([]string, 0, len(candidates))
	for _, tag := range candidates {
		if pattern.MatchString(tag) {
			filtered = append(filtered, tag)
		}
	}
	return filtered
}

// Toggle returns working with tag removed if present, appended otherwise.
// It is its own inverse.
func Toggle(working []string, tag string) []string {
	next := make([]string, 0, len(working)+1)
	found := false
	for _, t := range working {
		if t == tag {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		next = append(next, tag)
	}
	return next
}

// HasExactMatch reports whether the trimmed query equals some candidate,
// case-sensitively. A false result is what offers the "create new tag"
// affordance.
func HasExactMatch(candidates []string, query string) bool {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return false
	}
	return slices.Contains(candidates, trimmed)
}

// Highlight is presentation data for one candidate: the option split around
// the first case-insensitive occurrence of the query.
type Highlight struct {
	Before string `json:"before"`
	Match  string `json:"match"`
	After  string `json:"after"`
}

// HighlightMatch splits option around the first case-insensitive occurrence
// of the trimmed query. With no match or an empty query the whole option is
// returned as Before. Matching folds rune by rune over the original string,
// so the three fragments are always valid slices of option even when case
// mapping changes byte lengths.
func HighlightMatch(option, query string) Highlight {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return Highlight{Before: option}
	}
	for i := 0; i < len(option); {
		if n, ok := foldPrefixLen(option[i:], trimmed); ok {
			return Highlight{
				Before: option[:i],
				Match:  option[i : i+n],
				After:  option[i+n:],
			}
		}
		_, size := utf8.DecodeRuneInString(option[i:])
		i += size
	}
	return Highlight{Before: option}
}

// foldPrefixLen reports whether s begins with query under simple case
// folding, returning the byte length of the matching prefix of s.
func foldPrefixLen(s, query string) (int, bool) {
	i := 0
	for _, qr := range query {
		if i >= len(s) {
			return 0, false
		}
		sr, size := utf8.DecodeRuneInString(s[i:])
		if !runesFold(sr, qr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

func runesFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

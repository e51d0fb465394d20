package normalisers

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// CanonicalKey returns the grouping form of a label: NFKD-normalised,
// lowercased, with whitespace runs collapsed to one space and trimmed.
func CanonicalKey(label string) string {
	decomposed := norm.NFKD.String(label)
	// A Caser keeps state between calls, so each call gets its own.
	lowered := cases.Lower(language.Und).String(decomposed)
	return strings.Join(strings.Fields(lowered), " ")
}

// groupKey identifies a dedupe group.
func groupKey(system, dataPoint string) string {
	return system + "::" + CanonicalKey(dataPoint)
}

// splitList splits a source list on ";" or "|" and drops blanks.
func splitList(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ';' || r == '|' })
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mergeLists unions source lists in order, deduplicated, joined with "; ".
func mergeLists(values ...string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range values {
		for _, item := range splitList(v) {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return strings.Join(out, "; ")
}

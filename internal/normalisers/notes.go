package normalisers

import "strings"

const (
	noteSeparator       = " | "
	mergedTokenPrefix   = "merged:"
	conflictTokenPrefix = "conflict_set:"
)

// noteSegments splits notes into trimmed, non-empty segments with any
// bookkeeping tokens removed. Repeated segments are kept once.
func noteSegments(notes ...string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, n := range notes {
		for _, seg := range strings.Split(n, "|") {
			seg = strings.TrimSpace(seg)
			if seg == "" || isBookkeeping(seg) {
				continue
			}
			if _, ok := seen[seg]; ok {
				continue
			}
			seen[seg] = struct{}{}
			out = append(out, seg)
		}
	}
	return out
}

func isBookkeeping(seg string) bool {
	return strings.HasPrefix(seg, mergedTokenPrefix) || strings.HasPrefix(seg, conflictTokenPrefix)
}

// renderNotes rebuilds the notes field from free-text segments and the
// structured merge and conflict fields. It emits at most one token of each.
func renderNotes(segments, mergedFrom []string, conflictSetID string) string {
	out := append([]string(nil), segments...)
	if len(mergedFrom) > 0 {
		out = append(out, mergedTokenPrefix+strings.Join(mergedFrom, "+"))
	}
	if conflictSetID != "" {
		out = append(out, conflictTokenPrefix+conflictSetID)
	}
	return strings.Join(out, noteSeparator)
}

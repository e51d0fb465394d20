package normalisers

import (
	"cmp"
	"slices"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// FillDirection derives the compass point from direction_degrees when the
// cardinal is empty.
func FillDirection(row *domain.DatasetRow) {
	if row.DirectionDegrees != nil && row.DirectionCardinal == domain.DirectionNone {
		row.DirectionCardinal = domain.CardinalFromDegrees(float64(*row.DirectionDegrees))
	}
}

// ComparePreference orders rows by preference: larger |strength| first,
// then larger confidence, then smaller id.
func ComparePreference(a, b *domain.DatasetRow) int {
	if c := cmp.Compare(absInt(b.Strength), absInt(a.Strength)); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// member is a row with its parsed timing window.
type member struct {
	row    domain.DatasetRow
	window *domain.ClosedInterval
}

// overlaps treats a missing window on either side as overlapping.
func (m *member) overlaps(other *member) bool {
	if m.window == nil || other.window == nil {
		return true
	}
	return m.window.Overlaps(*other.window)
}

// Dedupe merges rows that share a system and canonical data point and whose
// timing windows overlap, directly or through other rows of the group.
// The returned rows are sorted by group key and then preferred row id.
func Dedupe(rows []domain.DatasetRow) []domain.DatasetRow {
	groups := make(map[string][]*member)
	for i := range rows {
		r := rows[i].Clone()
		FillDirection(&r)
		// Unparseable windows are rejected by validation; treat them as absent here.
		w, err := r.Window()
		if err != nil {
			w = nil
		}
		key := groupKey(string(r.System), r.DataPoint)
		groups[key] = append(groups[key], &member{row: r, window: w})
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]domain.DatasetRow, 0, len(rows))
	for _, key := range keys {
		clusters := cluster(groups[key])
		merged := make([]domain.DatasetRow, 0, len(clusters))
		for _, c := range clusters {
			merged = append(merged, mergeCluster(c))
		}
		slices.SortFunc(merged, func(a, b domain.DatasetRow) int { return cmp.Compare(a.ID, b.ID) })
		out = append(out, merged...)
	}
	return out
}

// cluster returns the connected components of the overlap graph. Component
// membership does not depend on input order.
func cluster(members []*member) [][]*member {
	parent := make([]int, len(members))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			if members[i].overlaps(members[j]) {
				if ri, rj := find(i), find(j); ri != rj {
					parent[rj] = ri
				}
			}
		}
	}

	byRoot := make(map[int][]*member)
	var roots []int
	for i, m := range members {
		r := find(i)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], m)
	}
	out := make([][]*member, 0, len(roots))
	for _, r := range roots {
		out = append(out, byRoot[r])
	}
	return out
}

// mergeCluster folds a cluster into its preferred row. A single-row cluster
// is returned unchanged.
func mergeCluster(c []*member) domain.DatasetRow {
	if len(c) == 1 {
		return c[0].row
	}
	slices.SortFunc(c, func(a, b *member) int { return ComparePreference(&a.row, &b.row) })

	merged := c[0].row.Clone()

	ids := make([]string, 0, len(c))
	tools := make([]string, 0, len(c))
	refs := make([]string, 0, len(c))
	notes := make([]string, 0, len(c))
	for _, m := range c {
		ids = append(ids, m.row.ID)
		ids = append(ids, m.row.MergedFrom...)
		tools = append(tools, m.row.SourceTool)
		refs = append(refs, m.row.SourceRef)
		notes = append(notes, m.row.Notes)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	merged.MergedFrom = ids
	merged.SourceTool = mergeLists(tools...)
	merged.SourceRef = mergeLists(refs...)
	merged.ConflictSetID = ""
	merged.Notes = renderNotes(noteSegments(notes...), ids, "")
	return merged
}

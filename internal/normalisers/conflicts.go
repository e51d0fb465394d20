package normalisers

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// conflictNamespace scopes conflict-set identifiers.
var conflictNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("almanac:conflict_set"))

// ConflictSetID derives the identifier shared by a conflicting group. It is
// a name-based UUID of the canonical key and the sorted member ids, so the
// same group always receives the same id.
func ConflictSetID(canonicalKey string, ids []string) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	name := canonicalKey + "\x00" + strings.Join(sorted, ",")
	return uuid.NewSHA1(conflictNamespace, []byte(name)).String()
}

// MarkConflicts groups rows by canonical data point, ignoring system. Every
// row of a group holding both "+" and "−" polarities gets the group's
// conflict-set id; rows of other groups have any stale id cleared.
// Row order is preserved.
func MarkConflicts(rows []domain.DatasetRow) []domain.DatasetRow {
	out := make([]domain.DatasetRow, len(rows))
	groups := make(map[string][]int)
	for i := range rows {
		out[i] = rows[i].Clone()
		key := CanonicalKey(out[i].DataPoint)
		groups[key] = append(groups[key], i)
	}

	for key, idx := range groups {
		var favourable, unfavourable bool
		ids := make([]string, 0, len(idx))
		for _, i := range idx {
			switch out[i].Polarity {
			case domain.PolarityFavourable:
				favourable = true
			case domain.PolarityUnfavourable:
				unfavourable = true
			}
			ids = append(ids, out[i].ID)
		}

		id := ""
		if favourable && unfavourable {
			id = ConflictSetID(key, ids)
		}
		for _, i := range idx {
			setConflict(&out[i], id)
		}
	}
	return out
}

// setConflict assigns or clears the conflict id and keeps the notes token in step.
func setConflict(row *domain.DatasetRow, id string) {
	if id == "" && row.ConflictSetID == "" && !strings.Contains(row.Notes, conflictTokenPrefix) {
		return
	}
	row.ConflictSetID = id
	row.Notes = renderNotes(noteSegments(row.Notes), row.MergedFrom, id)
}

// Normalise runs Dedupe then MarkConflicts.
func Normalise(rows []domain.DatasetRow) ([]domain.DatasetRow, domain.NormaliseReport) {
	out := MarkConflicts(Dedupe(rows))
	return out, Summarise(len(rows), out)
}

// Summarise counts merges and conflicts in normalised output.
func Summarise(input int, out []domain.DatasetRow) domain.NormaliseReport {
	report := domain.NormaliseReport{Input: input, Output: len(out)}
	sets := make(map[string]struct{})
	for i := range out {
		if len(out[i].MergedFrom) > 0 {
			report.Merged++
		}
		if out[i].ConflictSetID != "" {
			report.Conflicting++
			sets[out[i].ConflictSetID] = struct{}{}
		}
	}
	report.ConflictSets = len(sets)
	return report
}

package normalisers

import "github.com/custodia-labs/almanac/internal/core/domain"

// Weights maps a system to its multiplier.
type Weights map[domain.System]float64

// DefaultWeights returns the built-in multiplier for every known system.
func DefaultWeights() Weights {
	w := make(Weights, len(domain.AllSystems()))
	for _, s := range domain.AllSystems() {
		w[s] = s.DefaultWeight()
	}
	return w
}

// For returns the weight for a system, falling back to its default.
func (w Weights) For(s domain.System) float64 {
	if v, ok := w[s]; ok && v > 0 {
		return v
	}
	return s.DefaultWeight()
}

// Reweight sets weight_system on copies of rows from the current weights.
// Identity fields and merge/conflict annotations are untouched.
func Reweight(rows []domain.DatasetRow, weights Weights) []domain.DatasetRow {
	out := make([]domain.DatasetRow, len(rows))
	for i := range rows {
		out[i] = rows[i].Clone()
		out[i].WeightSystem = weights.For(out[i].System)
	}
	return out
}

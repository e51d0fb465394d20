package driving

import "github.com/custodia-labs/almanac/internal/core/domain"

// WeightsService manages user-adjustable per-system weights.
type WeightsService interface {
	// Weights returns the effective weight of every system.
	Weights() map[domain.System]float64

	// Set overrides the weight of one system. Weight must be positive.
	Set(system domain.System, weight float64) error

	// Reset restores the built-in weight of one system.
	Reset(system domain.System) error

	// Reapply returns copies of rows with weight_system taken from the
	// current weights.
	Reapply(rows []domain.DatasetRow) []domain.DatasetRow
}

package driving

import (
	"context"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// NormaliseService runs the configured row pipeline over a batch.
type NormaliseService interface {
	// Normalise validates rows, then dedupes and flags conflicts.
	// Validation failures are reported for every offending row.
	Normalise(ctx context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, domain.NormaliseReport, error)
}

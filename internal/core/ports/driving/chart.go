package driving

import (
	"context"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// ChartService computes ephemeris charts through the registered provider.
type ChartService interface {
	// Compute validates the query and returns positions for it.
	Compute(ctx context.Context, q domain.BirthQuery) (*domain.EphemerisResult, error)

	// ComputeBatch computes many queries concurrently. Results keep the
	// order of queries. The first failure cancels the remaining work.
	ComputeBatch(ctx context.Context, queries []domain.BirthQuery) ([]*domain.EphemerisResult, error)

	// Rows computes a chart and maps each body to a dataset row.
	Rows(ctx context.Context, personID string, q domain.BirthQuery) ([]domain.DatasetRow, error)
}

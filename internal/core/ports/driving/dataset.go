package driving

import (
	"context"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// DatasetService manages the append-only dataset.
type DatasetService interface {
	// Insert validates rows, stamps provenance and appends them.
	Insert(ctx context.Context, rows []domain.DatasetRow, provenance domain.Provenance) ([]domain.DatasetRecord, error)

	// List returns copies of rows matching the filter in insertion order.
	List(ctx context.Context, filter domain.RowFilter) ([]domain.DatasetRow, error)

	// Records returns copies of every stored record.
	Records(ctx context.Context) ([]domain.DatasetRecord, error)

	// Stats summarises rows matching the filter.
	Stats(ctx context.Context, filter domain.RowFilter) (*domain.DatasetStats, error)

	// Clear removes every record.
	Clear(ctx context.Context) error
}

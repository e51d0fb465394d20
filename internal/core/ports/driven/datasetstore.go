package driven

import (
	"context"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// DatasetStore is append-only record keeping for dataset rows.
// Concurrent appends must not lose writes and insertion order is kept.
type DatasetStore interface {
	// Append stores records atomically and returns them with Seq and
	// CreatedAt assigned.
	Append(ctx context.Context, records []domain.DatasetRecord) ([]domain.DatasetRecord, error)

	// Records returns copies of every record in insertion order.
	Records(ctx context.Context) ([]domain.DatasetRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Clear removes every record.
	Clear(ctx context.Context) error
}

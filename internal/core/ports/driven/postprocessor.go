package driven

import (
	"context"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// RowProcessor is one pass over a batch of dataset rows.
// Processors are chained in a pipeline (e.g., direction fill, dedupe, conflicts).
type RowProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process returns the transformed batch. Implementations must not
	// mutate the input slice.
	Process(ctx context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, error)
}

// RowPipeline chains multiple RowProcessors.
type RowPipeline interface {
	// Process runs the rows through all processors in order.
	Process(ctx context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, error)
}

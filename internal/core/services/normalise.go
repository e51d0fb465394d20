package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/core/ports/driving"
	"github.com/custodia-labs/almanac/internal/logger"
	"github.com/custodia-labs/almanac/internal/normalisers"
)

// Ensure NormaliseService implements the interface.
var _ driving.NormaliseService = (*NormaliseService)(nil)

// NormaliseService validates a batch and runs it through the row pipeline.
type NormaliseService struct {
	pipeline driven.RowPipeline
}

// NewNormaliseService creates a normalise service around pipeline.
func NewNormaliseService(pipeline driven.RowPipeline) *NormaliseService {
	return &NormaliseService{pipeline: pipeline}
}

// Normalise validates rows, then dedupes and flags conflicts.
func (s *NormaliseService) Normalise(ctx context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, domain.NormaliseReport, error) {
	if s.pipeline == nil {
		return nil, domain.NormaliseReport{}, errors.New("normalise pipeline not configured")
	}
	if err := ValidateRows(rows); err != nil {
		return nil, domain.NormaliseReport{}, err
	}

	logger.Section("Normalise")
	done := logger.Timed("normalise pipeline")
	out, err := s.pipeline.Process(ctx, rows)
	if err != nil {
		return nil, domain.NormaliseReport{}, fmt.Errorf("normalise: %w", err)
	}
	done()
	report := normalisers.Summarise(len(rows), out)
	logger.Debug("Rows in=%d out=%d merged=%d conflict_sets=%d",
		report.Input, report.Output, report.Merged, report.ConflictSets)
	return out, report, nil
}

// ValidateRows checks every row and reports all failures, each prefixed
// with the row index. Ids must be unique within the batch: the preferred
// row of a merge is only order-independent when they are.
func ValidateRows(rows []domain.DatasetRow) error {
	var errs []error
	seen := make(map[string]int, len(rows))
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i, err))
			continue
		}
		id := rows[i].ID
		if first, ok := seen[id]; ok {
			errs = append(errs, fmt.Errorf("row %d: %w", i, &domain.ValidationError{
				Field:   "id",
				Message: fmt.Sprintf("duplicate id %q (first at row %d)", id, first),
			}))
			continue
		}
		seen[id] = i
	}
	return errors.Join(errs...)
}

package postprocessors

import (
	"context"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/normalisers"
)

type directionPass struct{}

func (directionPass) Name() string { return DirectionProcessor }

func (directionPass) Process(_ context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, error) {
	out := make([]domain.DatasetRow, len(rows))
	for i := range rows {
		out[i] = rows[i].Clone()
		normalisers.FillDirection(&out[i])
	}
	return out, nil
}

type dedupePass struct{}

func (dedupePass) Name() string { return DedupeProcessor }

func (dedupePass) Process(_ context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, error) {
	return normalisers.Dedupe(rows), nil
}

type conflictsPass struct{}

func (conflictsPass) Name() string { return ConflictsProcessor }

func (conflictsPass) Process(_ context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, error) {
	return normalisers.MarkConflicts(rows), nil
}

type weightsPass struct {
	weights normalisers.Weights
}

func (p *weightsPass) Name() string { return WeightsProcessor }

func (p *weightsPass) Process(_ context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, error) {
	return normalisers.Reweight(rows, p.weights), nil
}

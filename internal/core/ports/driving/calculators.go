package driving

import (
	"context"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// CalculatorService dispatches to the registered calculator roles.
type CalculatorService interface {
	FlyingStars(ctx context.Context, in domain.FlyingStarsInput) ([]domain.FlyingStar, error)
	EightMansions(ctx context.Context, birthYear int, gender domain.Gender) (*domain.EightMansionsResult, error)
	BodyGraph(ctx context.Context, q domain.BirthQuery) (*domain.BodyGraph, error)
	GeneKeys(ctx context.Context, q domain.BirthQuery) (*domain.GeneKeysProfile, error)
	QMDJBoard(ctx context.Context, in domain.QMDJInput) (*domain.QMDJBoard, error)
}

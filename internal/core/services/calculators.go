package services

import (
	"context"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driving"
	"github.com/custodia-labs/almanac/internal/logger"
)

// Ensure CalculatorService implements the interface.
var _ driving.CalculatorService = (*CalculatorService)(nil)

// CalculatorService resolves each calculator role from the registry at
// call time, so re-registration takes effect immediately.
type CalculatorService struct {
	registry driving.ProviderRegistry
}

// NewCalculatorService creates a calculator service.
func NewCalculatorService(registry driving.ProviderRegistry) *CalculatorService {
	return &CalculatorService{registry: registry}
}

// FlyingStars computes a Flying Stars chart.
func (s *CalculatorService) FlyingStars(ctx context.Context, in domain.FlyingStarsInput) ([]domain.FlyingStar, error) {
	fs, err := s.registry.FengShui()
	if err != nil {
		return nil, err
	}
	logger.Debug("fs: flying stars period=%d facing=%.2f", in.Period, in.FacingDegrees)
	return fs.FlyingStars(ctx, in)
}

// EightMansions computes the life gua and its directions.
func (s *CalculatorService) EightMansions(ctx context.Context, birthYear int, gender domain.Gender) (*domain.EightMansionsResult, error) {
	fs, err := s.registry.FengShui()
	if err != nil {
		return nil, err
	}
	return fs.EightMansions(ctx, birthYear, gender)
}

// BodyGraph computes a Human Design chart.
func (s *CalculatorService) BodyGraph(ctx context.Context, q domain.BirthQuery) (*domain.BodyGraph, error) {
	hd, err := s.registry.HumanDesign()
	if err != nil {
		return nil, err
	}
	return hd.BodyGraph(ctx, q)
}

// GeneKeys computes a hologenetic profile.
func (s *CalculatorService) GeneKeys(ctx context.Context, q domain.BirthQuery) (*domain.GeneKeysProfile, error) {
	gk, err := s.registry.GeneKeys()
	if err != nil {
		return nil, err
	}
	return gk.Profile(ctx, q)
}

// QMDJBoard casts a Qi Men Dun Jia board.
func (s *CalculatorService) QMDJBoard(ctx context.Context, in domain.QMDJInput) (*domain.QMDJBoard, error) {
	qmdj, err := s.registry.QMDJ()
	if err != nil {
		return nil, err
	}
	return qmdj.Board(ctx, in)
}

package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/core/ports/driving"
	"github.com/custodia-labs/almanac/internal/normalisers"
)

// Ensure WeightsService implements the interface.
var _ driving.WeightsService = (*WeightsService)(nil)

const weightsKeyPrefix = "weights."

// WeightsService manages per-system weights persisted in the config store.
type WeightsService struct {
	configStore driven.ConfigStore
}

// NewWeightsService creates a weights service.
func NewWeightsService(configStore driven.ConfigStore) *WeightsService {
	return &WeightsService{configStore: configStore}
}

func weightsKey(system domain.System) string {
	return weightsKeyPrefix + system.String()
}

// Weights returns the effective weight of every system. Stored values
// that are not positive are ignored.
func (s *WeightsService) Weights() map[domain.System]float64 {
	weights := normalisers.DefaultWeights()
	if s.configStore == nil {
		return weights
	}
	for _, system := range domain.AllSystems() {
		if w := s.configStore.GetFloat(weightsKey(system)); w > 0 && !math.IsInf(w, 0) {
			weights[system] = w
		}
	}
	return weights
}

// Set overrides the weight of one system and persists it.
func (s *WeightsService) Set(system domain.System, weight float64) error {
	if !system.IsValid() {
		return &domain.ValidationError{Field: "system", Message: fmt.Sprintf("unknown system %q", system)}
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return &domain.ValidationError{Field: "weight", Message: "weight must be a finite positive number"}
	}
	if s.configStore == nil {
		return fmt.Errorf("config store not configured")
	}
	if err := s.configStore.Set(weightsKey(system), weight); err != nil {
		return fmt.Errorf("failed to set weight: %w", err)
	}
	return s.configStore.Save()
}

// Reset restores the built-in weight of one system.
func (s *WeightsService) Reset(system domain.System) error {
	if !system.IsValid() {
		return &domain.ValidationError{Field: "system", Message: fmt.Sprintf("unknown system %q", system)}
	}
	if s.configStore == nil {
		return fmt.Errorf("config store not configured")
	}
	if err := s.configStore.Delete(weightsKey(system)); err != nil {
		return fmt.Errorf("failed to reset weight: %w", err)
	}
	return s.configStore.Save()
}

// Reapply returns copies of rows with weight_system from the current weights.
func (s *WeightsService) Reapply(rows []domain.DatasetRow) []domain.DatasetRow {
	return normalisers.Reweight(rows, s.Weights())
}

package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/normalisers"
)

// Processor names.
const (
	DirectionProcessor = "direction"
	DedupeProcessor    = "dedupe"
	ConflictsProcessor = "conflicts"
	WeightsProcessor   = "weights"
)

// DefaultOrder is the normalisation pipeline: merge, then flag conflicts.
var DefaultOrder = []string{DedupeProcessor, ConflictsProcessor}

// RegisterDefaults registers the built-in passes.
func RegisterDefaults(r *Registry) {
	r.Register(DirectionProcessor, func(map[string]any) (driven.RowProcessor, error) {
		return directionPass{}, nil
	})
	r.Register(DedupeProcessor, func(map[string]any) (driven.RowProcessor, error) {
		return dedupePass{}, nil
	})
	r.Register(ConflictsProcessor, func(map[string]any) (driven.RowProcessor, error) {
		return conflictsPass{}, nil
	})
	r.Register(WeightsProcessor, buildWeights)
}

// buildWeights creates a weights processor from generic config.
// Each key is a system name and each value its weight; unlisted systems
// keep their built-in weight.
func buildWeights(cfg map[string]any) (driven.RowProcessor, error) {
	weights := normalisers.DefaultWeights()
	for key := range cfg {
		system := domain.System(key)
		if !system.IsValid() {
			return nil, fmt.Errorf("weights: unknown system %q", key)
		}
		w, ok := driven.SettingFloat(cfg[key])
		if !ok || w <= 0 {
			return nil, fmt.Errorf("weights: %s must be positive", key)
		}
		weights[system] = w
	}
	return &weightsPass{weights: weights}, nil
}

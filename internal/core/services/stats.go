package services

import (
	"math"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// ComputeStats summarises rows. UnknownShare is a percentage and the
// strength-weighted average is zero when no row carries strength.
func ComputeStats(rows []domain.DatasetRow) domain.DatasetStats {
	stats := domain.DatasetStats{TotalRows: len(rows)}
	if len(rows) == 0 {
		return stats
	}

	systems := make(map[domain.System]struct{})
	var unknown int
	var numerator, denominator float64
	for i := range rows {
		r := &rows[i]
		systems[r.System] = struct{}{}
		if r.IsUnknown() {
			unknown++
		}
		if r.ConflictSetID != "" {
			stats.ConflictCount++
		}
		strength := float64(r.Strength)
		numerator += strength * r.WeightSystem * r.Confidence
		denominator += r.WeightSystem * math.Abs(strength)
	}

	stats.SystemCount = len(systems)
	stats.UnknownShare = float64(unknown) / float64(len(rows)) * 100
	if denominator != 0 {
		stats.StrengthWeightedAverage = numerator / denominator
	}
	return stats
}

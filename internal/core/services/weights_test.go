package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/almanac/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/almanac/internal/core/domain"
)

func TestWeightsService_Defaults(t *testing.T) {
	service := NewWeightsService(memory.NewConfigStore())

	weights := service.Weights()

	assert.Len(t, weights, len(domain.AllSystems()))
	assert.InDelta(t, 1.0, weights[domain.SystemWA], 1e-9)
	assert.InDelta(t, 0.6, weights[domain.SystemHD], 1e-9)
	assert.InDelta(t, 0.5, weights[domain.SystemGK], 1e-9)
}

func TestWeightsService_SetAndReset(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewWeightsService(store)

	require.NoError(t, service.Set(domain.SystemHD, 0.9))
	assert.InDelta(t, 0.9, service.Weights()[domain.SystemHD], 1e-9)
	assert.InDelta(t, 0.9, store.GetFloat("weights.HD"), 1e-9)

	require.NoError(t, service.Reset(domain.SystemHD))
	assert.InDelta(t, 0.6, service.Weights()[domain.SystemHD], 1e-9)
	_, exists := store.Get("weights.HD")
	assert.False(t, exists)
}

func TestWeightsService_IgnoresBadStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("weights.GK", -3))
	require.NoError(t, store.Set("weights.WA", "heavy"))
	require.NoError(t, store.Set("weights.BaZi", 2))
	service := NewWeightsService(store)

	weights := service.Weights()

	assert.InDelta(t, 0.5, weights[domain.SystemGK], 1e-9)
	assert.InDelta(t, 1.0, weights[domain.SystemWA], 1e-9)
	assert.InDelta(t, 2.0, weights[domain.SystemBaZi], 1e-9)
}

func TestWeightsService_Set_Errors(t *testing.T) {
	service := NewWeightsService(memory.NewConfigStore())

	tests := []struct {
		name   string
		system domain.System
		weight float64
	}{
		{"unknown system", "Astrology", 1},
		{"zero", domain.SystemWA, 0},
		{"negative", domain.SystemWA, -1},
		{"nan", domain.SystemWA, math.NaN()},
		{"infinite", domain.SystemWA, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, service.Set(tt.system, tt.weight), domain.ErrInvalidInput)
		})
	}

	assert.ErrorIs(t, service.Reset("Astrology"), domain.ErrInvalidInput)
}

func TestWeightsService_NilStore(t *testing.T) {
	service := NewWeightsService(nil)

	assert.InDelta(t, 0.6, service.Weights()[domain.SystemHD], 1e-9)
	assert.Error(t, service.Set(domain.SystemHD, 1))
	assert.Error(t, service.Reset(domain.SystemHD))
}

func TestWeightsService_Reapply(t *testing.T) {
	service := NewWeightsService(memory.NewConfigStore())
	require.NoError(t, service.Set(domain.SystemWA, 1.5))

	row := testRow("a")
	row.MergedFrom = []string{"a", "b"}
	hd := testRow("b")
	hd.System = domain.SystemHD

	out := service.Reapply([]domain.DatasetRow{row, hd})

	require.Len(t, out, 2)
	assert.InDelta(t, 1.5, out[0].WeightSystem, 1e-9)
	assert.InDelta(t, 0.6, out[1].WeightSystem, 1e-9)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, []string{"a", "b"}, out[0].MergedFrom)
	assert.InDelta(t, 1.0, row.WeightSystem, 1e-9)
}

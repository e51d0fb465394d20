package mcp

import (
	"context"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// mockChartService is a mock implementation of driving.ChartService.
type mockChartService struct {
	result    *domain.EphemerisResult
	rows      []domain.DatasetRow
	err       error
	lastQuery domain.BirthQuery
	lastID    string
}

func (m *mockChartService) Compute(_ context.Context, q domain.BirthQuery) (*domain.EphemerisResult, error) {
	m.lastQuery = q
	return m.result, m.err
}

func (m *mockChartService) ComputeBatch(_ context.Context, queries []domain.BirthQuery) ([]*domain.EphemerisResult, error) {
	out := make([]*domain.EphemerisResult, len(queries))
	for i := range queries {
		out[i] = m.result
	}
	return out, m.err
}

func (m *mockChartService) Rows(_ context.Context, personID string, q domain.BirthQuery) ([]domain.DatasetRow, error) {
	m.lastQuery = q
	m.lastID = personID
	return m.rows, m.err
}

// mockNormaliseService is a mock implementation of driving.NormaliseService.
type mockNormaliseService struct {
	rows   []domain.DatasetRow
	report domain.NormaliseReport
	err    error
	input  []domain.DatasetRow
}

func (m *mockNormaliseService) Normalise(_ context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, domain.NormaliseReport, error) {
	m.input = rows
	return m.rows, m.report, m.err
}

// mockDatasetService is a mock implementation of driving.DatasetService.
type mockDatasetService struct {
	rows       []domain.DatasetRow
	stats      *domain.DatasetStats
	err        error
	lastFilter domain.RowFilter
}

func (m *mockDatasetService) Insert(_ context.Context, _ []domain.DatasetRow, _ domain.Provenance) ([]domain.DatasetRecord, error) {
	return nil, m.err
}

func (m *mockDatasetService) List(_ context.Context, filter domain.RowFilter) ([]domain.DatasetRow, error) {
	m.lastFilter = filter
	return m.rows, m.err
}

func (m *mockDatasetService) Records(_ context.Context) ([]domain.DatasetRecord, error) {
	return nil, m.err
}

func (m *mockDatasetService) Stats(_ context.Context, filter domain.RowFilter) (*domain.DatasetStats, error) {
	m.lastFilter = filter
	return m.stats, m.err
}

func (m *mockDatasetService) Clear(_ context.Context) error {
	return m.err
}

func testRow(id string, system domain.System) domain.DatasetRow {
	return domain.DatasetRow{
		ID:           id,
		PersonID:     "p1",
		System:       system,
		DataPoint:    "Sun",
		VerbatimText: "Sun @ 84.12° (house 10)",
		Category:     domain.CategoryGuidance,
		Polarity:     domain.PolarityNeutral,
		Confidence:   0.85,
		WeightSystem: 1,
	}
}

package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/services"
	"github.com/custodia-labs/almanac/internal/providers/fengshui"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Registry == nil {
		ports.Registry = services.NewProviderRegistry()
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestChartInput_Query(t *testing.T) {
	input := ChartInput{
		Date:        "1990-06-15",
		Time:        "14:30",
		Timezone:    "Europe/London",
		Latitude:    51.5,
		Longitude:   -0.12,
		Zodiac:      " Sidereal ",
		HouseSystem: "w",
		Ayanamsa:    "lahiri",
	}

	q := input.Query()

	assert.Equal(t, "1990-06-15", q.Date)
	assert.Equal(t, "14:30", q.Time)
	assert.Equal(t, "Europe/London", q.Timezone)
	assert.Equal(t, domain.Coordinates{Latitude: 51.5, Longitude: -0.12}, q.Coordinates)
	assert.Equal(t, domain.ZodiacSidereal, q.Options.Zodiac)
	assert.Equal(t, "W", q.Options.HouseSystem)
	assert.Equal(t, "lahiri", q.Options.Ayanamsa)
}

func TestServer_handleComputeChart(t *testing.T) {
	ctx := context.Background()

	t.Run("returns positions", func(t *testing.T) {
		chart := &mockChartService{result: &domain.EphemerisResult{
			Bodies:   []domain.CelestialBody{{ID: "sun", Name: "Sun", Longitude: 84.12, House: 10}},
			Metadata: domain.EphemerisMetadata{Provider: "analytic", Engine: domain.EngineAnalytic},
		}}
		server := newTestServer(t, &Ports{Chart: chart})

		_, output, err := server.handleComputeChart(ctx, nil, ChartInput{
			Date: "1990-06-15", Time: "14:30", Timezone: "Europe/London", Latitude: 51.5, Longitude: -0.12,
		})

		require.NoError(t, err)
		require.NotNil(t, output.Chart)
		assert.Nil(t, output.Rows)
		assert.Equal(t, "Sun", output.Chart.Bodies[0].Name)
		assert.Equal(t, "Europe/London", chart.lastQuery.Timezone)
	})

	t.Run("returns rows when requested", func(t *testing.T) {
		chart := &mockChartService{rows: []domain.DatasetRow{testRow("r1", domain.SystemWA)}}
		server := newTestServer(t, &Ports{Chart: chart})

		_, output, err := server.handleComputeChart(ctx, nil, ChartInput{
			Date: "1990-06-15", Timezone: "UTC", Rows: true, PersonID: "p1",
		})

		require.NoError(t, err)
		assert.Nil(t, output.Chart)
		require.Len(t, output.Rows, 1)
		assert.Equal(t, "r1", output.Rows[0].ID)
		assert.Equal(t, "p1", chart.lastID)
	})

	t.Run("returns error on chart failure", func(t *testing.T) {
		chart := &mockChartService{err: &domain.ValidationError{Field: "latitude", Message: "latitude must be within [-90, 90]"}}
		server := newTestServer(t, &Ports{Chart: chart})

		_, _, err := server.handleComputeChart(ctx, nil, ChartInput{Date: "1990-06-15", Timezone: "UTC", Latitude: 91})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleNormaliseRows(t *testing.T) {
	ctx := context.Background()

	t.Run("returns rows and report", func(t *testing.T) {
		normalise := &mockNormaliseService{
			rows:   []domain.DatasetRow{testRow("r1", domain.SystemWA)},
			report: domain.NormaliseReport{Input: 2, Output: 1, Merged: 1},
		}
		server := newTestServer(t, &Ports{Chart: &mockChartService{}, Normalise: normalise})
		input := []domain.DatasetRow{testRow("r1", domain.SystemWA), testRow("r2", domain.SystemWA)}

		_, output, err := server.handleNormaliseRows(ctx, nil, NormaliseInput{Rows: input})

		require.NoError(t, err)
		assert.Len(t, normalise.input, 2)
		assert.Len(t, output.Rows, 1)
		assert.Equal(t, domain.NormaliseReport{Input: 2, Output: 1, Merged: 1}, output.Report)
	})

	t.Run("empty result is an empty list", func(t *testing.T) {
		server := newTestServer(t, &Ports{Chart: &mockChartService{}, Normalise: &mockNormaliseService{}})

		_, output, err := server.handleNormaliseRows(ctx, nil, NormaliseInput{})

		require.NoError(t, err)
		assert.NotNil(t, output.Rows)
		assert.Empty(t, output.Rows)
	})

	t.Run("missing service returns error", func(t *testing.T) {
		server := newTestServer(t, &Ports{Chart: &mockChartService{}})

		_, _, err := server.handleNormaliseRows(ctx, nil, NormaliseInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})

	t.Run("returns error on validation failure", func(t *testing.T) {
		normalise := &mockNormaliseService{err: errors.New("row 0: confidence out of range")}
		server := newTestServer(t, &Ports{Chart: &mockChartService{}, Normalise: normalise})

		_, _, err := server.handleNormaliseRows(ctx, nil, NormaliseInput{Rows: []domain.DatasetRow{{}}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 0")
	})
}

func TestServer_handleProviderStatus(t *testing.T) {
	registry := services.NewProviderRegistry()
	require.NoError(t, registry.Register(domain.ProviderFS, fengshui.New()))
	server := newTestServer(t, &Ports{Chart: &mockChartService{}, Registry: registry})

	_, output, err := server.handleProviderStatus(context.Background(), nil, ProviderStatusInput{})

	require.NoError(t, err)
	require.Len(t, output.Providers, len(domain.AllProviderKeys()))
	assert.Equal(t, len(domain.AllProviderKeys())-1, output.Missing)
	for _, st := range output.Providers {
		if st.Key == domain.ProviderFS {
			assert.True(t, st.Registered)
			assert.Empty(t, st.ErrorHint)
		} else {
			assert.False(t, st.Registered)
			assert.NotEmpty(t, st.ErrorHint)
		}
	}
}

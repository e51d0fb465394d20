package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

// mockEphemeris returns one body per call at a fixed longitude.
type mockEphemeris struct {
	longitude float64
	err       error
	failOn    string
	delay     time.Duration
	calls     atomic.Int32
}

func (m *mockEphemeris) Name() string { return "mock" }

func (m *mockEphemeris) Positions(ctx context.Context, instant time.Time, coords domain.Coordinates, opts domain.EphemerisOptions) (*domain.EphemerisResult, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.failOn != "" && instant.UTC().Format("2006-01-02") == m.failOn {
		return nil, &domain.ComputationError{Provider: "mock", Err: errors.New("boom")}
	}
	return &domain.EphemerisResult{
		Bodies: []domain.CelestialBody{
			{ID: "sun", Name: "Sun", Longitude: m.longitude, House: 4},
			{ID: "moon", Name: "Moon", Longitude: 359.7, House: 12},
		},
		Metadata: domain.EphemerisMetadata{
			Provider:  "mock",
			Options:   opts,
			Timestamp: instant.UTC().Format(time.RFC3339),
			Location:  domain.Location{Latitude: coords.Latitude, Longitude: coords.Longitude},
		},
	}, nil
}

// mockFengShui records the inputs it was called with.
type mockFengShui struct {
	lastPeriod int
}

func (m *mockFengShui) FlyingStars(_ context.Context, in domain.FlyingStarsInput) ([]domain.FlyingStar, error) {
	m.lastPeriod = in.Period
	return []domain.FlyingStar{{Palace: "Centre", Star: in.Period}}, nil
}

func (m *mockFengShui) EightMansions(_ context.Context, _ int, _ domain.Gender) (*domain.EightMansionsResult, error) {
	return &domain.EightMansionsResult{MingGua: "1"}, nil
}

// mockPublisher collects published events.
type mockPublisher struct {
	mu     sync.Mutex
	events []driven.DatasetEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event driven.DatasetEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// mockDatasetStore fails every operation with err.
type mockDatasetStore struct {
	err error
}

func (m *mockDatasetStore) Append(context.Context, []domain.DatasetRecord) ([]domain.DatasetRecord, error) {
	return nil, m.err
}

func (m *mockDatasetStore) Records(context.Context) ([]domain.DatasetRecord, error) {
	return nil, m.err
}

func (m *mockDatasetStore) Count(context.Context) (int, error) { return 0, m.err }

func (m *mockDatasetStore) Clear(context.Context) error { return m.err }

// mockPipeline returns its input unchanged or fails.
type mockPipeline struct {
	err   error
	calls int
}

func (m *mockPipeline) Process(_ context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return rows, nil
}

func testQuery() domain.BirthQuery {
	return domain.BirthQuery{
		Date:        "1990-06-15",
		Time:        "14:30",
		Timezone:    "Europe/London",
		Coordinates: domain.Coordinates{Latitude: 51.5, Longitude: -0.12},
	}
}

func testRow(id string) domain.DatasetRow {
	return domain.DatasetRow{
		ID:                 id,
		PersonID:           "p1",
		BirthDatetimeLocal: "1990-06-15T14:30",
		BirthTimezone:      "Europe/London",
		System:             domain.SystemWA,
		Subsystem:          "Tropical · P",
		DataPoint:          "Sun",
		VerbatimText:       "Sun in Gemini",
		Category:           domain.CategoryPersonality,
		Polarity:           domain.PolarityNeutral,
		Confidence:         0.8,
		WeightSystem:       1,
	}
}

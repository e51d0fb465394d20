package genekeys

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/providers/ephemeris/analytic"
)

// sunClock places the Sun at a longitude derived from the request instant.
type sunClock struct {
	birth    time.Time
	atBirth  float64
	atDesign float64
	noSun    bool
	err      error
	calls    []time.Time
}

func (s *sunClock) Name() string { return "sun-clock" }

func (s *sunClock) Positions(_ context.Context, instant time.Time, _ domain.Coordinates, opts domain.EphemerisOptions) (*domain.EphemerisResult, error) {
	s.calls = append(s.calls, instant)
	if s.err != nil {
		return nil, s.err
	}
	if opts.Zodiac != domain.ZodiacTropical {
		return nil, errors.New("expected tropical request")
	}
	res := &domain.EphemerisResult{Metadata: domain.EphemerisMetadata{Provider: s.Name()}}
	if s.noSun {
		return res, nil
	}
	lon := s.atDesign
	if instant.Equal(s.birth) {
		lon = s.atBirth
	}
	res.Bodies = []domain.CelestialBody{{ID: "sun", Longitude: lon}}
	return res, nil
}

func testQuery() domain.BirthQuery {
	return domain.BirthQuery{
		Date:        "1985-03-21",
		Time:        "12:00",
		Timezone:    "UTC",
		Coordinates: domain.Coordinates{Latitude: 51.5, Longitude: -0.12},
	}
}

func TestProfile_Spheres(t *testing.T) {
	birth := time.Date(1985, 3, 21, 12, 0, 0, 0, time.UTC)
	eph := &sunClock{birth: birth, atBirth: 23, atDesign: 112}

	profile, err := New(eph).Profile(context.Background(), testQuery())
	require.NoError(t, err)

	want := []domain.GeneKeySphere{
		{Name: SphereLifesWork, GeneKey: 5, Line: 1},
		{Name: SphereEvolution, GeneKey: 37, Line: 1},
		{Name: SphereRadiance, GeneKey: 20, Line: 6},
		{Name: SpherePurpose, GeneKey: 52, Line: 6},
	}
	assert.Equal(t, want, profile.Spheres)

	require.Len(t, eph.calls, 2)
	assert.True(t, eph.calls[0].Equal(birth))
	assert.Equal(t, DesignOffset, eph.calls[0].Sub(eph.calls[1]))
}

func TestProfile_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no ephemeris", func(t *testing.T) {
		_, err := New(nil).Profile(ctx, testQuery())
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	})

	t.Run("invalid date", func(t *testing.T) {
		q := testQuery()
		q.Date = "1985-13-40"
		_, err := New(&sunClock{}).Profile(ctx, q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("ephemeris failure", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := New(&sunClock{err: boom}).Profile(ctx, testQuery())
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "personality sun")
	})

	t.Run("missing sun", func(t *testing.T) {
		_, err := New(&sunClock{noSun: true}).Profile(ctx, testQuery())
		assert.ErrorIs(t, err, domain.ErrComputationFailure)
	})
}

func TestProfile_WithAnalyticEngine(t *testing.T) {
	profile, err := New(analytic.New()).Profile(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, profile.Spheres, 4)

	// Near the March equinox the Sun sits at the start of the zodiac,
	// in the first or last gate.
	first := profile.Spheres[0]
	assert.Contains(t, []int{1, 64}, first.GeneKey)

	// Evolution is opposite Life's Work.
	assert.Contains(t, []int{32, 33}, profile.Spheres[1].GeneKey)
}

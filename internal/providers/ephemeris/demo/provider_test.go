package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/almanac/internal/astro"
	"github.com/custodia-labs/almanac/internal/core/domain"
)

func TestPositions_Deterministic(t *testing.T) {
	instant := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	coords := domain.Coordinates{Latitude: 51.5, Longitude: -0.12}

	first, err := New().Positions(context.Background(), instant, coords, domain.EphemerisOptions{})
	require.NoError(t, err)
	second, err := New().Positions(context.Background(), instant.In(time.FixedZone("X", 3600)), coords, domain.EphemerisOptions{})
	require.NoError(t, err)

	assert.Equal(t, first.Bodies, second.Bodies)
	assert.Len(t, first.Bodies, 10)
	assert.Len(t, first.Houses, 12)
	assert.Equal(t, domain.EngineDemo, first.Metadata.Engine)
	assert.Equal(t, Name, first.Metadata.Provider)
}

func TestPositions_Formula(t *testing.T) {
	instant := time.Unix(0, 0).Add(10 * 24 * time.Hour)
	coords := domain.Coordinates{Latitude: 0, Longitude: 20}

	res, err := New().Positions(context.Background(), instant, coords, domain.EphemerisOptions{})
	require.NoError(t, err)

	// Sun: 10 days * 13.176358 + 10 = 141.76358.
	assert.Equal(t, 141.76, res.Bodies[0].Longitude)
	asc, _ := res.Angle(domain.AngleAscendant)
	assert.Equal(t, 110.0, asc.Longitude)
	mc, _ := res.Angle(domain.AngleMidheaven)
	assert.Equal(t, 200.0, mc.Longitude)
}

func TestPositions_RetrogradeMatchesSpeed(t *testing.T) {
	res, err := New().Positions(context.Background(), time.Now(), domain.Coordinates{Longitude: 10}, domain.EphemerisOptions{})
	require.NoError(t, err)

	for i, b := range res.Bodies {
		assert.Equal(t, i%3 == 0, b.Retrograde, b.ID)
		assert.Equal(t, b.LongitudeSpeed < 0, b.Retrograde, b.ID)
		assert.GreaterOrEqual(t, b.Longitude, 0.0)
		assert.Less(t, b.Longitude, 360.0)
		assert.Equal(t, astro.HouseOf(b.Longitude, res.Houses[0].Cusp), b.House)
	}
}

func TestPositions_SiderealShiftsEverything(t *testing.T) {
	instant := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	coords := domain.Coordinates{Longitude: 45}

	trop, err := New().Positions(context.Background(), instant, coords, domain.EphemerisOptions{})
	require.NoError(t, err)
	sid, err := New().Positions(context.Background(), instant, coords, domain.EphemerisOptions{Zodiac: domain.ZodiacSidereal, Ayanamsa: "Lahiri"})
	require.NoError(t, err)

	offset := astro.AyanamsaOffset("lahiri", instant)
	for i := range trop.Bodies {
		diff := astro.Wrap180(trop.Bodies[i].Longitude - sid.Bodies[i].Longitude - offset)
		assert.InDelta(t, 0, diff, 0.011)
	}
	ascT, _ := trop.Angle(domain.AngleAscendant)
	ascS, _ := sid.Angle(domain.AngleAscendant)
	assert.InDelta(t, 0, astro.Wrap180(ascT.Longitude-ascS.Longitude-offset), 0.011)
	assert.Equal(t, "lahiri", sid.Metadata.Options.Ayanamsa)
}

func TestPositions_InvalidInput(t *testing.T) {
	_, err := New().Positions(context.Background(), time.Now(), domain.Coordinates{Latitude: 120}, domain.EphemerisOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Package demo implements a deterministic pseudo-ephemeris for development
// and UI work. Its longitudes are a pure function of the UTC timestamp and
// the geographic longitude and are not physically meaningful. It must not
// be installed in production.
package demo

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/custodia-labs/almanac/internal/astro"
	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/providers/ephemeris"
)

const (
	// Name identifies the provider in result metadata.
	Name = "demo-ephemeris"

	// Version is reported in result metadata.
	Version = "demo"

	// synodicStep drives each body's pseudo progression per day.
	synodicStep = 13.176358
)

var planets = []string{
	"Sun", "Moon", "Mercury", "Venus", "Mars",
	"Jupiter", "Saturn", "Uranus", "Neptune", "Pluto",
}

// Provider is the demo ephemeris engine.
type Provider struct{}

var _ driven.EphemerisProvider = (*Provider)(nil)

// New creates a demo provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return Name }

// Positions returns reproducible pseudo-positions. Every third body moves
// backwards and is flagged retrograde.
func (p *Provider) Positions(ctx context.Context, instant time.Time, coords domain.Coordinates, opts domain.EphemerisOptions) (*domain.EphemerisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := ephemeris.NewRequest(instant, coords, opts)
	if err != nil {
		return nil, err
	}

	days := float64(req.Instant.UnixMilli()) / float64(24*time.Hour/time.Millisecond)
	asc := ephemeris.RoundTo(req.Frame(coords.Longitude+90), 2)
	mc := ephemeris.RoundTo(req.Frame(coords.Longitude+180), 2)

	result := &domain.EphemerisResult{
		Bodies:   make([]domain.CelestialBody, len(planets)),
		Houses:   ephemeris.EqualHouses(asc),
		Angles:   ephemeris.CardinalAngles(asc, mc),
		Metadata: req.Metadata(Name, Version, domain.EngineDemo, 0),
	}
	for i := range result.Houses {
		result.Houses[i].Cusp = ephemeris.RoundTo(result.Houses[i].Cusp, 2)
	}

	for i, name := range planets {
		drift := float64(i+1) * synodicStep
		lon := ephemeris.RoundTo(req.Frame(days*drift+coords.Longitude*0.5), 2)
		if lon >= 360 {
			lon = 0
		}
		speed := ephemeris.RoundTo(math.Mod(drift, 360), 4)
		if i%3 == 0 {
			speed = -speed
		}
		result.Bodies[i] = domain.CelestialBody{
			ID:             strings.ToLower(name),
			Name:           name,
			Longitude:      lon,
			Distance:       1,
			LongitudeSpeed: speed,
			House:          astro.HouseOf(lon, asc),
			Retrograde:     speed < 0,
		}
	}
	return result, nil
}

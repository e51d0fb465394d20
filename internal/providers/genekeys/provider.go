// Package genekeys computes the activation sequence of a Gene Keys
// hologenetic profile from personality and design Sun positions.
package genekeys

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/providers/humandesign"
)

// Ensure Provider implements the interface.
var _ driven.GeneKeysProvider = (*Provider)(nil)

// DesignOffset is how far before birth the design chart is cast.
const DesignOffset = 88 * 24 * time.Hour

// Sphere names of the activation sequence.
const (
	SphereLifesWork = "Life's Work"
	SphereEvolution = "Evolution"
	SphereRadiance  = "Radiance"
	SpherePurpose   = "Purpose"
)

// Provider computes Gene Keys profiles.
type Provider struct {
	ephemeris driven.EphemerisProvider
}

// New creates a Gene Keys provider backed by an ephemeris provider.
func New(eph driven.EphemerisProvider) *Provider {
	return &Provider{ephemeris: eph}
}

// Profile returns the four spheres of the activation sequence.
func (p *Provider) Profile(ctx context.Context, q domain.BirthQuery) (*domain.GeneKeysProfile, error) {
	if p.ephemeris == nil {
		info := domain.ProviderInfoFor(domain.ProviderEphemeris)
		return nil, &domain.ProviderUnavailableError{Key: domain.ProviderEphemeris, Hint: info.Hint}
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	birth, err := q.Instant()
	if err != nil {
		return nil, err
	}

	personality, err := p.sunLongitude(ctx, birth, q)
	if err != nil {
		return nil, fmt.Errorf("personality sun: %w", err)
	}
	design, err := p.sunLongitude(ctx, birth.Add(-DesignOffset), q)
	if err != nil {
		return nil, fmt.Errorf("design sun: %w", err)
	}

	return &domain.GeneKeysProfile{
		Spheres: []domain.GeneKeySphere{
			sphere(SphereLifesWork, personality),
			sphere(SphereEvolution, personality+180),
			sphere(SphereRadiance, design),
			sphere(SpherePurpose, design+180),
		},
	}, nil
}

func (p *Provider) sunLongitude(ctx context.Context, instant time.Time, q domain.BirthQuery) (float64, error) {
	res, err := p.ephemeris.Positions(ctx, instant, q.Coordinates, domain.EphemerisOptions{
		Zodiac:      domain.ZodiacTropical,
		HouseSystem: q.Options.WithDefaults().HouseSystem,
	})
	if err != nil {
		return 0, err
	}
	sun, ok := res.Body("sun")
	if !ok {
		return 0, &domain.ComputationError{Provider: res.Metadata.Provider, Body: "sun", Err: domain.ErrNotFound}
	}
	return sun.Longitude, nil
}

func sphere(name string, longitude float64) domain.GeneKeySphere {
	key, line := humandesign.GateLine(longitude)
	return domain.GeneKeySphere{Name: name, GeneKey: key, Line: line}
}

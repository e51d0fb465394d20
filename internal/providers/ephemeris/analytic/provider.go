// Package analytic implements an ephemeris provider from closed-form
// approximations: Keplerian planetary elements, a truncated lunar theory
// and spherical-trigonometry angles. It needs no data files.
//
// Accuracy is about one arcminute for the Sun, Moon and inner planets and
// about ten arcminutes for the outer planets, Jupiter and Saturn being the
// worst since their mutual perturbations are ignored. Daily motion is a one-day forward
// difference and is coarse near retrograde stations.
package analytic

import (
	"context"
	"time"

	"github.com/custodia-labs/almanac/internal/astro"
	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/providers/ephemeris"
)

const (
	// Name identifies the provider in result metadata.
	Name = "analytic"

	// Version of the analytic model.
	Version = "1.0.0"

	// HouseSystem is the only house system this engine derives.
	HouseSystem = "E"

	// lightTimePerAU is the light travel time over one AU, in days.
	lightTimePerAU = 0.0057755183

	// aberrationConstant is the annual aberration in degrees at 1 AU.
	aberrationConstant = 20.4898 / 3600
)

type body struct {
	id, name string
	orbit    *orbit
}

var bodies = []body{
	{"sun", "Sun", nil},
	{"moon", "Moon", nil},
	{"mercury", "Mercury", &mercury},
	{"venus", "Venus", &venus},
	{"mars", "Mars", &mars},
	{"jupiter", "Jupiter", &jupiter},
	{"saturn", "Saturn", &saturn},
	{"uranus", "Uranus", &uranus},
	{"neptune", "Neptune", &neptune},
	{"pluto", "Pluto", &pluto},
	{"mean_node", "Mean Node", nil},
}

// Provider is the analytic ephemeris engine. It holds no mutable state and
// is safe for concurrent use.
type Provider struct{}

var _ driven.EphemerisProvider = (*Provider)(nil)

// New creates an analytic provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return Name }

// Positions computes bodies, equal houses from the Ascendant and the four
// cardinal angles. Sidereal requests subtract the resolved ayanamsa from
// every longitude.
func (p *Provider) Positions(ctx context.Context, instant time.Time, coords domain.Coordinates, opts domain.EphemerisOptions) (*domain.EphemerisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := ephemeris.NewRequest(instant, coords, opts)
	if err != nil {
		return nil, err
	}
	req.Options.HouseSystem = HouseSystem

	in := astro.NewInstant(req.Instant)
	angles, err := solveAngles(in, req.Coords)
	if err != nil {
		return nil, &domain.ComputationError{
			Provider:    Name,
			HouseSystem: HouseSystem,
			Latitude:    req.Coords.Latitude,
			Err:         err,
		}
	}
	asc := req.Frame(angles.Ascendant)
	mc := req.Frame(angles.Midheaven)

	now := positionsAt(in)
	next := positionsAt(in.AddDays(1))

	result := &domain.EphemerisResult{
		Bodies:   make([]domain.CelestialBody, len(bodies)),
		Houses:   ephemeris.EqualHouses(asc),
		Angles:   ephemeris.CardinalAngles(asc, mc),
		Metadata: req.Metadata(Name, Version, domain.EngineAnalytic, 0),
	}
	for i, b := range bodies {
		lon := req.Frame(now[i].lon)
		speed := astro.Wrap180(next[i].lon - now[i].lon)
		result.Bodies[i] = domain.CelestialBody{
			ID:             b.id,
			Name:           b.name,
			Longitude:      lon,
			Latitude:       now[i].lat,
			Distance:       now[i].dist,
			LongitudeSpeed: speed,
			LatitudeSpeed:  next[i].lat - now[i].lat,
			DistanceSpeed:  next[i].dist - now[i].dist,
			House:          astro.HouseOf(lon, asc),
			Retrograde:     speed < 0,
		}
	}
	return result, nil
}

// solveAngles returns the tropical Ascendant and Midheaven.
func solveAngles(in astro.Instant, coords domain.Coordinates) (astro.AscMC, error) {
	t := in.T()
	armc := astro.LocalSiderealTime(in, coords.Longitude)
	return astro.SolveAscMC(armc, coords.Latitude, astro.TrueObliquity(t))
}

type position struct {
	lon, lat, dist float64
}

// positionsAt returns apparent tropical positions of every body, in the
// order of bodies, referred to the true equinox of date.
func positionsAt(in astro.Instant) []position {
	t := in.T()
	shift := astro.PrecessionFromJ2000(t) + astro.NutationAt(t).Longitude
	earth := earthMoonBary.heliocentric(t)

	out := make([]position, len(bodies))
	for i, b := range bodies {
		switch {
		case b.orbit != nil:
			lon, lat, dist := planetGeocentric(b.orbit, t, earth)
			out[i] = position{astro.Wrap360(lon + shift), lat, dist}
		case b.id == "sun":
			lon, lat, dist := vec3{-earth.x, -earth.y, -earth.z}.spherical()
			out[i] = position{astro.Wrap360(lon + shift - aberrationConstant/dist), lat, dist}
		case b.id == "moon":
			lon, lat, dist := moonPosition(t)
			out[i] = position{astro.Wrap360(lon + astro.NutationAt(t).Longitude), lat, dist}
		default:
			out[i] = position{astro.MeanNodeLongitude(t), 0, 0}
		}
	}
	return out
}

// planetGeocentric corrects the planet's position for light time and
// returns J2000 ecliptic coordinates seen from the Earth.
func planetGeocentric(o *orbit, t float64, earth vec3) (lon, lat, dist float64) {
	geo := o.heliocentric(t).sub(earth)
	tau := lightTimePerAU * geo.norm() / astro.DaysPerCentury
	geo = o.heliocentric(t - tau).sub(earth)
	return geo.spherical()
}

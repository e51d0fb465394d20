// Package ephemeris holds the pieces shared by the ephemeris providers:
// request validation, zodiac frame resolution and result assembly.
package ephemeris

import (
	"math"
	"time"

	"github.com/custodia-labs/almanac/internal/astro"
	"github.com/custodia-labs/almanac/internal/core/domain"
)

// Request is a validated ephemeris request.
type Request struct {
	Instant time.Time
	Coords  domain.Coordinates
	Options domain.EphemerisOptions

	// Offset is subtracted from every tropical longitude. Zero when tropical.
	Offset float64
}

// Sidereal reports whether the request asks for the sidereal frame.
func (r Request) Sidereal() bool {
	return r.Options.Zodiac == domain.ZodiacSidereal
}

// Frame converts a tropical longitude into the requested frame.
func (r Request) Frame(tropical float64) float64 {
	return astro.ToSidereal(tropical, r.Offset)
}

// NewRequest validates input, applies option defaults and resolves the
// ayanamsa for sidereal requests. Unknown ayanamsa names resolve to the
// default scheme and the resolved name is echoed in the options.
func NewRequest(instant time.Time, coords domain.Coordinates, opts domain.EphemerisOptions) (Request, error) {
	if instant.IsZero() {
		return Request{}, &domain.ValidationError{Field: "instant", Message: "birth instant is required"}
	}
	if err := coords.Validate(); err != nil {
		return Request{}, err
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return Request{}, err
	}

	req := Request{Instant: instant.UTC(), Coords: coords, Options: opts}
	if req.Sidereal() {
		name, _ := astro.ResolveAyanamsa(opts.Ayanamsa)
		req.Options.Ayanamsa = name
		req.Offset = astro.AyanamsaOffset(name, instant)
	}
	return req, nil
}

// Metadata builds result metadata for the request.
func (r Request) Metadata(provider, version string, engine domain.EngineKind, flags int) domain.EphemerisMetadata {
	return domain.EphemerisMetadata{
		Provider:  provider,
		Version:   version,
		Engine:    engine,
		Options:   r.Options,
		Timestamp: r.Instant.Format(time.RFC3339Nano),
		Location:  domain.Location{Latitude: r.Coords.Latitude, Longitude: r.Coords.Longitude},
		Flags:     flags,
	}
}

// CardinalAngles returns the ascendant, midheaven, descendant and imum
// coeli with zero speed.
func CardinalAngles(asc, mc float64) []domain.Angle {
	angle := func(id string, lon float64) domain.Angle {
		speed := 0.0
		return domain.Angle{ID: id, Longitude: astro.Wrap360(lon), Speed: &speed}
	}
	return []domain.Angle{
		angle(domain.AngleAscendant, asc),
		angle(domain.AngleMidheaven, mc),
		angle(domain.AngleDescendant, asc+180),
		angle(domain.AngleImumCoeli, mc+180),
	}
}

// EqualHouses returns twelve cusps 30° apart from start, with zero drift.
func EqualHouses(start float64) []domain.HouseCusp {
	cusps := astro.EqualCusps(start)
	out := make([]domain.HouseCusp, len(cusps))
	for i, c := range cusps {
		speed := 0.0
		out[i] = domain.HouseCusp{Index: i + 1, Cusp: c, Speed: &speed}
	}
	return out
}

// HouseFor returns the 1-based house containing lon for arbitrary cusps.
// Returns 0 when cusps is not a full set of twelve.
func HouseFor(lon float64, cusps []domain.HouseCusp) int {
	if len(cusps) != 12 {
		return 0
	}
	lon = astro.Wrap360(lon)
	for i := range cusps {
		start := cusps[i].Cusp
		end := cusps[(i+1)%12].Cusp
		width := astro.Wrap360(end - start)
		if astro.Wrap360(lon-start) < width {
			return cusps[i].Index
		}
	}
	return cusps[0].Index
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

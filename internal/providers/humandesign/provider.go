// Package humandesign derives a Human Design body graph from planetary
// gate activations. Positions come from the registered ephemeris provider.
package humandesign

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/almanac/internal/astro"
	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.HumanDesignProvider = (*Provider)(nil)

const (
	// GateWidth is the arc covered by one of the 64 gates.
	GateWidth = 360.0 / 64

	// LineWidth is the arc covered by one of a gate's six lines.
	LineWidth = GateWidth / 6
)

// Centre names.
const (
	CentreHead        = "head"
	CentreAjna        = "ajna"
	CentreThroat      = "throat"
	CentreG           = "g"
	CentreEgo         = "ego"
	CentreSacral      = "sacral"
	CentreSolarPlexus = "solarPlexus"
	CentreSpleen      = "spleen"
	CentreRoot        = "root"
)

// Centres lists the nine centres in body graph order.
var Centres = []string{
	CentreHead, CentreAjna, CentreThroat, CentreG, CentreEgo,
	CentreSacral, CentreSolarPlexus, CentreSpleen, CentreRoot,
}

// gateCentre maps each gate to its centre. Index 0 is unused.
var gateCentre = [65]string{
	"",
	CentreG, CentreG, CentreSacral, CentreAjna, CentreSacral, CentreSolarPlexus, CentreG, CentreThroat,
	CentreSacral, CentreG, CentreAjna, CentreThroat, CentreG, CentreSacral, CentreG, CentreThroat,
	CentreAjna, CentreSpleen, CentreRoot, CentreThroat, CentreEgo, CentreSolarPlexus, CentreThroat, CentreAjna,
	CentreG, CentreEgo, CentreSacral, CentreSpleen, CentreSacral, CentreSolarPlexus, CentreThroat, CentreSpleen,
	CentreThroat, CentreSacral, CentreThroat, CentreSolarPlexus, CentreSolarPlexus, CentreRoot, CentreRoot, CentreEgo,
	CentreRoot, CentreSacral, CentreAjna, CentreSpleen, CentreThroat, CentreG, CentreAjna, CentreSpleen,
	CentreSolarPlexus, CentreSpleen, CentreEgo, CentreRoot, CentreRoot, CentreRoot, CentreSolarPlexus, CentreThroat,
	CentreSpleen, CentreRoot, CentreSacral, CentreRoot, CentreHead, CentreThroat, CentreHead, CentreHead,
}

// activationBodies are read from the ephemeris in this order. Earth is
// opposite the Sun and is derived rather than looked up.
var activationBodies = []struct {
	id, name string
}{
	{"sun", "Sun"},
	{"earth", "Earth"},
	{"moon", "Moon"},
	{"mercury", "Mercury"},
	{"venus", "Venus"},
	{"mars", "Mars"},
	{"jupiter", "Jupiter"},
	{"saturn", "Saturn"},
	{"uranus", "Uranus"},
	{"neptune", "Neptune"},
	{"pluto", "Pluto"},
}

// GateLine maps a tropical longitude to its gate (1-64) and line (1-6).
func GateLine(longitude float64) (gate, line int) {
	lon := astro.Wrap360(longitude)
	gate = int(math.Floor(lon/GateWidth)) + 1
	line = int(math.Floor(math.Mod(lon, GateWidth)/LineWidth)) + 1
	return min(gate, 64), min(line, 6)
}

// CentreOf returns the centre a gate belongs to, or "" for an invalid gate.
func CentreOf(gate int) string {
	if gate < 1 || gate > 64 {
		return ""
	}
	return gateCentre[gate]
}

// Provider computes body graphs.
type Provider struct {
	ephemeris driven.EphemerisProvider
}

// New creates a Human Design provider backed by an ephemeris provider.
func New(eph driven.EphemerisProvider) *Provider {
	return &Provider{ephemeris: eph}
}

// BodyGraph activates gates from tropical positions at the birth instant
// and derives type and authority from the defined centres.
func (p *Provider) BodyGraph(ctx context.Context, q domain.BirthQuery) (*domain.BodyGraph, error) {
	if p.ephemeris == nil {
		info := domain.ProviderInfoFor(domain.ProviderEphemeris)
		return nil, &domain.ProviderUnavailableError{Key: domain.ProviderEphemeris, Hint: info.Hint}
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	instant, err := q.Instant()
	if err != nil {
		return nil, err
	}

	res, err := p.ephemeris.Positions(ctx, instant, q.Coordinates, domain.EphemerisOptions{
		Zodiac:      domain.ZodiacTropical,
		HouseSystem: q.Options.WithDefaults().HouseSystem,
	})
	if err != nil {
		return nil, fmt.Errorf("human design positions: %w", err)
	}

	activations, err := Activations(res)
	if err != nil {
		return nil, err
	}

	centres := make(map[string]domain.CentreState, len(Centres))
	for _, c := range Centres {
		centres[c] = domain.CentreUndefined
	}
	for _, a := range activations {
		if c := CentreOf(a.Gate); c != "" {
			centres[c] = domain.CentreDefined
		}
	}

	return &domain.BodyGraph{
		Centres:     centres,
		Activations: activations,
		Type:        DetermineType(centres),
		Authority:   DetermineAuthority(centres),
	}, nil
}

// Activations maps the eleven activation bodies of a tropical result to
// gates and lines.
func Activations(res *domain.EphemerisResult) ([]domain.GateActivation, error) {
	sun, ok := res.Body("sun")
	if !ok {
		return nil, &domain.ComputationError{Provider: res.Metadata.Provider, Body: "sun", Err: domain.ErrNotFound}
	}

	out := make([]domain.GateActivation, 0, len(activationBodies))
	for _, b := range activationBodies {
		lon := sun.Longitude + 180
		if b.id != "earth" {
			body, ok := res.Body(b.id)
			if !ok {
				return nil, &domain.ComputationError{Provider: res.Metadata.Provider, Body: b.id, Err: domain.ErrNotFound}
			}
			lon = body.Longitude
		}
		gate, line := GateLine(lon)
		out = append(out, domain.GateActivation{Body: b.name, Gate: gate, Line: line})
	}
	return out, nil
}

// DetermineType classifies a body graph by its defined centres.
func DetermineType(centres map[string]domain.CentreState) string {
	defined := func(c string) bool { return centres[c] == domain.CentreDefined }

	sacral := defined(CentreSacral)
	throat := defined(CentreThroat)
	motor := sacral || defined(CentreEgo) || defined(CentreSolarPlexus) || defined(CentreRoot)

	count := 0
	for _, state := range centres {
		if state == domain.CentreDefined {
			count++
		}
	}

	switch {
	case sacral && throat && motor:
		return "Manifesting Generator"
	case sacral:
		return "Generator"
	case throat && motor:
		return "Manifestor"
	case count <= 2:
		return "Reflector"
	default:
		return "Projector"
	}
}

// DetermineAuthority picks the highest-ranking defined centre.
func DetermineAuthority(centres map[string]domain.CentreState) string {
	defined := func(c string) bool { return centres[c] == domain.CentreDefined }

	switch {
	case defined(CentreSolarPlexus):
		return "Emotional"
	case defined(CentreSacral):
		return "Sacral"
	case defined(CentreSpleen):
		return "Splenic"
	case defined(CentreEgo):
		return "Ego"
	case defined(CentreG):
		return "Self-Projected"
	case defined(CentreHead) && defined(CentreAjna):
		return "Mental"
	default:
		return "Lunar"
	}
}

package astro

import (
	"errors"
	"math"
)

// ErrPolarLatitude is returned when the horizon is undefined for the ecliptic.
var ErrPolarLatitude = errors.New("ascendant undefined at the geographic poles")

// AscMC holds the two primary angles and the ARMC they were derived from.
type AscMC struct {
	Ascendant float64
	Midheaven float64
	ARMC      float64
}

// Descendant is the point opposite the Ascendant.
func (a AscMC) Descendant() float64 { return Wrap360(a.Ascendant + 180) }

// ImumCoeli is the point opposite the Midheaven.
func (a AscMC) ImumCoeli() float64 { return Wrap360(a.Midheaven + 180) }

// SolveAscMC computes the Ascendant and Midheaven from local sidereal time
// armc, geographic latitude and obliquity eps, all in degrees.
//
//	MC  = atan2(sin θ, cos θ cos ε)
//	Asc = atan2(cos θ, -(sin θ cos ε + tan φ sin ε))
//
// The Ascendant form places the result on the eastern horizon; the
// equivalent atan2(-cos θ, sin ε tan φ + cos ε sin θ) yields the
// Descendant and is not used. The Midheaven is the meridian's crossing of
// the ecliptic and carries no latitude term.
func SolveAscMC(armc, latitude, eps float64) (AscMC, error) {
	if math.Abs(latitude) >= 90 || math.IsNaN(latitude) {
		return AscMC{}, ErrPolarLatitude
	}
	theta := Radians(Wrap360(armc))
	phi := Radians(latitude)
	e := Radians(eps)

	mc := Degrees(math.Atan2(math.Sin(theta), math.Cos(theta)*math.Cos(e)))
	asc := Degrees(math.Atan2(
		math.Cos(theta),
		-(math.Sin(theta)*math.Cos(e) + math.Tan(phi)*math.Sin(e)),
	))

	return AscMC{
		Ascendant: Wrap360(asc),
		Midheaven: Wrap360(mc),
		ARMC:      Wrap360(armc),
	}, nil
}

// EqualCusps returns twelve cusps 30° apart starting at start.
func EqualCusps(start float64) [12]float64 {
	var cusps [12]float64
	for i := range cusps {
		cusps[i] = Wrap360(start + float64(i)*30)
	}
	return cusps
}

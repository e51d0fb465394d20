package domain

import "math"

// DirectionCardinal is one of the eight compass points, or empty.
type DirectionCardinal string

// Compass points.
const (
	DirectionNone DirectionCardinal = ""
	DirectionN    DirectionCardinal = "N"
	DirectionNE   DirectionCardinal = "NE"
	DirectionE    DirectionCardinal = "E"
	DirectionSE   DirectionCardinal = "SE"
	DirectionS    DirectionCardinal = "S"
	DirectionSW   DirectionCardinal = "SW"
	DirectionW    DirectionCardinal = "W"
	DirectionNW   DirectionCardinal = "NW"
)

// compassOrder lists points clockwise from north, one per 45° sector.
var compassOrder = [8]DirectionCardinal{
	DirectionN, DirectionNE, DirectionE, DirectionSE,
	DirectionS, DirectionSW, DirectionW, DirectionNW,
}

// IsValid returns true for the eight points and the empty value.
func (d DirectionCardinal) IsValid() bool {
	if d == DirectionNone {
		return true
	}
	for _, c := range compassOrder {
		if c == d {
			return true
		}
	}
	return false
}

// Degrees returns the centre bearing of the point, or -1 for DirectionNone.
func (d DirectionCardinal) Degrees() float64 {
	for i, c := range compassOrder {
		if c == d {
			return float64(i) * 45
		}
	}
	return -1
}

// CardinalFromDegrees maps a bearing to the compass point whose 45° sector
// contains it. Sectors are centred on each point, so N covers [337.5, 22.5).
func CardinalFromDegrees(deg float64) DirectionCardinal {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return DirectionNone
	}
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Floor((d+22.5)/45)) % 8
	return compassOrder[idx]
}

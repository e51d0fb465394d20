package astro

import "math"

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// Wrap360 normalises an angle into [0, 360).
func Wrap360(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	// math.Mod can return 360 after the correction for tiny negatives.
	if r >= 360 {
		r -= 360
	}
	return r
}

// Wrap180 normalises an angle into [-180, 180).
func Wrap180(deg float64) float64 {
	return Wrap360(deg+180) - 180
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * deg2rad }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * rad2deg }

// HouseOf returns the 1-based equal-house index of lon measured from anchor.
func HouseOf(lon, anchor float64) int {
	return int(math.Floor(Wrap360(lon-anchor)/30))%12 + 1
}

// SignOf returns the zero-based zodiac sign index of a longitude.
func SignOf(lon float64) int {
	return int(math.Floor(Wrap360(lon) / 30))
}

func sind(deg float64) float64 { return math.Sin(deg * deg2rad) }
func cosd(deg float64) float64 { return math.Cos(deg * deg2rad) }

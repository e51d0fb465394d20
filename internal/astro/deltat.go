package astro

import "math"

// DeltaT estimates TT - UT in seconds for a decimal year using the
// Espenak-Meeus polynomials. Outside 1900-2150 the long-term parabola is used.
func DeltaT(year float64) float64 {
	switch {
	case year >= 2050 && year < 2150:
		u := (year - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-year)
	case year >= 2005 && year < 2050:
		t := year - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	case year >= 1986 && year < 2005:
		t := year - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*math.Pow(t, 3) +
			0.000651814*math.Pow(t, 4) + 0.00002373599*math.Pow(t, 5)
	case year >= 1961 && year < 1986:
		t := year - 1975
		return 45.45 + 1.067*t - t*t/260 - math.Pow(t, 3)/718
	case year >= 1941 && year < 1961:
		t := year - 1950
		return 29.07 + 0.407*t - t*t/233 + math.Pow(t, 3)/2547
	case year >= 1920 && year < 1941:
		t := year - 1920
		return 21.20 + 0.84493*t - 0.076100*t*t + 0.0020936*math.Pow(t, 3)
	case year >= 1900 && year < 1920:
		t := year - 1900
		return -2.79 + 1.494119*t - 0.0598939*t*t + 0.0061966*math.Pow(t, 3) - 0.000197*math.Pow(t, 4)
	default:
		u := (year - 1820) / 100
		return -20 + 32*u*u
	}
}

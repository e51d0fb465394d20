package astro

// Nutation holds the nutation in longitude and obliquity, in degrees.
type Nutation struct {
	Longitude float64
	Obliquity float64
}

// MeanNodeLongitude returns the mean longitude of the Moon's ascending node.
func MeanNodeLongitude(t float64) float64 {
	return Wrap360(125.0445479 - 1934.1362891*t + 0.0020754*t*t +
		t*t*t/467441 - t*t*t*t/60616000)
}

// NutationAt evaluates the four largest nutation terms (Meeus, ch. 22),
// accurate to about 0.5".
func NutationAt(t float64) Nutation {
	omega := MeanNodeLongitude(t)
	lSun := 280.4665 + 36000.7698*t
	lMoon := 218.3165 + 481267.8813*t

	dPsi := -17.20*sind(omega) - 1.32*sind(2*lSun) - 0.23*sind(2*lMoon) + 0.21*sind(2*omega)
	dEps := 9.20*cosd(omega) + 0.57*cosd(2*lSun) + 0.10*cosd(2*lMoon) - 0.09*cosd(2*omega)

	return Nutation{Longitude: dPsi / 3600, Obliquity: dEps / 3600}
}

// MeanObliquity returns the mean obliquity of the ecliptic (IAU 1980).
func MeanObliquity(t float64) float64 {
	return 23.4392911 + (-46.8150*t-0.00059*t*t+0.001813*t*t*t)/3600
}

// TrueObliquity returns the obliquity of date including nutation.
func TrueObliquity(t float64) float64 {
	return MeanObliquity(t) + NutationAt(t).Obliquity
}

// GMST returns Greenwich mean sidereal time in degrees for a UT Julian Day.
func GMST(jdUT float64) float64 {
	t := Centuries(jdUT)
	return Wrap360(280.46061837 + 360.98564736629*(jdUT-J2000) +
		0.000387933*t*t - t*t*t/38710000)
}

// GAST returns Greenwich apparent sidereal time in degrees.
func GAST(in Instant) float64 {
	t := in.T()
	n := NutationAt(t)
	eps := MeanObliquity(t) + n.Obliquity
	return Wrap360(GMST(in.UT) + n.Longitude*cosd(eps))
}

// LocalSiderealTime returns apparent local sidereal time (the ARMC) in
// degrees for an east-positive geographic longitude.
func LocalSiderealTime(in Instant, longitude float64) float64 {
	return Wrap360(GAST(in) + longitude)
}

// PrecessionFromJ2000 returns the general precession in longitude since
// J2000, in degrees, for TT centuries t.
func PrecessionFromJ2000(t float64) float64 {
	return (5029.0966*t + 1.11113*t*t) / 3600
}

package astro

import (
	"math"
	"time"
)

const (
	// J2000 is the Julian Day of 2000-01-01T12:00 TT.
	J2000 = 2451545.0

	// DaysPerCentury is the length of a Julian century.
	DaysPerCentury = 36525.0

	secondsPerDay = 86400.0
)

// JulianDay converts an instant to a Julian Day in UT using the Gregorian
// calendar algorithm (Meeus, ch. 7). Sub-second precision is preserved.
func JulianDay(t time.Time) float64 {
	u := t.UTC()
	y, m := u.Year(), int(u.Month())
	dayFrac := float64(u.Hour())/24 +
		float64(u.Minute())/1440 +
		(float64(u.Second())+float64(u.Nanosecond())/1e9)/secondsPerDay
	return CalendarToJD(y, m, float64(u.Day())+dayFrac)
}

// CalendarToJD converts a proleptic Gregorian date with fractional day.
func CalendarToJD(year, month int, day float64) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(float64(year) / 100)
	b := 2 - a + math.Floor(a/4)
	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		day + b - 1524.5
}

// TimeFromJD converts a Julian Day (UT) back to an instant.
func TimeFromJD(jd float64) time.Time {
	unixDays := jd - 2440587.5
	sec := unixDays * secondsPerDay
	whole := math.Floor(sec)
	nanos := math.Round((sec - whole) * 1e9)
	return time.Unix(int64(whole), int64(nanos)).UTC()
}

// Centuries returns Julian centuries elapsed since J2000.
func Centuries(jd float64) float64 {
	return (jd - J2000) / DaysPerCentury
}

// Instant bundles the time scales used in one computation.
type Instant struct {
	// UT is the Julian Day in Universal Time.
	UT float64
	// TT is the Julian Day in Terrestrial Time.
	TT float64
}

// NewInstant converts a civil instant into UT and TT Julian Days.
func NewInstant(t time.Time) Instant {
	ut := JulianDay(t)
	return Instant{UT: ut, TT: ut + DeltaT(DecimalYear(t))/secondsPerDay}
}

// T returns TT centuries since J2000.
func (i Instant) T() float64 { return Centuries(i.TT) }

// AddDays shifts both scales by the same number of days.
func (i Instant) AddDays(d float64) Instant {
	return Instant{UT: i.UT + d, TT: i.TT + d}
}

// DecimalYear returns the year with its elapsed fraction.
func DecimalYear(t time.Time) float64 {
	u := t.UTC()
	start := time.Date(u.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return float64(u.Year()) + u.Sub(start).Seconds()/end.Sub(start).Seconds()
}

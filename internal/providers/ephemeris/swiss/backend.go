// Package swiss adapts the Swiss Ephemeris library to the ephemeris port.
//
// The library keeps process-global state (ephemeris path, JPL file and the
// sidereal mode). The adapter owns that state: every call takes the
// adapter's lock, sets the sidereal mode it needs and computes under the
// same lock, so concurrent tropical and sidereal requests never observe
// each other's mode.
package swiss

// Body numbers.
const (
	Sun      int32 = 0
	Moon     int32 = 1
	Mercury  int32 = 2
	Venus    int32 = 3
	Mars     int32 = 4
	Jupiter  int32 = 5
	Saturn   int32 = 6
	Uranus   int32 = 7
	Neptune  int32 = 8
	Pluto    int32 = 9
	MeanNode int32 = 10

	// EclNut selects obliquity and nutation instead of a body.
	EclNut int32 = -1
)

// Calculation flags.
const (
	FlagJPLEph   int32 = 1
	FlagSwissEph int32 = 2
	FlagMoshier  int32 = 4
	FlagSpeed    int32 = 256
	FlagSidereal int32 = 64 * 1024
)

// Sidereal modes.
const (
	SidmFaganBradley       int32 = 0
	SidmLahiri             int32 = 1
	SidmDeluce             int32 = 2
	SidmRaman              int32 = 3
	SidmUshashashi         int32 = 4
	SidmKrishnamurti       int32 = 5
	SidmDjwhalKhul         int32 = 6
	SidmYukteshwar         int32 = 7
	SidmJNBhasin           int32 = 8
	SidmHipparchos         int32 = 15
	SidmGalcent0Sag        int32 = 17
	SidmJ2000              int32 = 18
	SidmJ1900              int32 = 19
	SidmB1950              int32 = 20
	SidmSuryasiddhanta     int32 = 21
	SidmSuryasiddhantaMSun int32 = 22
	SidmAryabhata          int32 = 23
	SidmAryabhataMSun      int32 = 24
	SidmSSRevati           int32 = 25
	SidmSSCitra            int32 = 26
	SidmTrueCitra          int32 = 27
	SidmTrueRevati         int32 = 28
	SidmTruePushya         int32 = 29
	SidmGalcentRGilbrand   int32 = 30
	SidmGalalignMardyks    int32 = 34
	SidmTrueMula           int32 = 35
	SidmTrueSheoran        int32 = 39
)

// Indexes into Houses.Ascmc.
const (
	AscmcAsc = iota
	AscmcMC
	AscmcARMC
	AscmcVertex
	AscmcEquAsc
	AscmcCoAscKoch
	AscmcCoAscMunkasey
	AscmcPolarAsc
	ascmcLen
)

// Position is the result of a body calculation.
type Position struct {
	Longitude      float64
	Latitude       float64
	Distance       float64
	LongitudeSpeed float64
	LatitudeSpeed  float64
	DistanceSpeed  float64
}

// Houses is the result of a house calculation.
type Houses struct {
	Cusps      [12]float64
	CuspSpeeds [12]float64
	Ascmc      [ascmcLen]float64
	AscmcSpeed [ascmcLen]float64
}

// Backend is the subset of the Swiss Ephemeris API the adapter uses.
// Implementations need not be safe for concurrent use.
type Backend interface {
	Version() string
	SetEphePath(path string)
	SetJPLFile(file string)
	SetSidMode(mode int32)
	CalcUT(jdUT float64, body, flags int32) (Position, error)
	HousesEx2(jdUT float64, flags int32, lat, lon float64, hsys byte) (Houses, error)
	HousePos(armc, geoLat, eps float64, hsys byte, lon, lat float64) (float64, error)
	Close()
}

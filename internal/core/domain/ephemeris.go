package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ZodiacType selects the longitude frame.
type ZodiacType string

// Zodiac frames.
const (
	ZodiacTropical ZodiacType = "tropical"
	ZodiacSidereal ZodiacType = "sidereal"
)

// IsValid returns true if the zodiac type is recognised.
func (z ZodiacType) IsValid() bool {
	return z == ZodiacTropical || z == ZodiacSidereal
}

// DefaultHouseSystem is Placidus.
const DefaultHouseSystem = "P"

// houseSystems lists the twelve-house codes every engine accepts.
// Gauquelin sectors (G) divide the sky into 36 and are not supported.
const houseSystems = "ABCDEFHIKLMNOPQRSTUVWXY"

// IsValidHouseSystem reports whether code is a supported single-letter
// house system. Matching ignores case.
func IsValidHouseSystem(code string) bool {
	return len(code) == 1 && strings.Contains(houseSystems, strings.ToUpper(code))
}

// EngineKind names the backend that produced a result.
type EngineKind string

// Engine kinds.
const (
	EngineSwiss    EngineKind = "swiss"
	EngineMoshier  EngineKind = "moshier"
	EngineJPL      EngineKind = "jpl"
	EngineAnalytic EngineKind = "analytic"
	EngineDemo     EngineKind = "demo"
)

// Coordinates is a geographic position in degrees, east and north positive.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate rejects non-finite or out-of-range coordinates.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) {
		return &ValidationError{Field: "latitude", Message: "latitude must be finite"}
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return &ValidationError{Field: "longitude", Message: "longitude must be finite"}
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return &ValidationError{Field: "latitude", Message: "latitude must be within [-90, 90]"}
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return &ValidationError{Field: "longitude", Message: "longitude must be within [-180, 180]"}
	}
	return nil
}

// EphemerisOptions is echoed back in the result metadata.
type EphemerisOptions struct {
	Zodiac      ZodiacType `json:"zodiac"`
	Ayanamsa    string     `json:"ayanamsa,omitempty"`
	HouseSystem string     `json:"houseSystem"`
}

// WithDefaults fills an empty zodiac and house system.
func (o EphemerisOptions) WithDefaults() EphemerisOptions {
	if o.Zodiac == "" {
		o.Zodiac = ZodiacTropical
	}
	if strings.TrimSpace(o.HouseSystem) == "" {
		o.HouseSystem = DefaultHouseSystem
	}
	return o
}

// Validate checks the zodiac type and house system code.
func (o EphemerisOptions) Validate() error {
	if !o.Zodiac.IsValid() {
		return &ValidationError{Field: "zodiac", Message: fmt.Sprintf("unknown zodiac %q", o.Zodiac)}
	}
	if len(o.HouseSystem) != 1 {
		return &ValidationError{Field: "houseSystem", Message: "house system must be a single-letter code"}
	}
	if !IsValidHouseSystem(o.HouseSystem) {
		return &ValidationError{Field: "houseSystem", Message: fmt.Sprintf("unsupported house system %q", o.HouseSystem)}
	}
	return nil
}

// BirthQuery is the immutable input to every calculator.
type BirthQuery struct {
	// Date is the civil date, YYYY-MM-DD.
	Date string `json:"date"`

	// Time is the civil wall-clock time, HH:MM or HH:MM:SS.
	Time string `json:"time"`

	// Timezone is an IANA zone name.
	Timezone string `json:"timezone"`

	Coordinates Coordinates      `json:"coordinates"`
	Options     EphemerisOptions `json:"options"`
}

// Instant resolves the civil date and time in the query's zone.
func (q BirthQuery) Instant() (time.Time, error) {
	loc, err := LoadZone(q.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	clock := strings.TrimSpace(q.Time)
	if clock == "" {
		clock = "12:00"
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(q.Date)+" "+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{
		Field:   "date",
		Message: fmt.Sprintf("invalid civil timestamp %q %q", q.Date, q.Time),
	}
}

// Validate checks the zone, timestamp, coordinates and options.
func (q BirthQuery) Validate() error {
	if _, err := q.Instant(); err != nil {
		return err
	}
	if err := q.Coordinates.Validate(); err != nil {
		return err
	}
	return q.Options.WithDefaults().Validate()
}

// CelestialBody is one computed body. Providers populate every field.
type CelestialBody struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Longitude      float64 `json:"longitude"`
	Latitude       float64 `json:"latitude"`
	Distance       float64 `json:"distance"`
	LongitudeSpeed float64 `json:"longitudeSpeed"`
	LatitudeSpeed  float64 `json:"latitudeSpeed"`
	DistanceSpeed  float64 `json:"distanceSpeed"`
	House          int     `json:"house,omitempty"`
	Retrograde     bool    `json:"retrograde"`
}

// HouseCusp is the start of one house.
type HouseCusp struct {
	Index int      `json:"index"`
	Cusp  float64  `json:"cusp"`
	Speed *float64 `json:"speed,omitempty"`
}

// Angle identifiers.
const (
	AngleAscendant  = "asc"
	AngleMidheaven  = "mc"
	AngleDescendant = "dc"
	AngleImumCoeli  = "ic"
	AngleARMC       = "armc"
	AngleVertex     = "vertex"
)

// Angle is a named reference point on the ecliptic.
type Angle struct {
	ID        string   `json:"id"`
	Longitude float64  `json:"longitude"`
	Speed     *float64 `json:"speed,omitempty"`
}

// License is optional licensing metadata for observability.
type License struct {
	Key  string `json:"key,omitempty"`
	File string `json:"file,omitempty"`
}

// Location echoes the coordinates used.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EphemerisMetadata describes how a result was produced.
type EphemerisMetadata struct {
	Provider  string           `json:"provider"`
	Version   string           `json:"version"`
	Engine    EngineKind       `json:"engine"`
	Options   EphemerisOptions `json:"options"`
	Timestamp string           `json:"timestamp"`
	Location  Location         `json:"location"`
	Flags     int              `json:"flags"`
	License   *License         `json:"license,omitempty"`
}

// EphemerisResult holds bodies, houses and angles for one instant.
// All longitudes share one zodiac frame.
type EphemerisResult struct {
	Bodies   []CelestialBody   `json:"bodies"`
	Houses   []HouseCusp       `json:"houses"`
	Angles   []Angle           `json:"angles"`
	Metadata EphemerisMetadata `json:"metadata"`
}

// Body returns the body with the given id.
func (r *EphemerisResult) Body(id string) (CelestialBody, bool) {
	for _, b := range r.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return CelestialBody{}, false
}

// Angle returns the angle with the given id.
func (r *EphemerisResult) Angle(id string) (Angle, bool) {
	for _, a := range r.Angles {
		if a.ID == id {
			return a, true
		}
	}
	return Angle{}, false
}

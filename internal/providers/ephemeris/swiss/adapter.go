package swiss

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/almanac/internal/astro"
	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/logger"
	"github.com/custodia-labs/almanac/internal/providers/ephemeris"
)

// Name identifies the provider in result metadata.
const Name = "swiss-ephemeris"

var engineFlags = map[domain.EngineKind]int32{
	domain.EngineSwiss:   FlagSwissEph,
	domain.EngineMoshier: FlagMoshier,
	domain.EngineJPL:     FlagJPLEph,
}

var catalog = []struct {
	id, name string
	code     int32
}{
	{"sun", "Sun", Sun},
	{"moon", "Moon", Moon},
	{"mercury", "Mercury", Mercury},
	{"venus", "Venus", Venus},
	{"mars", "Mars", Mars},
	{"jupiter", "Jupiter", Jupiter},
	{"saturn", "Saturn", Saturn},
	{"uranus", "Uranus", Uranus},
	{"neptune", "Neptune", Neptune},
	{"pluto", "Pluto", Pluto},
	{"mean_node", "Mean Node", MeanNode},
}

var sidModes = map[string]int32{
	"lahiri":              SidmLahiri,
	"fagan_bradley":       SidmFaganBradley,
	"deluce":              SidmDeluce,
	"raman":               SidmRaman,
	"ushashashi":          SidmUshashashi,
	"krishnamurti":        SidmKrishnamurti,
	"djwhal_khul":         SidmDjwhalKhul,
	"yukteshwar":          SidmYukteshwar,
	"yukteswar":           SidmYukteshwar,
	"jn_bhasin":           SidmJNBhasin,
	"hipparchos":          SidmHipparchos,
	"galcent":             SidmGalcent0Sag,
	"galcent_0sag":        SidmGalcent0Sag,
	"j2000":               SidmJ2000,
	"j1900":               SidmJ1900,
	"b1950":               SidmB1950,
	"suryasiddhanta":      SidmSuryasiddhanta,
	"suryasiddhanta_msun": SidmSuryasiddhantaMSun,
	"aryabhata":           SidmAryabhata,
	"aryabhata_msun":      SidmAryabhataMSun,
	"ss_revati":           SidmSSRevati,
	"ss_citra":            SidmSSCitra,
	"true_citra":          SidmTrueCitra,
	"true_revati":         SidmTrueRevati,
	"true_pushya":         SidmTruePushya,
	"galalign_mardyks":    SidmGalalignMardyks,
	"galcent_rgilbrand":   SidmGalcentRGilbrand,
	"true_mula":           SidmTrueMula,
	"true_sheoran":        SidmTrueSheoran,
}

// SidMode returns the library's sidereal mode for an ayanamsa name.
// Unknown names map to Lahiri.
func SidMode(name string) int32 {
	if mode, ok := sidModes[astro.NormaliseAyanamsa(name)]; ok {
		return mode
	}
	return SidmLahiri
}

// Config configures the adapter.
type Config struct {
	Engine             domain.EngineKind
	DataPath           string
	JPLFile            string
	DefaultHouseSystem string
	DefaultAyanamsa    string
	LicenseKey         string
	LicenseFile        string
}

// ConfigFromSettings maps runtime settings onto adapter configuration.
func ConfigFromSettings(s domain.SwissSettings) Config {
	engine := domain.EngineSwiss
	switch s.Backend {
	case domain.SwissBackendMoshier:
		engine = domain.EngineMoshier
	case domain.SwissBackendJPL:
		engine = domain.EngineJPL
	}
	return Config{
		Engine:             engine,
		DataPath:           s.DataPath,
		JPLFile:            s.JPLFile,
		DefaultHouseSystem: s.DefaultHouseSystem,
		DefaultAyanamsa:    s.DefaultAyanamsa,
		LicenseKey:         s.LicenseKey,
		LicenseFile:        s.LicenseFile,
	}
}

// Adapter serialises access to a Backend and maps its output onto
// domain results.
type Adapter struct {
	mu        sync.Mutex
	backend   Backend
	cfg       Config
	baseFlags int32
}

var _ driven.EphemerisProvider = (*Adapter)(nil)

// New wraps backend. It applies the configured data path and JPL file once.
func New(backend Backend, cfg Config) (*Adapter, error) {
	if backend == nil {
		return nil, &domain.ProviderUnavailableError{
			Key:  domain.ProviderEphemeris,
			Hint: "Swiss Ephemeris library is not available in this build",
		}
	}
	if cfg.Engine == "" {
		cfg.Engine = domain.EngineSwiss
	}
	flag, ok := engineFlags[cfg.Engine]
	if !ok {
		return nil, &domain.ValidationError{Field: "swiss.engine", Message: "unknown engine " + string(cfg.Engine)}
	}
	if cfg.Engine == domain.EngineJPL && cfg.JPLFile == "" {
		return nil, &domain.ValidationError{Field: "swiss.jpl_file", Message: "jpl engine requires a JPL file"}
	}
	cfg.DefaultHouseSystem = strings.ToUpper(strings.TrimSpace(cfg.DefaultHouseSystem))
	if cfg.DefaultHouseSystem == "" {
		cfg.DefaultHouseSystem = domain.DefaultHouseSystem
	}
	if cfg.DefaultAyanamsa == "" {
		cfg.DefaultAyanamsa = astro.DefaultAyanamsa
	}

	a := &Adapter{backend: backend, cfg: cfg, baseFlags: FlagSpeed | flag}
	a.mu.Lock()
	defer a.mu.Unlock()
	if cfg.DataPath != "" {
		backend.SetEphePath(cfg.DataPath)
	}
	if cfg.JPLFile != "" {
		backend.SetJPLFile(cfg.JPLFile)
	}
	logger.Debug("swiss: engine=%s data_path=%q jpl_file=%q", cfg.Engine, cfg.DataPath, cfg.JPLFile)
	return a, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return Name }

// Close releases the backend.
func (a *Adapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.backend.Close()
}

// Positions computes bodies, houses and angles with the backend. The
// sidereal mode is set on every call while the lock is held.
func (a *Adapter) Positions(ctx context.Context, instant time.Time, coords domain.Coordinates, opts domain.EphemerisOptions) (*domain.EphemerisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if hs := strings.ToUpper(strings.TrimSpace(opts.HouseSystem)); hs != "" {
		opts.HouseSystem = hs[:1]
	} else {
		opts.HouseSystem = a.cfg.DefaultHouseSystem
	}
	if opts.Zodiac == domain.ZodiacSidereal && strings.TrimSpace(opts.Ayanamsa) == "" {
		opts.Ayanamsa = a.cfg.DefaultAyanamsa
	}
	req, err := ephemeris.NewRequest(instant, coords, opts)
	if err != nil {
		return nil, err
	}

	flags := a.baseFlags
	mode := SidmFaganBradley
	if req.Sidereal() {
		flags |= FlagSidereal
		mode = SidMode(req.Options.Ayanamsa)
	}
	hsys := req.Options.HouseSystem[0]
	jd := astro.JulianDay(req.Instant)

	fail := func(body string, err error) error {
		return &domain.ComputationError{
			Provider:    Name,
			Body:        body,
			HouseSystem: req.Options.HouseSystem,
			Latitude:    req.Coords.Latitude,
			Err:         err,
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.backend.SetSidMode(mode)

	houses, err := a.backend.HousesEx2(jd, flags&FlagSidereal, req.Coords.Latitude, req.Coords.Longitude, hsys)
	if err != nil {
		return nil, fail("", err)
	}
	nut, err := a.backend.CalcUT(jd, EclNut, 0)
	if err != nil {
		return nil, fail("obliquity", err)
	}

	result := &domain.EphemerisResult{
		Houses: make([]domain.HouseCusp, 12),
		Angles: swissAngles(houses),
	}
	for i := range houses.Cusps {
		speed := houses.CuspSpeeds[i]
		result.Houses[i] = domain.HouseCusp{Index: i + 1, Cusp: astro.Wrap360(houses.Cusps[i]), Speed: &speed}
	}

	result.Bodies = make([]domain.CelestialBody, 0, len(catalog))
	for _, b := range catalog {
		pos, err := a.backend.CalcUT(jd, b.code, flags)
		if err != nil {
			return nil, fail(b.name, err)
		}
		lon := astro.Wrap360(pos.Longitude)
		result.Bodies = append(result.Bodies, domain.CelestialBody{
			ID:             b.id,
			Name:           b.name,
			Longitude:      lon,
			Latitude:       pos.Latitude,
			Distance:       pos.Distance,
			LongitudeSpeed: pos.LongitudeSpeed,
			LatitudeSpeed:  pos.LatitudeSpeed,
			DistanceSpeed:  pos.DistanceSpeed,
			House:          a.houseOf(req, houses, nut.Longitude, pos, result.Houses),
			Retrograde:     pos.LongitudeSpeed < 0,
		})
	}

	result.Metadata = req.Metadata(Name, a.backend.Version(), a.cfg.Engine, int(flags))
	if a.cfg.LicenseKey != "" || a.cfg.LicenseFile != "" {
		result.Metadata.License = &domain.License{Key: a.cfg.LicenseKey, File: a.cfg.LicenseFile}
	}
	return result, nil
}

// houseOf uses the library's inverse house function for tropical
// positions. Sidereal positions are placed against the sidereal cusps,
// since the inverse function expects tropical longitudes.
func (a *Adapter) houseOf(req ephemeris.Request, h Houses, eps float64, pos Position, cusps []domain.HouseCusp) int {
	if req.Sidereal() {
		return ephemeris.HouseFor(pos.Longitude, cusps)
	}
	hp, err := a.backend.HousePos(h.Ascmc[AscmcARMC], req.Coords.Latitude, eps, req.Options.HouseSystem[0], pos.Longitude, pos.Latitude)
	if err != nil {
		logger.Debug("swiss: house position failed: %v", err)
		return 0
	}
	return houseIndex(hp)
}

// houseIndex folds a fractional house position into 1..12.
func houseIndex(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	wrapped := math.Mod(math.Mod(v-1, 12)+12, 12)
	return int(math.Floor(wrapped)) + 1
}

func swissAngles(h Houses) []domain.Angle {
	ids := []struct {
		id  string
		idx int
	}{
		{domain.AngleAscendant, AscmcAsc},
		{domain.AngleMidheaven, AscmcMC},
		{domain.AngleARMC, AscmcARMC},
		{domain.AngleVertex, AscmcVertex},
		{"equatorialAscendant", AscmcEquAsc},
		{"kochCoAscendant", AscmcCoAscKoch},
		{"munkaseyCoAscendant", AscmcCoAscMunkasey},
		{"munkaseyPolarAscendant", AscmcPolarAsc},
	}
	out := make([]domain.Angle, 0, len(ids)+2)
	for _, a := range ids {
		lon := h.Ascmc[a.idx]
		if math.IsNaN(lon) || math.IsInf(lon, 0) {
			continue
		}
		speed := h.AscmcSpeed[a.idx]
		out = append(out, domain.Angle{ID: a.id, Longitude: astro.Wrap360(lon), Speed: &speed})
		switch a.id {
		case domain.AngleAscendant:
			out = append(out, domain.Angle{ID: domain.AngleDescendant, Longitude: astro.Wrap360(lon + 180), Speed: &speed})
		case domain.AngleMidheaven:
			out = append(out, domain.Angle{ID: domain.AngleImumCoeli, Longitude: astro.Wrap360(lon + 180), Speed: &speed})
		}
	}
	return out
}

// ErrUnavailable is returned by backends that were not compiled in.
var ErrUnavailable = errors.New("swiss ephemeris library not compiled in")

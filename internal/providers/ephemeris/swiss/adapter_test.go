package swiss

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeBackend keeps a global sidereal mode like the real library and
// records any call that overlaps another.
type fakeBackend struct {
	mode      int32
	inFlight  atomic.Int32
	overlaps  atomic.Int32
	ephePath  string
	jplFile   string
	closed    bool
	calcErr   map[int32]error
	housesErr error
}

func (f *fakeBackend) enter() func() {
	if f.inFlight.Add(1) > 1 {
		f.overlaps.Add(1)
	}
	return func() { f.inFlight.Add(-1) }
}

// offsetFor gives each sidereal mode a distinct offset.
func offsetFor(mode int32) float64 { return 20 + float64(mode) }

func (f *fakeBackend) Version() string         { return "2.10.03-fake" }
func (f *fakeBackend) SetEphePath(path string) { f.ephePath = path }
func (f *fakeBackend) SetJPLFile(file string)  { f.jplFile = file }
func (f *fakeBackend) Close()                  { f.closed = true }

func (f *fakeBackend) SetSidMode(mode int32) {
	defer f.enter()()
	f.mode = mode
	runtime.Gosched()
}

func (f *fakeBackend) CalcUT(_ float64, body, flags int32) (Position, error) {
	defer f.enter()()
	runtime.Gosched()
	if err := f.calcErr[body]; err != nil {
		return Position{}, err
	}
	if body == EclNut {
		return Position{Longitude: 23.44}, nil
	}
	lon := 10 * float64(body+1)
	if flags&FlagSidereal != 0 {
		lon -= offsetFor(f.mode)
	}
	speed := 1.0
	if body == MeanNode {
		speed = -0.05
	}
	return Position{Longitude: lon, Latitude: 0.5, Distance: 1, LongitudeSpeed: speed}, nil
}

func (f *fakeBackend) HousesEx2(_ float64, flags int32, _, _ float64, _ byte) (Houses, error) {
	defer f.enter()()
	if f.housesErr != nil {
		return Houses{}, f.housesErr
	}
	shift := 0.0
	if flags&FlagSidereal != 0 {
		shift = offsetFor(f.mode)
	}
	var h Houses
	for i := range h.Cusps {
		h.Cusps[i] = float64(i)*30 + 5 - shift
		h.CuspSpeeds[i] = 360
	}
	h.Ascmc[AscmcAsc] = 5 - shift
	h.Ascmc[AscmcMC] = 275 - shift
	h.Ascmc[AscmcARMC] = 100
	h.Ascmc[AscmcVertex] = math.NaN()
	return h, nil
}

func (f *fakeBackend) HousePos(_, _, _ float64, _ byte, lon, _ float64) (float64, error) {
	defer f.enter()()
	return (lon-5)/30 + 1, nil
}

var (
	london  = domain.Coordinates{Latitude: 51.5074, Longitude: -0.1278}
	instant = time.Date(1990, 6, 15, 14, 30, 0, 0, time.UTC)
)

func newAdapter(t *testing.T, backend *fakeBackend, cfg Config) *Adapter {
	t.Helper()
	a, err := New(backend, cfg)
	require.NoError(t, err)
	return a
}

func TestPositions_Tropical(t *testing.T) {
	backend := &fakeBackend{mode: SidmLahiri}
	a := newAdapter(t, backend, Config{})

	res, err := a.Positions(context.Background(), instant, london, domain.EphemerisOptions{})
	require.NoError(t, err)

	assert.Equal(t, SidmFaganBradley, backend.mode)
	require.Len(t, res.Bodies, 11)
	sun, _ := res.Body("sun")
	assert.Equal(t, 10.0, sun.Longitude)
	assert.Equal(t, 1, sun.House)
	node, _ := res.Body("mean_node")
	assert.True(t, node.Retrograde)

	assert.Equal(t, Name, res.Metadata.Provider)
	assert.Equal(t, "2.10.03-fake", res.Metadata.Version)
	assert.Equal(t, domain.EngineSwiss, res.Metadata.Engine)
	assert.Equal(t, int(FlagSpeed|FlagSwissEph), res.Metadata.Flags)
	assert.Equal(t, "P", res.Metadata.Options.HouseSystem)
	assert.Nil(t, res.Metadata.License)
}

func TestPositions_RejectsUnsupportedHouseSystem(t *testing.T) {
	backend := &fakeBackend{mode: SidmLahiri}
	a := newAdapter(t, backend, Config{})

	for _, hs := range []string{"G", "g", "Z"} {
		_, err := a.Positions(context.Background(), instant, london, domain.EphemerisOptions{HouseSystem: hs})
		require.Error(t, err, hs)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, hs)
	}
	assert.Equal(t, SidmLahiri, backend.mode, "backend must not be called")
}

func TestPositions_Sidereal(t *testing.T) {
	backend := &fakeBackend{}
	a := newAdapter(t, backend, Config{})

	res, err := a.Positions(context.Background(), instant, london, domain.EphemerisOptions{Zodiac: domain.ZodiacSidereal})
	require.NoError(t, err)

	assert.Equal(t, SidmLahiri, backend.mode)
	assert.Equal(t, "lahiri", res.Metadata.Options.Ayanamsa)
	assert.NotZero(t, res.Metadata.Flags&int(FlagSidereal))

	sun, _ := res.Body("sun")
	assert.InDelta(t, 349.0, sun.Longitude, 1e-9)
	assert.InDelta(t, 344.0, res.Houses[0].Cusp, 1e-9)
	assert.Equal(t, 1, sun.House)
}

func TestPositions_TropicalAfterSiderealIsClean(t *testing.T) {
	backend := &fakeBackend{}
	a := newAdapter(t, backend, Config{})

	_, err := a.Positions(context.Background(), instant, london, domain.EphemerisOptions{Zodiac: domain.ZodiacSidereal, Ayanamsa: "krishnamurti"})
	require.NoError(t, err)
	res, err := a.Positions(context.Background(), instant, london, domain.EphemerisOptions{Zodiac: domain.ZodiacTropical})
	require.NoError(t, err)

	sun, _ := res.Body("sun")
	assert.Equal(t, 10.0, sun.Longitude)
	assert.Equal(t, 0, res.Metadata.Flags&int(FlagSidereal))
}

func TestPositions_ConcurrentFramesDoNotCrossContaminate(t *testing.T) {
	backend := &fakeBackend{}
	a := newAdapter(t, backend, Config{})

	ayanamsas := []string{"lahiri", "fagan_bradley", "raman", "krishnamurti", "true_citra"}
	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			opts := domain.EphemerisOptions{Zodiac: domain.ZodiacTropical}
			want := 10.0
			if i%2 == 1 {
				name := ayanamsas[i%len(ayanamsas)]
				opts = domain.EphemerisOptions{Zodiac: domain.ZodiacSidereal, Ayanamsa: name}
				want = 360 + 10 - offsetFor(SidMode(name))
			}
			res, err := a.Positions(context.Background(), instant, london, opts)
			if err != nil {
				errs <- err
				return
			}
			sun, _ := res.Body("sun")
			if math.Abs(sun.Longitude-want) > 1e-9 {
				errs <- fmt.Errorf("call %d: sun %.4f, want %.4f", i, sun.Longitude, want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Zero(t, backend.overlaps.Load(), "backend calls overlapped")
}

func TestPositions_ComputationErrors(t *testing.T) {
	boom := errors.New("ephemeris file not found")

	backend := &fakeBackend{calcErr: map[int32]error{Mars: boom}}
	a := newAdapter(t, backend, Config{})
	_, err := a.Positions(context.Background(), instant, london, domain.EphemerisOptions{})
	require.ErrorIs(t, err, domain.ErrComputationFailure)
	require.ErrorIs(t, err, boom)
	var compErr *domain.ComputationError
	require.True(t, errors.As(err, &compErr))
	assert.Equal(t, "Mars", compErr.Body)

	backend = &fakeBackend{housesErr: boom}
	a = newAdapter(t, backend, Config{})
	_, err = a.Positions(context.Background(), instant, london, domain.EphemerisOptions{HouseSystem: "k"})
	require.True(t, errors.As(err, &compErr))
	assert.Equal(t, "K", compErr.HouseSystem)
	assert.Equal(t, london.Latitude, compErr.Latitude)
}

func TestPositions_InvalidInput(t *testing.T) {
	a := newAdapter(t, &fakeBackend{}, Config{})
	_, err := a.Positions(context.Background(), instant, domain.Coordinates{Longitude: math.Inf(1)}, domain.EphemerisOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPositions_Angles(t *testing.T) {
	a := newAdapter(t, &fakeBackend{}, Config{})
	res, err := a.Positions(context.Background(), instant, london, domain.EphemerisOptions{})
	require.NoError(t, err)

	_, hasVertex := res.Angle(domain.AngleVertex)
	assert.False(t, hasVertex)
	dc, ok := res.Angle(domain.AngleDescendant)
	require.True(t, ok)
	assert.Equal(t, 185.0, dc.Longitude)
	ic, ok := res.Angle(domain.AngleImumCoeli)
	require.True(t, ok)
	assert.Equal(t, 95.0, ic.Longitude)
	for _, angle := range res.Angles {
		assert.GreaterOrEqual(t, angle.Longitude, 0.0)
		assert.Less(t, angle.Longitude, 360.0)
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil, Config{})
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)

	_, err = New(&fakeBackend{}, Config{Engine: domain.EngineJPL})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = New(&fakeBackend{}, Config{Engine: domain.EngineDemo})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	backend := &fakeBackend{}
	a, err := New(backend, Config{
		Engine:      domain.EngineJPL,
		DataPath:    "/usr/share/ephe",
		JPLFile:     "de431.eph",
		LicenseKey:  "key-1",
		LicenseFile: "/etc/swiss.lic",
	})
	require.NoError(t, err)
	assert.Equal(t, "/usr/share/ephe", backend.ephePath)
	assert.Equal(t, "de431.eph", backend.jplFile)

	res, err := a.Positions(context.Background(), instant, london, domain.EphemerisOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.EngineJPL, res.Metadata.Engine)
	require.NotNil(t, res.Metadata.License)
	assert.Equal(t, "key-1", res.Metadata.License.Key)

	a.Close()
	assert.True(t, backend.closed)
}

func TestConfigFromSettings(t *testing.T) {
	cfg := ConfigFromSettings(domain.SwissSettings{Backend: domain.SwissBackendMoshier, DefaultHouseSystem: "W"})
	assert.Equal(t, domain.EngineMoshier, cfg.Engine)
	assert.Equal(t, "W", cfg.DefaultHouseSystem)

	a := newAdapter(t, &fakeBackend{}, cfg)
	res, err := a.Positions(context.Background(), instant, london, domain.EphemerisOptions{})
	require.NoError(t, err)
	assert.Equal(t, "W", res.Metadata.Options.HouseSystem)
	assert.Equal(t, int(FlagSpeed|FlagMoshier), res.Metadata.Flags)
}

func TestSidMode(t *testing.T) {
	assert.Equal(t, SidmFaganBradley, SidMode("Fagan/Bradley"))
	assert.Equal(t, SidmTrueCitra, SidMode("True Citra"))
	assert.Equal(t, SidmLahiri, SidMode("no-such-scheme"))
	assert.Equal(t, SidmLahiri, SidMode(""))
}

func TestHouseIndex(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{1, 1},
		{1.5, 1},
		{12.9, 12},
		{13.2, 1},
		{0.5, 12},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, houseIndex(tt.in), "%v", tt.in)
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/providers"
	"github.com/custodia-labs/almanac/internal/providers/ephemeris/analytic"
	"github.com/custodia-labs/almanac/internal/providers/ephemeris/demo"
	"github.com/custodia-labs/almanac/internal/providers/ephemeris/swiss"
	"github.com/custodia-labs/almanac/internal/providers/qimen"
)

// fakeBackend satisfies swiss.Backend without the native library.
type fakeBackend struct {
	closed bool
}

func (f *fakeBackend) Version() string { return "fake" }
func (f *fakeBackend) SetEphePath(string) {}
func (f *fakeBackend) SetJPLFile(string) {}
func (f *fakeBackend) SetSidMode(int32) {}
func (f *fakeBackend) Close() { f.closed = true }
func (f *fakeBackend) CalcUT(float64, int32, int32) (swiss.Position, error) {
	return swiss.Position{}, nil
}

func (f *fakeBackend) HousesEx2(float64, int32, float64, float64, byte) (swiss.Houses, error) {
	return swiss.Houses{}, nil
}

func (f *fakeBackend) HousePos(float64, float64, float64, byte, float64, float64) (float64, error) {
	return 1, nil
}

func unwrapEphemeris(t *testing.T, reg *ProviderRegistry) any {
	t.Helper()
	eph, err := reg.Ephemeris()
	require.NoError(t, err)
	limited, ok := eph.(*providers.RateLimited)
	require.True(t, ok, "ephemeris should be rate limited")
	return limited.Unwrap()
}

func registered(reg *ProviderRegistry) map[domain.ProviderKey]bool {
	out := map[domain.ProviderKey]bool{}
	for _, status := range reg.ListStatus() {
		out[status.Key] = status.Registered
	}
	return out
}

func TestBuildRegistry_Analytic(t *testing.T) {
	settings := domain.DefaultRuntimeSettings()
	settings.Engine = domain.EngineSelectAnalytic

	reg, closer, err := BuildRegistry(settings, nil)
	require.NoError(t, err)
	defer closer()

	assert.IsType(t, &analytic.Provider{}, unwrapEphemeris(t, reg))
	assert.Equal(t, map[domain.ProviderKey]bool{
		domain.ProviderEphemeris:       true,
		domain.ProviderChineseCalendar: false,
		domain.ProviderZWDS:            false,
		domain.ProviderQMDJ:            true,
		domain.ProviderFS:              true,
		domain.ProviderHD:              true,
		domain.ProviderGK:              true,
	}, registered(reg))

	qmdj, err := reg.QMDJ()
	require.NoError(t, err)
	assert.IsType(t, &qimen.LoShu{}, qmdj)
}

func TestBuildRegistry_AutoFallsBackToAnalytic(t *testing.T) {
	settings := domain.DefaultRuntimeSettings()
	settings.Swiss.DataPath = "/usr/share/swisseph"

	opener := func() (swiss.Backend, error) { return nil, swiss.ErrUnavailable }
	reg, closer, err := BuildRegistry(settings, opener)
	require.NoError(t, err)
	defer closer()

	assert.IsType(t, &analytic.Provider{}, unwrapEphemeris(t, reg))
}

func TestBuildRegistry_AutoPrefersSwiss(t *testing.T) {
	settings := domain.DefaultRuntimeSettings()
	settings.Swiss.Enabled = true
	backend := &fakeBackend{}

	reg, closer, err := BuildRegistry(settings, func() (swiss.Backend, error) { return backend, nil })
	require.NoError(t, err)

	assert.IsType(t, &swiss.Adapter{}, unwrapEphemeris(t, reg))
	closer()
	assert.True(t, backend.closed)
}

func TestBuildRegistry_AutoWithoutSwissSettingsSkipsOpener(t *testing.T) {
	called := false
	opener := func() (swiss.Backend, error) {
		called = true
		return &fakeBackend{}, nil
	}

	reg, closer, err := BuildRegistry(domain.DefaultRuntimeSettings(), opener)
	require.NoError(t, err)
	defer closer()

	assert.False(t, called)
	assert.IsType(t, &analytic.Provider{}, unwrapEphemeris(t, reg))
}

func TestBuildRegistry_SwissRequired(t *testing.T) {
	settings := domain.DefaultRuntimeSettings()
	settings.Engine = domain.EngineSelectSwiss

	_, _, err := BuildRegistry(settings, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, swiss.ErrUnavailable))

	_, _, err = BuildRegistry(settings, func() (swiss.Backend, error) { return nil, errors.New("no libswe") })
	assert.ErrorContains(t, err, "no libswe")
}

func TestBuildRegistry_Demo(t *testing.T) {
	settings := domain.DefaultRuntimeSettings()
	settings.DemoProviders = true
	settings.Engine = domain.EngineSelectDemo

	reg, closer, err := BuildRegistry(settings, nil)
	require.NoError(t, err)
	defer closer()

	assert.IsType(t, &demo.Provider{}, unwrapEphemeris(t, reg))
	for key, ok := range registered(reg) {
		assert.True(t, ok, key)
	}
	qmdj, err := reg.QMDJ()
	require.NoError(t, err)
	assert.IsType(t, &qimen.Demo{}, qmdj)
}

func TestBuildRegistry_InvalidSettings(t *testing.T) {
	settings := domain.DefaultRuntimeSettings()
	settings.Environment = domain.EnvProduction
	settings.DemoProviders = true

	_, _, err := BuildRegistry(settings, nil)

	assert.ErrorIs(t, err, domain.ErrDemoInProduction)
}

func TestBuildRegistry_CalculatorsUseRegisteredEphemeris(t *testing.T) {
	settings := domain.DefaultRuntimeSettings()
	settings.Engine = domain.EngineSelectAnalytic

	reg, closer, err := BuildRegistry(settings, nil)
	require.NoError(t, err)
	defer closer()

	calc := NewCalculatorService(reg)
	graph, err := calc.BodyGraph(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Len(t, graph.Activations, 11)
	assert.NotEmpty(t, graph.Type)

	profile, err := calc.GeneKeys(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Len(t, profile.Spheres, 4)
}

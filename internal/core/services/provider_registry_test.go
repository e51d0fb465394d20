package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

func TestNewProviderRegistry(t *testing.T) {
	registry := NewProviderRegistry()
	require.NotNil(t, registry)

	for _, status := range registry.ListStatus() {
		assert.False(t, status.Registered, status.Key)
	}
}

func TestProviderRegistry_RegisterAndGet(t *testing.T) {
	registry := NewProviderRegistry()
	fs := &mockFengShui{}

	require.NoError(t, registry.Register(domain.ProviderFS, fs))

	impl, err := registry.Get(domain.ProviderFS)
	require.NoError(t, err)
	assert.Same(t, fs, impl)

	typed, err := registry.FengShui()
	require.NoError(t, err)
	assert.Same(t, fs, typed)
}

func TestProviderRegistry_LastRegistrationWins(t *testing.T) {
	registry := NewProviderRegistry()
	first := &mockEphemeris{longitude: 1}
	second := &mockEphemeris{longitude: 2}

	require.NoError(t, registry.Register(domain.ProviderEphemeris, first))
	require.NoError(t, registry.Register(domain.ProviderEphemeris, second))

	eph, err := registry.Ephemeris()
	require.NoError(t, err)
	assert.Same(t, second, eph)
}

func TestProviderRegistry_Register_Errors(t *testing.T) {
	registry := NewProviderRegistry()

	err := registry.Register("astrolabe", &mockFengShui{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = registry.Register(domain.ProviderFS, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = registry.Register(domain.ProviderEphemeris, &mockFengShui{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "EphemerisProvider")

	_, err = registry.Get(domain.ProviderEphemeris)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestProviderRegistry_UnavailableCarriesHint(t *testing.T) {
	registry := NewProviderRegistry()

	_, err := registry.QMDJ()
	require.Error(t, err)

	var unavailable *domain.ProviderUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, domain.ProviderQMDJ, unavailable.Key)
	assert.Equal(t, domain.ProviderInfoFor(domain.ProviderQMDJ).Hint, unavailable.Hint)
	assert.Contains(t, err.Error(), `"qmdj"`)
}

func TestProviderRegistry_TypedGettersWhenEmpty(t *testing.T) {
	registry := NewProviderRegistry()

	getters := map[string]func() error{
		"ephemeris":       func() error { _, err := registry.Ephemeris(); return err },
		"fs":              func() error { _, err := registry.FengShui(); return err },
		"hd":              func() error { _, err := registry.HumanDesign(); return err },
		"gk":              func() error { _, err := registry.GeneKeys(); return err },
		"qmdj":            func() error { _, err := registry.QMDJ(); return err },
		"chineseCalendar": func() error { _, err := registry.ChineseCalendar(); return err },
		"zwds":            func() error { _, err := registry.ZWDS(); return err },
	}
	for name, get := range getters {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, get(), domain.ErrProviderUnavailable)
		})
	}
}

func TestProviderRegistry_Unregister(t *testing.T) {
	registry := NewProviderRegistry()
	require.NoError(t, registry.Register(domain.ProviderFS, &mockFengShui{}))

	registry.Unregister(domain.ProviderFS)

	_, err := registry.FengShui()
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)

	// Unregistering a missing role is a no-op.
	registry.Unregister(domain.ProviderFS)
}

func TestProviderRegistry_ListStatus(t *testing.T) {
	registry := NewProviderRegistry()
	require.NoError(t, registry.Register(domain.ProviderFS, &mockFengShui{}))

	statuses := registry.ListStatus()
	require.Len(t, statuses, len(domain.AllProviderKeys()))

	for i, key := range domain.AllProviderKeys() {
		assert.Equal(t, key, statuses[i].Key)
		assert.Equal(t, domain.ProviderInfoFor(key).Name, statuses[i].Name)
		assert.NotEmpty(t, statuses[i].Description)
	}

	fs := statuses[4]
	assert.Equal(t, domain.ProviderFS, fs.Key)
	assert.True(t, fs.Registered)
	assert.Empty(t, fs.ErrorHint)

	eph := statuses[0]
	assert.False(t, eph.Registered)
	assert.Equal(t, domain.ProviderInfoFor(domain.ProviderEphemeris).Hint, eph.ErrorHint)
}

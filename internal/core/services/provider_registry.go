package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/core/ports/driving"
	"github.com/custodia-labs/almanac/internal/logger"
)

// Ensure ProviderRegistry implements the interface.
var _ driving.ProviderRegistry = (*ProviderRegistry)(nil)

// ProviderRegistry maps each calculator role to at most one implementation.
type ProviderRegistry struct {
	mu    sync.RWMutex
	impls map[domain.ProviderKey]any
}

// NewProviderRegistry creates an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		impls: make(map[domain.ProviderKey]any),
	}
}

// Register installs impl for key, replacing any earlier registration.
func (r *ProviderRegistry) Register(key domain.ProviderKey, impl any) error {
	if !key.IsValid() {
		return &domain.ValidationError{Field: "key", Message: fmt.Sprintf("unknown provider key %q", key)}
	}
	if impl == nil {
		return &domain.ValidationError{Field: "impl", Message: "implementation is required"}
	}
	if !satisfies(key, impl) {
		return fmt.Errorf("%w: %T does not implement %s", domain.ErrUnsupportedType, impl, domain.ProviderInfoFor(key).Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, replaced := r.impls[key]; replaced {
		logger.Debug("Replacing %s provider with %T", key, impl)
	} else {
		logger.Debug("Registered %s provider %T", key, impl)
	}
	r.impls[key] = impl
	return nil
}

// satisfies checks impl against the capability interface of the role.
func satisfies(key domain.ProviderKey, impl any) bool {
	var ok bool
	switch key {
	case domain.ProviderEphemeris:
		_, ok = impl.(driven.EphemerisProvider)
	case domain.ProviderChineseCalendar:
		_, ok = impl.(driven.ChineseCalendarProvider)
	case domain.ProviderZWDS:
		_, ok = impl.(driven.ZWDSProvider)
	case domain.ProviderQMDJ:
		_, ok = impl.(driven.QMDJProvider)
	case domain.ProviderFS:
		_, ok = impl.(driven.FengShuiProvider)
	case domain.ProviderHD:
		_, ok = impl.(driven.HumanDesignProvider)
	case domain.ProviderGK:
		_, ok = impl.(driven.GeneKeysProvider)
	}
	return ok
}

// Unregister removes any implementation for key.
func (r *ProviderRegistry) Unregister(key domain.ProviderKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.impls, key)
}

// Get returns the implementation for key.
func (r *ProviderRegistry) Get(key domain.ProviderKey) (any, error) {
	r.mu.RLock()
	impl, ok := r.impls[key]
	r.mu.RUnlock()
	if !ok {
		return nil, &domain.ProviderUnavailableError{Key: key, Hint: domain.ProviderInfoFor(key).Hint}
	}
	return impl, nil
}

func lookup[T any](r *ProviderRegistry, key domain.ProviderKey) (T, error) {
	var zero T
	impl, err := r.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := impl.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T registered under %s", domain.ErrUnsupportedType, impl, key)
	}
	return typed, nil
}

// Ephemeris returns the ephemeris provider.
func (r *ProviderRegistry) Ephemeris() (driven.EphemerisProvider, error) {
	return lookup[driven.EphemerisProvider](r, domain.ProviderEphemeris)
}

// FengShui returns the Feng Shui provider.
func (r *ProviderRegistry) FengShui() (driven.FengShuiProvider, error) {
	return lookup[driven.FengShuiProvider](r, domain.ProviderFS)
}

// HumanDesign returns the Human Design provider.
func (r *ProviderRegistry) HumanDesign() (driven.HumanDesignProvider, error) {
	return lookup[driven.HumanDesignProvider](r, domain.ProviderHD)
}

// GeneKeys returns the Gene Keys provider.
func (r *ProviderRegistry) GeneKeys() (driven.GeneKeysProvider, error) {
	return lookup[driven.GeneKeysProvider](r, domain.ProviderGK)
}

// QMDJ returns the Qi Men Dun Jia provider.
func (r *ProviderRegistry) QMDJ() (driven.QMDJProvider, error) {
	return lookup[driven.QMDJProvider](r, domain.ProviderQMDJ)
}

// ChineseCalendar returns the Chinese calendar provider.
func (r *ProviderRegistry) ChineseCalendar() (driven.ChineseCalendarProvider, error) {
	return lookup[driven.ChineseCalendarProvider](r, domain.ProviderChineseCalendar)
}

// ZWDS returns the Zi Wei Dou Shu provider.
func (r *ProviderRegistry) ZWDS() (driven.ZWDSProvider, error) {
	return lookup[driven.ZWDSProvider](r, domain.ProviderZWDS)
}

// ListStatus reports every role in registry order.
func (r *ProviderRegistry) ListStatus() []domain.ProviderStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := domain.AllProviderKeys()
	statuses := make([]domain.ProviderStatus, 0, len(keys))
	for _, key := range keys {
		info := domain.ProviderInfoFor(key)
		_, registered := r.impls[key]
		status := domain.ProviderStatus{
			Key:         key,
			Registered:  registered,
			Name:        info.Name,
			Description: info.Description,
		}
		if !registered {
			status.ErrorHint = info.Hint
		}
		statuses = append(statuses, status)
	}
	return statuses
}

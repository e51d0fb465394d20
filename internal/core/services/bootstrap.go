package services

import (
	"fmt"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/logger"
	"github.com/custodia-labs/almanac/internal/providers"
	"github.com/custodia-labs/almanac/internal/providers/chinese"
	"github.com/custodia-labs/almanac/internal/providers/ephemeris/analytic"
	"github.com/custodia-labs/almanac/internal/providers/ephemeris/demo"
	"github.com/custodia-labs/almanac/internal/providers/ephemeris/swiss"
	"github.com/custodia-labs/almanac/internal/providers/fengshui"
	"github.com/custodia-labs/almanac/internal/providers/genekeys"
	"github.com/custodia-labs/almanac/internal/providers/humandesign"
	"github.com/custodia-labs/almanac/internal/providers/qimen"
)

type registration struct {
	key  domain.ProviderKey
	impl any
}

// SwissOpener opens the native Swiss Ephemeris library.
type SwissOpener func() (swiss.Backend, error)

// BuildRegistry registers every calculator role allowed by settings.
// The returned closer releases the native library when one was opened.
func BuildRegistry(settings domain.RuntimeSettings, openSwiss SwissOpener) (*ProviderRegistry, func(), error) {
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}
	logger.Section("Providers")

	eph, closer, err := selectEphemeris(settings, openSwiss)
	if err != nil {
		return nil, nil, err
	}
	limited := providers.NewRateLimited(eph, settings.RateLimit.RequestsPerSecond, settings.RateLimit.Burst)

	var qmdj driven.QMDJProvider = qimen.NewLoShu()
	if settings.Engine == domain.EngineSelectDemo {
		qmdj = qimen.NewDemo()
	}

	reg := NewProviderRegistry()
	impls := []registration{
		{domain.ProviderEphemeris, limited},
		{domain.ProviderQMDJ, qmdj},
		{domain.ProviderFS, fengshui.New()},
		{domain.ProviderHD, humandesign.New(limited)},
		{domain.ProviderGK, genekeys.New(limited)},
	}
	if settings.DemoProviders {
		logger.Warn("Demo providers enabled; outputs are not physically meaningful")
		impls = append(impls,
			registration{domain.ProviderChineseCalendar, chinese.NewDemoCalendar()},
			registration{domain.ProviderZWDS, chinese.NewDemoZWDS()},
		)
	}
	for _, entry := range impls {
		if err := reg.Register(entry.key, entry.impl); err != nil {
			closer()
			return nil, nil, fmt.Errorf("register %s: %w", entry.key, err)
		}
	}
	return reg, closer, nil
}

// selectEphemeris picks the ephemeris engine for settings.Engine.
func selectEphemeris(settings domain.RuntimeSettings, openSwiss SwissOpener) (driven.EphemerisProvider, func(), error) {
	noop := func() {}
	switch settings.Engine {
	case domain.EngineSelectAnalytic:
		logger.Debug("Ephemeris: analytic")
		return analytic.New(), noop, nil
	case domain.EngineSelectDemo:
		logger.Debug("Ephemeris: demo")
		return demo.New(), noop, nil
	case domain.EngineSelectSwiss:
		adapter, err := openAdapter(settings.Swiss, openSwiss)
		if err != nil {
			return nil, nil, fmt.Errorf("swiss engine: %w", err)
		}
		logger.Debug("Ephemeris: swiss")
		return adapter, adapter.Close, nil
	default:
		if settings.Swiss.IsEnabled() {
			adapter, err := openAdapter(settings.Swiss, openSwiss)
			if err == nil {
				logger.Debug("Ephemeris: swiss")
				return adapter, adapter.Close, nil
			}
			logger.Warn("Swiss Ephemeris unavailable, using analytic engine: %v", err)
		}
		logger.Debug("Ephemeris: analytic")
		return analytic.New(), noop, nil
	}
}

func openAdapter(cfg domain.SwissSettings, openSwiss SwissOpener) (*swiss.Adapter, error) {
	if openSwiss == nil {
		return nil, swiss.ErrUnavailable
	}
	backend, err := openSwiss()
	if err != nil {
		return nil, err
	}
	adapter, err := swiss.New(backend, swiss.ConfigFromSettings(cfg))
	if err != nil {
		backend.Close()
		return nil, err
	}
	return adapter, nil
}

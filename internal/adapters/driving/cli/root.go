// Package cli implements the almanac command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/custodia-labs/almanac/internal/adapters/driven/config/file"
	"github.com/custodia-labs/almanac/internal/adapters/driven/events/mqtt"
	"github.com/custodia-labs/almanac/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/almanac/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/almanac/internal/config"
	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
	"github.com/custodia-labs/almanac/internal/core/ports/driving"
	"github.com/custodia-labs/almanac/internal/core/services"
	"github.com/custodia-labs/almanac/internal/logger"
	"github.com/custodia-labs/almanac/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgFile string
	verbose bool
)

// settingsWatcher reloads persisted user settings while a long-running
// command is active.
type settingsWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Services wired by initServices or injected with SetServices.
var (
	chartService      driving.ChartService
	calculatorService driving.CalculatorService
	normaliseService  driving.NormaliseService
	datasetService    driving.DatasetService
	providerRegistry  driving.ProviderRegistry
	weightsService    driving.WeightsService
	watcher           settingsWatcher
	runtimeSettings   = domain.DefaultRuntimeSettings()

	swissOpener   services.SwissOpener
	servicesReady bool
	closers       []func()
)

// Services groups the driving ports used by the commands.
type Services struct {
	Chart      driving.ChartService
	Calculator driving.CalculatorService
	Normalise  driving.NormaliseService
	Dataset    driving.DatasetService
	Registry   driving.ProviderRegistry
	Weights    driving.WeightsService
	Settings   domain.RuntimeSettings
}

var rootCmd = &cobra.Command{
	Use:   "almanac",
	Short: "Compute charts and normalise divination datasets",
	Long: `Almanac computes planetary positions, houses and angles through a
pluggable ephemeris provider, runs the traditional calculators built on
them, and normalises the resulting dataset rows.

Configuration is read from ~/.almanac/config.toml (or --config) and
ALMANAC_* environment variables, e.g. ALMANAC_SWISS_DATA_PATH.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.almanac/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command and releases any opened resources.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// SetSwissOpener installs the function used to open the native ephemeris.
func SetSwissOpener(opener services.SwissOpener) {
	swissOpener = opener
}

// SetServices injects preconfigured services and skips config loading.
func SetServices(s *Services) {
	chartService = s.Chart
	calculatorService = s.Calculator
	normaliseService = s.Normalise
	datasetService = s.Dataset
	providerRegistry = s.Registry
	weightsService = s.Weights
	runtimeSettings = s.Settings
	servicesReady = true
}

func prepare(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if servicesReady {
		return nil
	}
	return initServices()
}

// initServices loads runtime settings and wires every service.
func initServices() error {
	v := viper.New()
	if err := config.Configure(v, cfgFile); err != nil {
		return err
	}
	settings, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	registry, closeRegistry, err := services.BuildRegistry(settings, swissOpener)
	if err != nil {
		return fmt.Errorf("building providers: %w", err)
	}
	closers = append(closers, closeRegistry)

	var store driven.DatasetStore
	switch settings.Store.Driver {
	case "sqlite":
		db, err := sqlite.NewStore(settings.Store.DataDir)
		if err != nil {
			return fmt.Errorf("opening dataset store: %w", err)
		}
		closers = append(closers, func() { _ = db.Close() })
		store = db.DatasetStore()
		logger.Debug("Dataset store: %s", db.Path())
	default:
		store = memory.NewDatasetStore()
	}

	publisher, err := mqtt.FromSettings(settings.MQTT)
	if err != nil {
		return fmt.Errorf("connecting event publisher: %w", err)
	}
	closers = append(closers, func() { _ = publisher.Close() })

	settingsStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	weights := services.NewWeightsService(settingsStore)

	pipeline, err := buildPipeline(weights)
	if err != nil {
		return err
	}

	SetServices(&Services{
		Chart:      services.NewChartService(registry, services.DefaultBatchParallelism),
		Calculator: services.NewCalculatorService(registry),
		Normalise:  services.NewNormaliseService(pipeline),
		Dataset:    services.NewDatasetService(store, publisher),
		Registry:   registry,
		Weights:    weights,
		Settings:   settings,
	})
	watcher = settingsStore
	return nil
}

// buildPipeline runs the default passes and then applies the weights
// current at call time, so reloaded settings take effect immediately.
func buildPipeline(weights driving.WeightsService) (*postprocessors.Pipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	names := append([]string{postprocessors.DirectionProcessor}, postprocessors.DefaultOrder...)
	pipeline, err := registry.BuildPipeline(names, nil)
	if err != nil {
		return nil, fmt.Errorf("building normalise pipeline: %w", err)
	}
	pipeline.Add(currentWeights{weights: weights})
	logger.Debug("Normalise pipeline: %v", pipeline.Names())
	return pipeline, nil
}

// currentWeights reapplies the persisted per-system weights.
type currentWeights struct {
	weights driving.WeightsService
}

func (currentWeights) Name() string { return postprocessors.WeightsProcessor }

func (p currentWeights) Process(_ context.Context, rows []domain.DatasetRow) ([]domain.DatasetRow, error) {
	return p.weights.Reapply(rows), nil
}

func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}

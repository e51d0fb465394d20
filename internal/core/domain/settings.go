package domain

import (
	"errors"
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// Environment is the deployment environment.
type Environment string

// Environments.
const (
	EnvDevelopment Environment = "development"
	EnvTest        Environment = "test"
	EnvProduction  Environment = "production"
)

// IsValid returns true if the environment is recognised.
func (e Environment) IsValid() bool {
	switch e {
	case EnvDevelopment, EnvTest, EnvProduction:
		return true
	default:
		return false
	}
}

// EngineSelection picks the ephemeris provider at startup.
type EngineSelection string

// Engine selections.
const (
	// EngineAuto prefers the swiss adapter when enabled and available,
	// otherwise the analytic engine.
	EngineAuto EngineSelection = "auto"

	// EngineSelectSwiss requires the swiss adapter.
	EngineSelectSwiss EngineSelection = "swiss"

	// EngineSelectAnalytic always uses the analytic engine.
	EngineSelectAnalytic EngineSelection = "analytic"

	// EngineSelectDemo uses the deterministic demo engine.
	EngineSelectDemo EngineSelection = "demo"
)

// IsValid returns true if the selection is recognised.
func (s EngineSelection) IsValid() bool {
	switch s {
	case EngineAuto, EngineSelectSwiss, EngineSelectAnalytic, EngineSelectDemo:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the selection.
func (s EngineSelection) Description() string {
	switch s {
	case EngineAuto:
		return "Auto (swiss when enabled, analytic otherwise)"
	case EngineSelectSwiss:
		return "Swiss Ephemeris (native library)"
	case EngineSelectAnalytic:
		return "Analytic (Keplerian elements + lunar series)"
	case EngineSelectDemo:
		return "Demo (deterministic, not physically accurate)"
	default:
		return unknownDescription
	}
}

// SwissBackend selects the ephemeris files used by the swiss adapter.
type SwissBackend string

// Swiss backends.
const (
	SwissBackendSwiss   SwissBackend = "swiss"
	SwissBackendMoshier SwissBackend = "moshier"
	SwissBackendJPL     SwissBackend = "jpl"
)

// ParseSwissBackend accepts common aliases and defaults to swiss.
func ParseSwissBackend(value string) SwissBackend {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "moshier", "mosheph":
		return SwissBackendMoshier
	case "jpl", "jpleph", "de430", "de431":
		return SwissBackendJPL
	default:
		return SwissBackendSwiss
	}
}

// SwissSettings configures the high-precision adapter.
type SwissSettings struct {
	Enabled            bool
	Backend            SwissBackend
	DataPath           string
	JPLFile            string
	DefaultHouseSystem string
	DefaultAyanamsa    string
	LicenseKey         string
	LicenseFile        string
}

// IsEnabled is true when explicitly enabled or when ephemeris files are configured.
func (s SwissSettings) IsEnabled() bool {
	return s.Enabled || strings.TrimSpace(s.DataPath) != "" || strings.TrimSpace(s.JPLFile) != ""
}

// RateLimitSettings configures provider throttling.
type RateLimitSettings struct {
	RequestsPerSecond float64
	Burst             int
}

// StoreSettings selects dataset persistence.
type StoreSettings struct {
	// Driver is memory or sqlite.
	Driver  string
	DataDir string
}

// MQTTSettings configures dataset event publishing. An empty broker disables it.
type MQTTSettings struct {
	Broker   string
	Topic    string
	ClientID string
}

// RuntimeSettings is the validated process configuration.
type RuntimeSettings struct {
	Environment   Environment
	AppVersion    string
	DemoProviders bool
	Engine        EngineSelection
	Swiss         SwissSettings
	RateLimit     RateLimitSettings
	Store         StoreSettings
	MQTT          MQTTSettings
}

// DefaultRuntimeSettings returns development defaults.
func DefaultRuntimeSettings() RuntimeSettings {
	return RuntimeSettings{
		Environment:   EnvDevelopment,
		DemoProviders: false,
		Engine:        EngineAuto,
		Swiss: SwissSettings{
			Backend:            SwissBackendSwiss,
			DefaultHouseSystem: DefaultHouseSystem,
			DefaultAyanamsa:    "lahiri",
		},
		RateLimit: RateLimitSettings{RequestsPerSecond: 2, Burst: 120},
		Store:     StoreSettings{Driver: "memory"},
		MQTT:      MQTTSettings{Topic: "almanac/dataset", ClientID: "almanac"},
	}
}

// Validate reports every configuration problem at once.
func (s RuntimeSettings) Validate() error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, &ValidationError{Field: field, Message: msg})
	}

	if !s.Environment.IsValid() {
		add("environment", fmt.Sprintf("unknown environment %q", s.Environment))
	}
	if s.Environment == EnvProduction && strings.TrimSpace(s.AppVersion) == "" {
		add("app_version", "app_version is required in production deployments")
	}
	if s.Environment == EnvProduction && (s.DemoProviders || s.Engine == EngineSelectDemo) {
		errs = append(errs, ErrDemoInProduction)
	}
	if !s.Engine.IsValid() {
		add("ephemeris.engine", fmt.Sprintf("unknown engine %q", s.Engine))
	}
	if s.Engine == EngineSelectDemo && !s.DemoProviders {
		add("ephemeris.engine", "the demo engine requires demo_providers")
	}
	if s.Swiss.Backend == SwissBackendJPL && strings.TrimSpace(s.Swiss.JPLFile) == "" {
		add("swiss.jpl_file", "swiss.jpl_file is required when swiss.engine=jpl")
	}
	if hs := s.Swiss.DefaultHouseSystem; hs != "" && !IsValidHouseSystem(hs) {
		add("swiss.default_house_system", fmt.Sprintf("unsupported house system %q", hs))
	}
	if s.RateLimit.RequestsPerSecond <= 0 {
		add("ratelimit.requests_per_second", "must be positive")
	}
	if s.RateLimit.Burst <= 0 {
		add("ratelimit.burst", "must be a positive integer")
	}
	switch s.Store.Driver {
	case "memory":
	case "sqlite":
		if strings.TrimSpace(s.Store.DataDir) == "" {
			add("store.data_dir", "store.data_dir is required for the sqlite driver")
		}
	default:
		add("store.driver", fmt.Sprintf("unknown store driver %q", s.Store.Driver))
	}
	if s.MQTT.Broker != "" && strings.TrimSpace(s.MQTT.Topic) == "" {
		add("mqtt.topic", "mqtt.topic is required when a broker is configured")
	}

	return errors.Join(errs...)
}

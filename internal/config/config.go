// Package config loads runtime settings from defaults, an optional TOML
// file and ALMANAC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// EnvPrefix prefixes every environment override, e.g. ALMANAC_SWISS_DATA_PATH.
const EnvPrefix = "ALMANAC"

// SwissConfig holds the native ephemeris settings.
type SwissConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Engine             string `mapstructure:"engine"`
	DataPath           string `mapstructure:"data_path"`
	JPLFile            string `mapstructure:"jpl_file"`
	DefaultHouseSystem string `mapstructure:"default_house_system"`
	DefaultAyanamsa    string `mapstructure:"default_ayanamsa"`
	LicenseKey         string `mapstructure:"license_key"`
	LicenseFile        string `mapstructure:"license_file"`
}

// RateLimitConfig throttles ephemeris calls.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// StoreConfig selects dataset persistence.
type StoreConfig struct {
	Driver  string `mapstructure:"driver"`
	DataDir string `mapstructure:"data_dir"`
}

// MQTTConfig configures dataset events.
type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
}

// EphemerisConfig selects the engine.
type EphemerisConfig struct {
	Engine string `mapstructure:"engine"`
}

// Config mirrors the configuration keys.
type Config struct {
	Environment   string          `mapstructure:"environment"`
	AppVersion    string          `mapstructure:"app_version"`
	DemoProviders bool            `mapstructure:"demo_providers"`
	Ephemeris     EphemerisConfig `mapstructure:"ephemeris"`
	Swiss         SwissConfig     `mapstructure:"swiss"`
	RateLimit     RateLimitConfig `mapstructure:"ratelimit"`
	Store         StoreConfig     `mapstructure:"store"`
	MQTT          MQTTConfig      `mapstructure:"mqtt"`
}

// SetDefaults registers a default for every key. Keys without a default
// are not visible to AutomaticEnv during Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := domain.DefaultRuntimeSettings()
	v.SetDefault("environment", string(d.Environment))
	v.SetDefault("app_version", "")
	v.SetDefault("demo_providers", d.DemoProviders)
	v.SetDefault("ephemeris.engine", string(d.Engine))
	v.SetDefault("swiss.enabled", false)
	v.SetDefault("swiss.engine", string(d.Swiss.Backend))
	v.SetDefault("swiss.data_path", "")
	v.SetDefault("swiss.jpl_file", "")
	v.SetDefault("swiss.default_house_system", d.Swiss.DefaultHouseSystem)
	v.SetDefault("swiss.default_ayanamsa", d.Swiss.DefaultAyanamsa)
	v.SetDefault("swiss.license_key", "")
	v.SetDefault("swiss.license_file", "")
	v.SetDefault("ratelimit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("ratelimit.burst", d.RateLimit.Burst)
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.data_dir", "")
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.topic", d.MQTT.Topic)
	v.SetDefault("mqtt.client_id", d.MQTT.ClientID)
}

// Configure wires environment overrides and reads the config file.
// An explicit cfgFile must exist; otherwise ~/.almanac/config.toml is
// read when present.
func Configure(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".almanac"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// Load unmarshals v into runtime settings and validates them.
func Load(v *viper.Viper) (domain.RuntimeSettings, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return domain.RuntimeSettings{}, fmt.Errorf("decoding config: %w", err)
	}
	settings := cfg.Settings()
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Settings maps the raw configuration onto domain settings.
func (c Config) Settings() domain.RuntimeSettings {
	return domain.RuntimeSettings{
		Environment:   domain.Environment(strings.ToLower(strings.TrimSpace(c.Environment))),
		AppVersion:    strings.TrimSpace(c.AppVersion),
		DemoProviders: c.DemoProviders,
		Engine:        domain.EngineSelection(strings.ToLower(strings.TrimSpace(c.Ephemeris.Engine))),
		Swiss: domain.SwissSettings{
			Enabled:            c.Swiss.Enabled,
			Backend:            domain.ParseSwissBackend(c.Swiss.Engine),
			DataPath:           c.Swiss.DataPath,
			JPLFile:            c.Swiss.JPLFile,
			DefaultHouseSystem: strings.ToUpper(strings.TrimSpace(c.Swiss.DefaultHouseSystem)),
			DefaultAyanamsa:    c.Swiss.DefaultAyanamsa,
			LicenseKey:         c.Swiss.LicenseKey,
			LicenseFile:        c.Swiss.LicenseFile,
		},
		RateLimit: domain.RateLimitSettings{
			RequestsPerSecond: c.RateLimit.RequestsPerSecond,
			Burst:             c.RateLimit.Burst,
		},
		Store: domain.StoreSettings{
			Driver:  strings.ToLower(strings.TrimSpace(c.Store.Driver)),
			DataDir: c.Store.DataDir,
		},
		MQTT: domain.MQTTSettings{
			Broker:   c.MQTT.Broker,
			Topic:    c.MQTT.Topic,
			ClientID: c.MQTT.ClientID,
		},
	}
}

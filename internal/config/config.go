// Package config loads runtime configuration from .ls-natal.yaml,
// LSNATAL_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/houses"
	"github.com/litescript/ls-natal/internal/logging"
)

// EnvPrefix is prepended to environment variable names:
// ephemeris.mode is read from LSNATAL_EPHEMERIS_MODE.
const EnvPrefix = "LSNATAL"

// EphemerisConfig selects the position source.
type EphemerisConfig struct {
	Mode        string        `mapstructure:"mode" default:"kepler" validate:"oneof=kepler horizons table auto"`
	TableDir    string        `mapstructure:"table_dir" validate:"required_if=Mode table"`
	HorizonsURL string        `mapstructure:"horizons_url" validate:"omitempty,url"`
	Timeout     time.Duration `mapstructure:"timeout" default:"30s" validate:"gt=0"`
}

// HousesConfig selects the house system and what happens when it is
// undefined at the birth latitude.
type HousesConfig struct {
	System string `mapstructure:"system" default:"placidus" validate:"house_system"`
	Policy string `mapstructure:"policy" default:"fallback" validate:"oneof=fallback fail"`
}

// AspectsConfig tunes aspect detection.
type AspectsConfig struct {
	OrbsFile    string `mapstructure:"orbs_file"`
	BestPerPair bool   `mapstructure:"best_per_pair"`
}

// TimeConfig controls time zone handling.
type TimeConfig struct {
	StrictZones bool   `mapstructure:"strict_zones"`
	DefaultZone string `mapstructure:"default_zone" default:"UTC" validate:"timezone"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host" default:"127.0.0.1" validate:"required"`
	Port            int           `mapstructure:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"10s"`
}

// Config holds all runtime configuration.
type Config struct {
	LogLevel  string          `mapstructure:"log_level" default:"info" validate:"oneof=debug info warn warning error"`
	LogFormat string          `mapstructure:"log_format" default:"console" validate:"oneof=console json"`
	Ephemeris EphemerisConfig `mapstructure:"ephemeris"`
	Houses    HousesConfig    `mapstructure:"houses"`
	Aspects   AspectsConfig   `mapstructure:"aspects"`
	Time      TimeConfig      `mapstructure:"time"`
	Server    ServerConfig    `mapstructure:"server"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("house_system", func(fl validator.FieldLevel) bool {
		_, err := houses.ParseSystem(fl.Field().String())
		return err == nil
	})
}

// Init points viper at the config file and the environment. An empty
// cfgFile searches for .ls-natal.yaml in the working directory and then
// the home directory. A missing file is not an error.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".ls-natal")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "console")
	viper.SetDefault("ephemeris.mode", "kepler")
	viper.SetDefault("ephemeris.table_dir", "")
	viper.SetDefault("ephemeris.horizons_url", "")
	viper.SetDefault("ephemeris.timeout", "30s")
	viper.SetDefault("houses.system", "placidus")
	viper.SetDefault("houses.policy", "fallback")
	viper.SetDefault("aspects.orbs_file", "")
	viper.SetDefault("aspects.best_per_pair", false)
	viper.SetDefault("time.strict_zones", false)
	viper.SetDefault("time.default_zone", "UTC")
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.shutdown_timeout", "10s")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	// Explicit empty strings in a file fall back to the struct defaults.
	if err := defaults.Set(&cfg); err != nil {
		return Config{}, fmt.Errorf("config defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Logger builds the logger described by log_level and log_format.
func (c Config) Logger() *logging.Logger {
	l := logging.New(logging.ParseLevel(c.LogLevel))
	l.SetFormat(logging.ParseFormat(c.LogFormat))
	return l
}

// HouseSystem returns the parsed house system.
func (c Config) HouseSystem() houses.System {
	s, _ := houses.ParseSystem(c.Houses.System)
	return s
}

// HousePolicy returns the parsed degenerate-latitude policy.
func (c Config) HousePolicy() houses.Policy {
	p, _ := houses.ParsePolicy(c.Houses.Policy)
	return p
}

// ProviderConfig translates the ephemeris section for ephem.New.
func (c Config) ProviderConfig(log *logging.Logger) ephem.Config {
	return ephem.Config{
		Mode:        ephem.ParseMode(c.Ephemeris.Mode),
		TableDir:    c.Ephemeris.TableDir,
		HorizonsURL: c.Ephemeris.HorizonsURL,
		Timeout:     c.Ephemeris.Timeout,
		Logger:      log,
	}
}

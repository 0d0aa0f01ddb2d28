// Package config loads ls-salat settings from defaults, an optional YAML
// file and SALAT_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	// Embedded zone database so IANA names resolve on hosts without one.
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-salat/internal/astro"
	"github.com/litescript/ls-salat/internal/logging"
	"github.com/litescript/ls-salat/internal/salat"
)

// EnvPrefix prefixes every environment override, e.g. SALAT_LOCATION_LATITUDE.
const EnvPrefix = "SALAT"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config aggregates runtime configuration.
type Config struct {
	Location    LocationConfig    `yaml:"location"`
	Calculation CalculationConfig `yaml:"calculation"`
	Log         LogConfig         `yaml:"log"`
	Server      ServerConfig      `yaml:"server"`
}

// LocationConfig is the observer and the zone times are shown in.
type LocationConfig struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	TimeZone  string  `yaml:"timezone"`
}

// CalculationConfig selects a method preset and optional overrides.
// Nil or empty fields keep the preset's value.
type CalculationConfig struct {
	Method           salat.Method           `yaml:"method"`
	Madhab           salat.Madhab           `yaml:"madhab"`
	HighLatitudeRule salat.HighLatitudeRule `yaml:"highLatitudeRule" split_words:"true"`
	Rounding         salat.Rounding         `yaml:"rounding"`
	Shafaq           salat.Shafaq           `yaml:"shafaq"`

	FajrAngle    *float64 `yaml:"fajrAngle" split_words:"true"`
	IshaAngle    *float64 `yaml:"ishaAngle" split_words:"true"`
	MaghribAngle *float64 `yaml:"maghribAngle" split_words:"true"`
	IshaInterval *int     `yaml:"ishaInterval" split_words:"true"`

	Adjustments salat.TimeAdjustments `yaml:"adjustments"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout" split_words:"true"`
	WriteTimeout time.Duration `yaml:"writeTimeout" split_words:"true"`
}

// Default returns the built-in configuration: Makkah with the Umm al-Qura
// method.
func Default() *Config {
	return &Config{
		Location: LocationConfig{
			Name:      "Makkah",
			Latitude:  astro.Makkah.Latitude,
			Longitude: astro.Makkah.Longitude,
			TimeZone:  "Asia/Riyadh",
		},
		Calculation: CalculationConfig{
			Method: salat.UmmAlQura,
			Madhab: salat.Shafi,
		},
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Load reads configuration from path (skipped when empty) and the
// environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Coordinates().Validate(); err != nil {
		return fmt.Errorf("%w: location: %w", ErrInvalidConfig, err)
	}
	if _, err := c.TimeZone(); err != nil {
		return fmt.Errorf("%w: location: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Parameters(); err != nil {
		return fmt.Errorf("%w: calculation: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log: unknown level %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("%w: server: negative timeout", ErrInvalidConfig)
	}
	return nil
}

// Coordinates returns the observer position.
func (c *Config) Coordinates() astro.Coordinates {
	return astro.Coordinates{Latitude: c.Location.Latitude, Longitude: c.Location.Longitude}
}

// TimeZone resolves the configured zone. An empty zone is the host's.
func (c *Config) TimeZone() (*time.Location, error) {
	if c.Location.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.Location.TimeZone, err)
	}
	return loc, nil
}

// Parameters builds calculation parameters from the method preset and the
// configured overrides.
func (c *Config) Parameters() (salat.Parameters, error) {
	calc := c.Calculation

	method := calc.Method
	if method == "" {
		method = salat.Other
	}
	cfg := salat.ConfigurationFor(method)

	if calc.Madhab != 0 {
		cfg.Madhab(calc.Madhab)
	}
	if calc.HighLatitudeRule != "" {
		cfg.HighLatitudeRule(calc.HighLatitudeRule)
	}
	if calc.Rounding != "" {
		cfg.Rounding(calc.Rounding)
	}
	cfg.Shafaq(calc.Shafaq)

	if calc.FajrAngle != nil {
		cfg.FajrAngle(*calc.FajrAngle)
	}
	if calc.MaghribAngle != nil {
		cfg.MaghribAngle(*calc.MaghribAngle)
	}
	// An explicit angle replaces a preset interval and vice versa.
	if calc.IshaAngle != nil {
		cfg.IshaInterval(0).IshaAngle(*calc.IshaAngle)
	}
	if calc.IshaInterval != nil {
		cfg.IshaInterval(*calc.IshaInterval)
	}
	cfg.Adjustments(calc.Adjustments)

	return cfg.Build()
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

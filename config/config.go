// Package config loads runtime settings for the legbuild CLI.
//
// Settings come from an optional YAML file, then COUPONLEG_* environment
// variables (a .env file in the working directory is read first).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/meenmo/couponleg/calendar"
	"github.com/meenmo/couponleg/daycount"
	"github.com/meenmo/couponleg/leg"
)

const envPrefix = "COUPONLEG"

var ErrInvalidConfig = errors.New("config: invalid value")

// Config is the complete CLI configuration.
type Config struct {
	Defaults LegDefaults   `mapstructure:"defaults" yaml:"defaults"`
	Logging  LoggingConfig `mapstructure:"logging"  yaml:"logging"`
	Store    StoreConfig   `mapstructure:"store"    yaml:"store"`
	Batch    BatchConfig   `mapstructure:"batch"    yaml:"batch"`
}

// LegDefaults fill in request fields left blank.
type LegDefaults struct {
	Calendar          string `mapstructure:"calendar"           yaml:"calendar"`
	Convention        string `mapstructure:"convention"         yaml:"convention"`
	PaymentAdjustment string `mapstructure:"payment_adjustment" yaml:"payment_adjustment"`
	DayCounter        string `mapstructure:"day_counter"        yaml:"day_counter"`
	Representation    string `mapstructure:"representation"     yaml:"representation"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level       string `mapstructure:"level"       yaml:"level"`  // "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"      yaml:"format"` // "text" or "json"
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// StoreConfig points at the Postgres database used by --store.
type StoreConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// BatchConfig bounds the batch command.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// DefaultConfig is used when neither a file nor the environment says otherwise.
var DefaultConfig = Config{
	Defaults: LegDefaults{
		Calendar:          string(calendar.TARGET),
		Convention:        string(calendar.ModifiedFollowing),
		PaymentAdjustment: string(calendar.Following),
		DayCounter:        "ACT/360",
		Representation:    leg.UpFrontIndexed.String(),
	},
	Logging: LoggingConfig{Level: "info", Format: "text", Environment: "development"},
	Batch:   BatchConfig{Concurrency: 4},
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/couponleg.yaml
//  2. ~/.couponleg/couponleg.yaml
//
// Environment variables override file values, e.g. COUPONLEG_STORE_DSN.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigName("couponleg")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".couponleg"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig
	v.SetDefault("defaults.calendar", d.Defaults.Calendar)
	v.SetDefault("defaults.convention", d.Defaults.Convention)
	v.SetDefault("defaults.payment_adjustment", d.Defaults.PaymentAdjustment)
	v.SetDefault("defaults.day_counter", d.Defaults.DayCounter)
	v.SetDefault("defaults.representation", d.Defaults.Representation)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.environment", d.Logging.Environment)

	v.SetDefault("store.dsn", "")
	v.SetDefault("batch.concurrency", d.Batch.Concurrency)
}

// Validate checks that every default names something the library knows.
func (c *Config) Validate() error {
	if _, err := calendar.ParseCalendar(c.Defaults.Calendar); err != nil {
		return fmt.Errorf("%w: defaults.calendar: %v", ErrInvalidConfig, err)
	}
	if _, err := calendar.ParseConvention(c.Defaults.Convention); err != nil {
		return fmt.Errorf("%w: defaults.convention: %v", ErrInvalidConfig, err)
	}
	if _, err := calendar.ParseConvention(c.Defaults.PaymentAdjustment); err != nil {
		return fmt.Errorf("%w: defaults.payment_adjustment: %v", ErrInvalidConfig, err)
	}
	if _, err := daycount.Parse(c.Defaults.DayCounter); err != nil {
		return fmt.Errorf("%w: defaults.day_counter: %v", ErrInvalidConfig, err)
	}
	if _, err := leg.ParseRepresentation(c.Defaults.Representation); err != nil {
		return fmt.Errorf("%w: defaults.representation: %v", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("%w: batch.concurrency must be positive, got %d", ErrInvalidConfig, c.Batch.Concurrency)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Catalog   ServiceConfig `yaml:"catalog"`
	Analytics ServiceConfig `yaml:"analytics"`
	Storage   StorageConfig `yaml:"storage"`
	Logging   LoggingConfig `yaml:"logging"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

// ServiceConfig configures one HTTP service and its document store.
type ServiceConfig struct {
	Host         string         `yaml:"host"`
	Port         int            `yaml:"port"`
	ReadTimeout  time.Duration  `yaml:"read_timeout"`
	WriteTimeout time.Duration  `yaml:"write_timeout"`
	Database     DatabaseConfig `yaml:"database"`
}

// DatabaseConfig configures a document store database.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// StorageConfig configures store operation behavior.
type StorageConfig struct {
	// Timeout bounds one store round-trip.
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // Enable /metrics endpoints
	Path    string `yaml:"path"`    // Custom path (default: /metrics)
}

// Environment variable names recognized for overrides.
const (
	EnvCatalogPort   = "SHOPSTREAM_CATALOG_PORT"
	EnvCatalogDSN    = "SHOPSTREAM_CATALOG_DSN"
	EnvAnalyticsPort = "SHOPSTREAM_ANALYTICS_PORT"
	EnvAnalyticsDSN  = "SHOPSTREAM_ANALYTICS_DSN"
	EnvLogLevel      = "SHOPSTREAM_LOG_LEVEL"
	EnvLogFormat     = "SHOPSTREAM_LOG_FORMAT"
)

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// Useful for container deployments where no config file is present.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadWithFallback loads from the file when it exists, otherwise from the
// environment alone.
func LoadWithFallback(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return LoadFromEnv()
}

// HasEnvConfig reports whether any SHOPSTREAM_* override is set.
func HasEnvConfig() bool {
	for _, name := range []string{
		EnvCatalogPort, EnvCatalogDSN, EnvAnalyticsPort, EnvAnalyticsDSN,
		EnvLogLevel, EnvLogFormat,
	} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvCatalogPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Catalog.Port = port
		}
	}
	if v := os.Getenv(EnvCatalogDSN); v != "" {
		cfg.Catalog.Database.DSN = v
	}
	if v := os.Getenv(EnvAnalyticsPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Analytics.Port = port
		}
	}
	if v := os.Getenv(EnvAnalyticsDSN); v != "" {
		cfg.Analytics.Database.DSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Catalog.Host == "" {
		cfg.Catalog.Host = "0.0.0.0"
	}
	if cfg.Catalog.Port == 0 {
		cfg.Catalog.Port = 8000
	}
	if cfg.Catalog.ReadTimeout == 0 {
		cfg.Catalog.ReadTimeout = 30 * time.Second
	}
	if cfg.Catalog.WriteTimeout == 0 {
		cfg.Catalog.WriteTimeout = 60 * time.Second
	}
	if cfg.Catalog.Database.DSN == "" {
		cfg.Catalog.Database.DSN = "catalog.db"
	}

	if cfg.Analytics.Host == "" {
		cfg.Analytics.Host = "0.0.0.0"
	}
	if cfg.Analytics.Port == 0 {
		cfg.Analytics.Port = 8001
	}
	if cfg.Analytics.ReadTimeout == 0 {
		cfg.Analytics.ReadTimeout = 30 * time.Second
	}
	if cfg.Analytics.WriteTimeout == 0 {
		cfg.Analytics.WriteTimeout = 60 * time.Second
	}
	if cfg.Analytics.Database.DSN == "" {
		cfg.Analytics.Database.DSN = "analytics.db"
	}

	if cfg.Storage.Timeout == 0 {
		cfg.Storage.Timeout = 5 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	if cfg.Catalog.Port < 1 || cfg.Catalog.Port > 65535 {
		return fmt.Errorf("catalog port %d out of range", cfg.Catalog.Port)
	}
	if cfg.Analytics.Port < 1 || cfg.Analytics.Port > 65535 {
		return fmt.Errorf("analytics port %d out of range", cfg.Analytics.Port)
	}
	if cfg.Catalog.Port == cfg.Analytics.Port {
		return fmt.Errorf("catalog and analytics cannot share port %d", cfg.Catalog.Port)
	}
	if cfg.Catalog.Database.DSN == cfg.Analytics.Database.DSN {
		return fmt.Errorf("catalog and analytics cannot share database %q", cfg.Catalog.Database.DSN)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", cfg.Logging.Format)
	}

	if cfg.Storage.Timeout < 0 {
		return fmt.Errorf("storage timeout must not be negative")
	}

	return nil
}

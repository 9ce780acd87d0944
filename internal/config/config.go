// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Model backends.
const (
	BackendPipeline = "pipeline"
	BackendHTTP     = "http"
)

// DefaultModelPath is the artifact loaded when model.path is unset.
const DefaultModelPath = "best_airbuds_price_predictor.yaml"

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Model     ModelConfig     `yaml:"model"`
	Display   DisplayConfig   `yaml:"display"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ModelConfig selects the scoring backend.
type ModelConfig struct {
	Backend string `yaml:"backend"` // pipeline, http
	Path    string `yaml:"path"`    // pipeline artifact, relative to the working directory
	// Required makes a load failure fatal. When false the server starts with
	// every prediction rejected as unavailable.
	Required *bool           `yaml:"required"`
	HTTP     HTTPModelConfig `yaml:"http"`
}

// IsRequired reports whether a model load failure must stop startup.
// Defaults to true.
func (m *ModelConfig) IsRequired() bool {
	return m.Required == nil || *m.Required
}

// HTTPModelConfig defines the remote scoring service.
type HTTPModelConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DisplayConfig defines how prices are presented.
type DisplayConfig struct {
	Currency string `yaml:"currency"`
}

// RateLimitConfig defines API rate limiting settings. A negative PerSecond
// disables the limiter.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// Enabled reports whether requests are rate limited.
func (r *RateLimitConfig) Enabled() bool {
	return r.PerSecond > 0
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, pretty
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. A .env file next to the config file is loaded
// first; variables already set in the environment win.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := LoadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied, for running
// without a config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadDotEnv loads environment variables from path. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyModelDefaults(&cfg.Model)
	applyDisplayDefaults(&cfg.Display)
	applyRateLimitDefaults(&cfg.RateLimit)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyModelDefaults(m *ModelConfig) {
	if m.Backend == "" {
		m.Backend = BackendPipeline
	}
	if m.Path == "" {
		m.Path = DefaultModelPath
	}
	if m.HTTP.Timeout == 0 {
		m.HTTP.Timeout = 10 * time.Second
	}
}

func applyDisplayDefaults(d *DisplayConfig) {
	if d.Currency == "" {
		d.Currency = "Rs"
	}
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 20
	}
	if r.Burst == 0 {
		r.Burst = 40
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 0 and 65535 (got %d)", cfg.Server.Port))
	}

	switch cfg.Model.Backend {
	case BackendPipeline:
	case BackendHTTP:
		if cfg.Model.HTTP.Endpoint == "" {
			errs = append(
				errs,
				fmt.Errorf("model.http.endpoint is required when backend is http"),
			)
		} else if u, err := url.Parse(cfg.Model.HTTP.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(
				errs,
				fmt.Errorf("model.http.endpoint must be an absolute URL (got %q)", cfg.Model.HTTP.Endpoint),
			)
		}
	default:
		errs = append(
			errs,
			fmt.Errorf(
				"model.backend must be one of: pipeline, http (got %q)",
				cfg.Model.Backend,
			),
		)
	}

	if cfg.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.burst must not be negative"))
	}

	switch cfg.Logging.Format {
	case "text", "json", "pretty":
	default:
		errs = append(
			errs,
			fmt.Errorf("logging.format must be one of: text, json, pretty (got %q)", cfg.Logging.Format),
		)
	}

	return errors.Join(errs...)
}

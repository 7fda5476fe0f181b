// Package config provides the configuration system for uapush.
//
// Values come from UA_* environment variables (optionally seeded from a .env
// file) and are then overridden by functional options:
//
//	cfg, err := config.Load(config.WithTimeout(10 * time.Second))
package config

import (
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	uaerrors "github.com/kart-io/uapush/pkg/errors"
	"github.com/kart-io/uapush/pkg/logger"
)

// DefaultBaseURL is the production Airship API root.
const DefaultBaseURL = "https://go.urbanairship.com/api"

// Config represents the unified configuration structure
type Config struct {
	// Credentials
	AppKey       string `env:"UA_APP_KEY" json:"app_key"`
	MasterSecret string `env:"UA_MASTER_SECRET" json:"-"`

	BaseURL string        `env:"UA_BASE_URL" envDefault:"https://go.urbanairship.com/api" json:"base_url"`
	Timeout time.Duration `env:"UA_TIMEOUT" envDefault:"30s" json:"timeout"`

	Logger    LoggerConfig    `json:"logger"`
	Telemetry TelemetryConfig `json:"telemetry"`
	Cache     CacheConfig     `json:"cache"`

	// Instance-level settings
	LoggerInstance logger.Logger `json:"-"`
}

// LoggerConfig configures logging behavior
type LoggerConfig struct {
	Level  string `env:"UA_LOG_LEVEL" envDefault:"warn" json:"level"`
	Format string `env:"UA_LOG_FORMAT" envDefault:"console" json:"format"`
}

// TelemetryConfig configures OpenTelemetry export
type TelemetryConfig struct {
	Enabled     bool    `env:"UA_TELEMETRY_ENABLED" envDefault:"false" json:"enabled"`
	Endpoint    string  `env:"UA_OTLP_ENDPOINT" envDefault:"localhost:4318" json:"endpoint"`
	ServiceName string  `env:"UA_SERVICE_NAME" envDefault:"uapush" json:"service_name"`
	SampleRate  float64 `env:"UA_TRACE_SAMPLE_RATE" envDefault:"1.0" json:"sample_rate"`
}

// CacheConfig configures the report response cache. An empty RedisURL with
// caching enabled selects the in-memory cache.
type CacheConfig struct {
	Enabled  bool          `env:"UA_CACHE_ENABLED" envDefault:"false" json:"enabled"`
	RedisURL string        `env:"UA_REDIS_URL" json:"redis_url"`
	TTL      time.Duration `env:"UA_CACHE_TTL" envDefault:"5m" json:"ttl"`
}

// Option defines a functional option for configuration
type Option func(*Config) error

var dotenvOnce sync.Once

// LoadEnvFile loads the given .env files into the process environment.
// Variables that are already set are left untouched.
func LoadEnvFile(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return uaerrors.Wrap(err, uaerrors.ErrInvalidConfig, "failed to load env file")
	}
	return nil
}

// Load reads the configuration from the environment, then applies opts and
// validates the result. A .env file in the working directory is read once
// per process if present.
func Load(opts ...Option) (*Config, error) {
	dotenvOnce.Do(func() {
		// the .env file is optional
		_ = godotenv.Load()
	})

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrInvalidConfig, "failed to parse environment")
	}
	return finish(cfg, opts)
}

// New creates a configuration from defaults and opts only; the environment
// is not consulted.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}}); err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrInternal, "failed to apply defaults")
	}
	return finish(cfg, opts)
}

func finish(cfg *Config, opts []Option) (*Config, error) {
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration. Credentials are not required here;
// see RequireCredentials.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return uaerrors.NewConfigError("base URL must be an absolute http(s) URL").WithValue(c.BaseURL)
	}
	if c.Timeout <= 0 {
		return uaerrors.NewConfigError("timeout must be positive").WithValue(c.Timeout)
	}

	if _, err := logger.ParseLevel(c.Logger.Level); err != nil {
		return uaerrors.Wrap(err, uaerrors.ErrInvalidConfig, "invalid log level")
	}
	if c.Logger.Format != "console" && c.Logger.Format != "json" {
		return uaerrors.NewConfigError("log format must be console or json").WithValue(c.Logger.Format)
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return uaerrors.NewConfigError("trace sample rate must be between 0 and 1").WithValue(c.Telemetry.SampleRate)
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return uaerrors.NewConfigError("telemetry is enabled but no OTLP endpoint is set")
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return uaerrors.NewConfigError("cache TTL must be positive").WithValue(c.Cache.TTL)
		}
		if c.Cache.RedisURL != "" {
			if u, err := url.Parse(c.Cache.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
				return uaerrors.NewConfigError("redis URL must use the redis:// or rediss:// scheme")
			}
		}
	}
	return nil
}

// RequireCredentials reports whether both the app key and master secret are
// present. Every API call needs them.
func (c *Config) RequireCredentials() error {
	if c.AppKey == "" || c.MasterSecret == "" {
		return uaerrors.New(uaerrors.ErrMissingCredentials,
			"app key and master secret are required (UA_APP_KEY, UA_MASTER_SECRET)")
	}
	return nil
}

// NewLogger returns LoggerInstance when set, otherwise a zerolog logger
// writing to w at the configured level and format.
func (c *Config) NewLogger(w io.Writer) logger.Logger {
	if c.LoggerInstance != nil {
		return c.LoggerInstance
	}
	level, err := logger.ParseLevel(c.Logger.Level)
	if err != nil {
		level = logger.Warn
	}
	return logger.NewZerolog(w, level, c.Logger.Format)
}

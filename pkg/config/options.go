// Functional options for uapush configuration
package config

import (
	"time"

	uaerrors "github.com/kart-io/uapush/pkg/errors"
	"github.com/kart-io/uapush/pkg/logger"
)

// WithCredentials sets the app key and master secret
func WithCredentials(appKey, masterSecret string) Option {
	return func(c *Config) error {
		if appKey == "" || masterSecret == "" {
			return uaerrors.New(uaerrors.ErrMissingCredentials, "app key and master secret must not be empty")
		}
		c.AppKey = appKey
		c.MasterSecret = masterSecret
		return nil
	}
}

// WithBaseURL points the client at another API root, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(c *Config) error {
		c.BaseURL = baseURL
		return nil
	}
}

// WithTimeout sets the HTTP request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		c.Timeout = timeout
		return nil
	}
}

// WithLogLevel sets the log level name (silent, error, warn, info, debug)
func WithLogLevel(level string) Option {
	return func(c *Config) error {
		c.Logger.Level = level
		return nil
	}
}

// WithLogFormat sets the log format (console or json)
func WithLogFormat(format string) Option {
	return func(c *Config) error {
		c.Logger.Format = format
		return nil
	}
}

// WithLogger sets the logger instance
func WithLogger(l logger.Logger) Option {
	return func(c *Config) error {
		c.LoggerInstance = l
		return nil
	}
}

// WithTelemetry enables OTLP export to endpoint
func WithTelemetry(endpoint string) Option {
	return func(c *Config) error {
		c.Telemetry.Enabled = true
		c.Telemetry.Endpoint = endpoint
		return nil
	}
}

// WithServiceName sets the service name reported in traces
func WithServiceName(name string) Option {
	return func(c *Config) error {
		c.Telemetry.ServiceName = name
		return nil
	}
}

// WithSampleRate sets the trace sampling ratio
func WithSampleRate(rate float64) Option {
	return func(c *Config) error {
		c.Telemetry.SampleRate = rate
		return nil
	}
}

// WithCache enables the report cache with the given ttl
func WithCache(ttl time.Duration) Option {
	return func(c *Config) error {
		c.Cache.Enabled = true
		c.Cache.TTL = ttl
		return nil
	}
}

// WithRedis enables the report cache backed by redis
func WithRedis(redisURL string) Option {
	return func(c *Config) error {
		c.Cache.Enabled = true
		c.Cache.RedisURL = redisURL
		return nil
	}
}

// WithTestDefaults applies test-friendly defaults
func WithTestDefaults() Option {
	return func(c *Config) error {
		c.AppKey = "test-key"
		c.MasterSecret = "test-secret"
		c.Timeout = 5 * time.Second
		c.Logger.Level = "silent"
		c.LoggerInstance = logger.Discard
		return nil
	}
}

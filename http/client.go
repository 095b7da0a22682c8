// Package http provides the HTTP client used to talk to the YouTube Data API,
// with API key authentication, request pacing, rate limit backoff and a
// per-host circuit breaker.
package http

import (
	"errors"
	"net/http"
	"time"
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("http: api key required")

// Config holds HTTP client configuration.
type Config struct {
	// APIKey is the developer key sent as the "key" query parameter.
	APIKey string

	// Timeout for individual HTTP requests
	Timeout time.Duration

	// User agent for HTTP requests
	UserAgent string

	// RequestsPerSecond paces requests per host (0 = unlimited)
	RequestsPerSecond float64

	// Connection pool configuration
	Transport TransportConfig

	// Circuit breaker configuration
	CircuitBreaker CircuitBreakerConfig
}

// TransportConfig configures the HTTP transport (connection pooling).
type TransportConfig struct {
	// MaxIdleConns is the maximum number of idle connections across all hosts.
	// Default: 10
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host.
	// Default: 2
	MaxIdleConnsPerHost int

	// IdleConnTimeout is the maximum amount of time an idle connection can remain open.
	// Default: 90 seconds
	IdleConnTimeout time.Duration

	// ForceAttemptHTTP2 forces HTTP/2 for connections to servers that don't explicitly support it.
	// Default: true
	ForceAttemptHTTP2 bool
}

// DefaultConfig returns sensible defaults for HTTP client configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:           30 * time.Second,
		UserAgent:         "ytexport/1.0",
		RequestsPerSecond: 10,
		Transport:         DefaultTransportConfig(),
		CircuitBreaker:    DefaultCircuitBreakerConfig(),
	}
}

// DefaultTransportConfig returns sensible defaults for HTTP transport configuration.
// Requests are sequential, so the pool stays small.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
}

// New creates an *http.Client whose transport authenticates every request
// with the configured API key and paces it through a RateLimiter.
func New(cfg *Config) (*http.Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.Transport.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Transport.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Transport.IdleConnTimeout,
		ForceAttemptHTTP2:   cfg.Transport.ForceAttemptHTTP2,
	}

	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &Transport{
			Base:      base,
			APIKey:    cfg.APIKey,
			UserAgent: cfg.UserAgent,
			Limiter:   NewRateLimiter(cfg.RequestsPerSecond),
			Breaker:   NewCircuitBreaker(cfg.CircuitBreaker),
		},
	}, nil
}

// Package config manages application configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap/zapcore"
)

// FileName is the config file looked up in the working directory and in
// ~/.config/ytexport.
const FileName = "ytexport.json"

// Config holds all application configuration for an export run.
type Config struct {
	// APIKey is the YouTube Data API v3 developer key.
	APIKey string `json:"api_key"`
	// OutputDir is where the JSON document is written. Empty means the
	// directory containing the executable.
	OutputDir string `json:"output_dir"`
	// Timeout bounds the whole run.
	Timeout Duration `json:"timeout"`

	// RequestsPerSecond paces calls to the Data API (0 = unlimited)
	RequestsPerSecond float64 `json:"requests_per_second"`
	// UserAgent is sent with every API request
	UserAgent string `json:"user_agent"`

	// MaxRetries is the maximum number of retries for a failed API call (0 = fail fast)
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries
	InitialBackoff Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries
	MaxBackoff Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `json:"backoff_multiplier"`

	LogLevel     string `json:"log_level"`
	ShowProgress bool   `json:"show_progress"`
}

// Duration is a time.Duration that reads "30s" style strings as well as
// integer nanoseconds from JSON.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string or integer: %s", b)
	}
	*d = Duration(n)
	return nil
}

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout:           Duration(10 * time.Minute),
		RequestsPerSecond: 10,
		UserAgent:         "ytexport/1.0",
		MaxRetries:        0,
		InitialBackoff:    Duration(1 * time.Second),
		MaxBackoff:        Duration(30 * time.Second),
		BackoffMultiplier: 2.0,
		LogLevel:          "info",
		ShowProgress:      true,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults. An explicit path must exist;
// without one the default locations are optional.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	} else if err := cfg.loadFromDefaultPaths(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultPaths lists the config files tried when no explicit path is given.
func DefaultPaths() []string {
	paths := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ytexport", FileName))
	}
	return paths
}

func (c *Config) loadFromDefaultPaths() error {
	for _, path := range DefaultPaths() {
		err := c.loadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return err
	}
	return os.ErrNotExist
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTEXPORT_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("YTEXPORT_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("YTEXPORT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("YTEXPORT_REQUESTS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("YTEXPORT_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTEXPORT_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = Duration(d)
		}
	}
	if v := os.Getenv("YTEXPORT_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = Duration(d)
		}
	}
	if v := os.Getenv("YTEXPORT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("YTEXPORT_SHOW_PROGRESS"); v != "" {
		c.ShowProgress = v == "true" || v == "1"
	}
}

// Validate checks that configuration values are valid and consistent.
// All problems are reported together. The API key is not checked here
// because the CLI may still prompt for it.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("timeout must be positive"))
	}
	if c.RequestsPerSecond < 0 {
		result = multierror.Append(result, fmt.Errorf("requests_per_second must be non-negative"))
	}
	if c.MaxRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("max_retries must be non-negative"))
	}
	if c.InitialBackoff <= 0 {
		result = multierror.Append(result, fmt.Errorf("initial_backoff must be positive"))
	}
	if c.MaxBackoff <= 0 {
		result = multierror.Append(result, fmt.Errorf("max_backoff must be positive"))
	}
	if c.MaxBackoff < c.InitialBackoff {
		result = multierror.Append(result, fmt.Errorf("max_backoff must be >= initial_backoff"))
	}
	if c.BackoffMultiplier <= 1 {
		result = multierror.Append(result, fmt.Errorf("backoff_multiplier must be > 1"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("log_level: %w", err))
	}

	return result.ErrorOrNil()
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// ResolveOutputDir returns OutputDir, or the directory of the running
// executable when OutputDir is empty.
func (c *Config) ResolveOutputDir() (string, error) {
	if c.OutputDir != "" {
		return c.OutputDir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

// Package config loads and validates Fieldctl configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//  1. Built-in defaults
//  2. Optional YAML config file (~/.config/fieldctl/config.yaml or FIELDCTL_CONFIG)
//  3. Environment variables (FIELDCTL_API_BASE_URL, FIELDCTL_SESSION_BACKEND, ...)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for fieldctl.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Session SessionConfig `koanf:"session"`
	Logging LoggingConfig `koanf:"logging"`
}

// APIConfig configures the backend API client.
type APIConfig struct {
	// BaseURL is the root of the field service backend, without the /api prefix.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// MaxRetries bounds retries of rate-limited (HTTP 429) requests.
	MaxRetries int `koanf:"max_retries" validate:"gte=0,lte=10"`

	// RetryBaseDelay is the first backoff delay; it doubles per attempt.
	RetryBaseDelay time.Duration `koanf:"retry_base_delay" validate:"gt=0"`

	// RateLimit caps outgoing requests per second. 0 disables throttling.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`

	// RateBurst is the token-bucket burst size for the throttle.
	RateBurst int `koanf:"rate_burst" validate:"gte=0"`

	// CircuitBreaker enables the gobreaker wrapper around the HTTP client.
	CircuitBreaker bool `koanf:"circuit_breaker"`
}

// SessionConfig configures persisted session storage.
type SessionConfig struct {
	// Backend selects the session store: file or badger.
	Backend string `koanf:"backend" validate:"oneof=file badger"`

	// Path is the session file location (file backend).
	Path string `koanf:"path" validate:"required"`

	// BadgerDir is the database directory (badger backend).
	BadgerDir string `koanf:"badger_dir"`

	// EncryptionKey is an optional base64-encoded master key for
	// encrypting the session file at rest. Empty disables encryption.
	EncryptionKey string `koanf:"encryption_key"`

	// InactivityLimit is how long a session survives without user activity.
	InactivityLimit time.Duration `koanf:"inactivity_limit" validate:"gt=0"`

	// WatchInterval is how often long-running commands poll for inactivity expiry.
	WatchInterval time.Duration `koanf:"watch_interval" validate:"gt=0"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Default returns a Config with all default values applied.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			Timeout:        30 * time.Second,
			MaxRetries:     5,
			RetryBaseDelay: 1 * time.Second,
			RateLimit:      0, // Unthrottled by default
			RateBurst:      10,
			CircuitBreaker: true,
		},
		Session: SessionConfig{
			Backend:         "file",
			Path:            defaultSessionPath(),
			BadgerDir:       defaultBadgerDir(),
			EncryptionKey:   "",
			InactivityLimit: 30 * time.Minute,
			WatchInterval:   30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// defaultSessionPath returns the default session file location.
func defaultSessionPath() string {
	return filepath.Join(configDir(), "session.json")
}

// defaultBadgerDir returns the default badger session store directory.
func defaultBadgerDir() string {
	return filepath.Join(configDir(), "session.db")
}

// configDir resolves the fieldctl config directory, preferring
// os.UserConfigDir and falling back to the working directory.
func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".fieldctl"
	}
	return filepath.Join(base, "fieldctl")
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Session.Backend == "badger" && c.Session.BadgerDir == "" {
		return fmt.Errorf("invalid configuration: session.badger_dir is required for the badger backend")
	}

	return nil
}

// normalize cleans values after loading: trailing slashes on the base URL
// confuse path joining against /api/... endpoint paths.
func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
}

// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/okian/vitrine/internal/domain/binder"
	"github.com/okian/vitrine/internal/domain/payload"
	"github.com/okian/vitrine/internal/skin"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PayloadParam is the query parameter carrying the encoded profile.
	PayloadParam string `koanf:"payload_param"`

	// DefaultSkin is used when a request names no skin.
	DefaultSkin string `koanf:"default_skin"`

	// ProbeEnabled turns server-side image checks on. When off every
	// http(s) image URL is trusted.
	ProbeEnabled bool `koanf:"probe_enabled"`

	// ProbeWorkers sets the number of image probe workers.
	ProbeWorkers int `koanf:"probe_workers"`

	// ProbeQueueSize bounds the probe job queue.
	ProbeQueueSize int `koanf:"probe_queue_size"`

	// ProbeTimeoutMS bounds a single image probe.
	ProbeTimeoutMS int `koanf:"probe_timeout_ms"`

	// ProbeCacheSize and ProbeCacheTTLS size the probe result cache.
	ProbeCacheSize int `koanf:"probe_cache_size"`
	ProbeCacheTTLS int `koanf:"probe_cache_ttl_s"`

	// ProbeAllowPrivate lets probes reach loopback, private and link-local
	// addresses. Off by default; enable only for trusted deployments.
	ProbeAllowPrivate bool `koanf:"probe_allow_private"`

	// PublicBaseURL is used to build share links; empty means the request host.
	PublicBaseURL string `koanf:"public_base_url"`

	// Placeholders override individual placeholder strings of every skin.
	Placeholders binder.Placeholders `koanf:"placeholders"`

	// ContactMessage overrides the WhatsApp message template of every skin.
	ContactMessage string `koanf:"contact_message"`

	// RequiredSlots must exist in a template for binding to proceed.
	RequiredSlots []string `koanf:"required_slots"`

	// RuntimeMetrics registers the Go runtime and process collectors.
	RuntimeMetrics bool `koanf:"runtime_metrics"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		PayloadParam:   payload.DefaultParam,
		DefaultSkin:    skin.Card,
		ProbeEnabled:   true,
		ProbeWorkers:   4,
		ProbeQueueSize: 256,
		ProbeTimeoutMS: 3000,
		ProbeCacheSize: 1024,
		ProbeCacheTTLS: 600,
		RequiredSlots:  []string{binder.SlotContent},
		RuntimeMetrics: true,
	}
}

// ProbeTimeout returns ProbeTimeoutMS as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMS) * time.Millisecond
}

// ProbeCacheTTL returns ProbeCacheTTLS as a duration.
func (c *Config) ProbeCacheTTL() time.Duration {
	return time.Duration(c.ProbeCacheTTLS) * time.Second
}

// Validate checks the values Load cannot repair.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.PayloadParam) == "":
		return fmt.Errorf("%w: payload_param must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.ProbeWorkers < 1:
		return fmt.Errorf("%w: probe_workers must be positive", ErrInvalidConfig)
	case c.ProbeQueueSize < 1:
		return fmt.Errorf("%w: probe_queue_size must be positive", ErrInvalidConfig)
	case c.ProbeTimeoutMS < 1:
		return fmt.Errorf("%w: probe_timeout_ms must be positive", ErrInvalidConfig)
	case c.ProbeCacheSize < 1:
		return fmt.Errorf("%w: probe_cache_size must be positive", ErrInvalidConfig)
	}
	if c.PublicBaseURL != "" {
		u, err := url.Parse(c.PublicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: public_base_url must be an absolute URL", ErrInvalidConfig)
		}
	}
	return nil
}

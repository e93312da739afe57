package probe

import (
	"net/http"
	"time"

	"github.com/okian/vitrine/internal/adapters/mq/worker"
	"github.com/okian/vitrine/pkg/logger"
)

// Option applies a configuration option to the Prober.
type Option func(*Prober)

// WithEnabled toggles network probing. A disabled prober trusts every
// http(s) URL.
func WithEnabled(enabled bool) Option {
	return func(p *Prober) {
		p.enabled = enabled
	}
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithQueueSize sets the job queue capacity.
func WithQueueSize(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithTimeout bounds each probe.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithCacheSize sets the number of cached outcomes.
func WithCacheSize(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.cacheSize = n
		}
	}
}

// WithCacheTTL sets how long a cached outcome stays valid.
func WithCacheTTL(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.cacheTTL = d
		}
	}
}

// WithAllowPrivateNetworks lets probes reach loopback, private and
// link-local hosts. Off by default.
func WithAllowPrivateNetworks(allow bool) Option {
	return func(p *Prober) {
		p.allowPrivate = allow
	}
}

// WithHTTPClient sets the client used by the default checker. The client
// is used as given, without the dial-time address guard.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Prober) {
		if c != nil {
			p.client = c
		}
	}
}

// WithChecker replaces the HTTP checker.
func WithChecker(c worker.Checker) Option {
	return func(p *Prober) {
		if c != nil {
			p.checker = c
		}
	}
}

// WithLogger sets a custom logger for the prober.
func WithLogger(l logger.Logger) Option {
	return func(p *Prober) {
		if l != nil {
			p.logger = l
		}
	}
}

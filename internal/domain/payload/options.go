package payload

import (
	"github.com/okian/vitrine/internal/domain/profile"
	"github.com/okian/vitrine/pkg/logger"
)

// Option applies a configuration option to the Decoder.
type Option func(*Decoder)

// WithParam sets the query parameter that carries the payload.
func WithParam(name string) Option {
	return func(d *Decoder) {
		if name != "" {
			d.param = name
		}
	}
}

// WithFallback replaces the record returned for absent or broken payloads.
// fn must be deterministic.
func WithFallback(fn func() profile.Record) Option {
	return func(d *Decoder) {
		if fn != nil {
			d.fallback = fn
		}
	}
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

package worker

import (
	"time"

	"github.com/okian/vitrine/pkg/logger"
)

// Option configures an InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName labels the worker in logs.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets the worker logger.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithTimeout bounds each probe.
func WithTimeout(d time.Duration) Option {
	return func(w *InMemoryWorker) {
		if d > 0 {
			w.timeout = d
		}
	}
}

package binder

import "github.com/okian/vitrine/pkg/logger"

// WriterOption applies a configuration option to the Writer.
type WriterOption func(*Writer)

// WithRequiredSlots replaces the set of slots that must exist.
func WithRequiredSlots(slots ...string) WriterOption {
	return func(w *Writer) {
		if len(slots) > 0 {
			w.required = append([]string{}, slots...)
		}
	}
}

// WithLogger sets a custom logger for the writer.
func WithLogger(l logger.Logger) WriterOption {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

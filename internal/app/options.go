package service

import (
	"github.com/okian/vitrine/internal/domain/binder"
	"github.com/okian/vitrine/internal/domain/payload"
	"github.com/okian/vitrine/internal/skin"
	"github.com/okian/vitrine/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSkins sets the skin registry.
func WithSkins(r *skin.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.skins = r
		}
	}
}

// WithDecoder sets the payload decoder.
func WithDecoder(d *payload.Decoder) Option {
	return func(s *Service) {
		if d != nil {
			s.decoder = d
		}
	}
}

// WithWriter sets the slot writer.
func WithWriter(w *binder.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.writer = w
		}
	}
}

// WithProber sets the image prober.
func WithProber(p Prober) Option {
	return func(s *Service) {
		if p != nil {
			s.prober = p
		}
	}
}

// WithPlaceholders overrides placeholder strings across all skins.
func WithPlaceholders(p binder.Placeholders) Option {
	return func(s *Service) {
		s.placeholders = p
	}
}

// WithContactMessage overrides the contact message template across all skins.
func WithContactMessage(msg string) Option {
	return func(s *Service) {
		s.contactMessage = msg
	}
}

// WithPublicBaseURL sets the base URL used by Link.
func WithPublicBaseURL(u string) Option {
	return func(s *Service) {
		s.baseURL = u
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

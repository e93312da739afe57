package api

import "github.com/okian/vitrine/pkg/logger"

// defaultMaxBody caps POST bodies; profiles are small.
const defaultMaxBody = 64 << 10

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMaxBodyBytes limits the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

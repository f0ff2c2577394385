package server

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Server at construction time using the usual
// functional-option pattern.
type Option func(*Server)

// WithLogger attaches a logger; accept failures, transport errors, and
// lifecycle events are logged through it. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReadTimeout bounds how long a session may take to read a request.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.readTimeout = d }
}

// WithWriteTimeout bounds how long a session may take to write a response.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.writeTimeout = d }
}

// WithIdleTimeout bounds how long a keep-alive connection may sit idle
// between requests.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.idleTimeout = d }
}

// WithBatchConcurrency sets the registry's batch worker pool size before
// the server starts. Equivalent to calling registry.SetBatchConcurrency
// directly, provided for symmetry with the other options.
func WithBatchConcurrency(n int) Option {
	return func(s *Server) { s.initialBatchConcurrency = n }
}

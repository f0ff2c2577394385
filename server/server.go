// Package server exposes the JSON-RPC 2.0 session as an http.Handler
// layered over net/http.Server. HTTP byte-level framing and TCP accept are
// net/http's job; this package owns only the per-request JSON-RPC state
// machine and the listener's start/stop lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gate4ai/jsonrpc"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 90 * time.Second
	shutdownGrace       = 10 * time.Second
)

// Server binds a Registry to an HTTP listener. It is an http.Handler in
// its own right, so it can also be mounted into a caller-owned mux.
type Server struct {
	addr       string
	registry   *jsonrpc.Registry
	logger     *zap.Logger

	readTimeout             time.Duration
	writeTimeout            time.Duration
	idleTimeout             time.Duration
	initialBatchConcurrency int

	mu         sync.Mutex
	httpServer *http.Server
	running    bool
}

// New creates a Server bound to addr (":0" picks an ephemeral port) that
// dispatches through registry. The registry may be shared with other
// acceptors; Register may still be called on it after the server starts.
func New(addr string, registry *jsonrpc.Registry, opts ...Option) *Server {
	s := &Server{
		addr:         addr,
		registry:     registry,
		logger:       zap.NewNop(),
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		idleTimeout:  defaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the address the server is (or was last) bound to. After a
// successful Start/Run with an ephemeral port ("addr:0"), it reports the
// actual bound address.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// IsRunning reports whether the server currently owns a live listener.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start binds the listener and serves in a background goroutine,
// returning as soon as the listener is accepting connections.
func (s *Server) Start() error {
	_, err := s.start()
	return err
}

// Run binds the listener and blocks until Stop is called or the listener
// fails. A clean shutdown via Stop is reported as a nil error.
func (s *Server) Run() error {
	errCh, err := s.start()
	if err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) start() (<-chan error, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, fmt.Errorf("jsonrpc/server: already running")
	}
	if s.initialBatchConcurrency > 0 {
		if err := s.registry.SetBatchConcurrency(s.initialBatchConcurrency); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	addr := s.addr
	s.mu.Unlock()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("jsonrpc/server: listen: %w", err)
	}

	httpServer := &http.Server{
		Handler:      s,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.Background() },
	}

	s.registry.SetRunning(true)

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.httpServer = httpServer
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.logger.Info("jsonrpc server listening", zap.String("addr", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("jsonrpc server listener stopped with error", zap.Error(err))
			errCh <- err
			return
		}
		s.logger.Info("jsonrpc server listener stopped")
	}()

	return errCh, nil
}

// Stop gracefully shuts the server down, waiting up to an internal grace
// period for in-flight requests to finish. Calling Stop on a server that
// is not running is a no-op. After Stop returns, the server may be
// started again.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	httpServer := s.httpServer
	s.running = false
	s.mu.Unlock()

	s.registry.SetRunning(false)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var err error
	if shutdownErr := httpServer.Shutdown(ctx); shutdownErr != nil {
		err = multierr.Append(err, fmt.Errorf("jsonrpc/server: shutdown: %w", shutdownErr))
	}
	return err
}

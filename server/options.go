// File: server/options.go
// Package server defines functional options for the Server.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"github.com/rs/zerolog"

	"github.com/momentics/hioload-sock/control"
)

// ServerOption customizes server initialization.
type ServerOption func(*Server)

// WithLogger sets the structured logger. The config's log level is applied
// on top of it.
func WithLogger(l zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.base = l
	}
}

// WithMiddleware attaches middleware in FIFO order.
func WithMiddleware(mw ...Middleware) ServerOption {
	return func(s *Server) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithMetrics shares a metrics registry with the caller.
func WithMetrics(m *control.MetricsRegistry) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithConfigStore subscribes the server to reloads of store. Only the log
// level is applied at run time.
func WithConfigStore(store *control.ConfigStore) ServerOption {
	return func(s *Server) {
		s.store = store
	}
}

package server

import (
	"log/slog"

	"github.com/getmockd/mockwire/pkg/store"
)

// Option is a functional option for configuring a Server.
type Option func(*Server)

// WithStore sets the mock registry the server reads and writes. Callers
// that keep a reference can inspect or seed it directly.
func WithStore(st store.MockStore) Option {
	return func(s *Server) {
		if st != nil {
			s.store = st
		}
	}
}

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

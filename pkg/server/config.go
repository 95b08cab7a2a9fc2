package server

import "time"

// DefaultAddr is the well-known address clients assume when none is given.
const DefaultAddr = "127.0.0.1:4280"

// DefaultProbeTimeout bounds each readiness probe dial.
const DefaultProbeTimeout = 100 * time.Millisecond

// Config controls how a Server listens and serves connections.
type Config struct {
	// Addr is the TCP address to listen on. Port 0 picks a free port.
	Addr string

	// Concurrent serves each connection on its own goroutine. By default
	// connections are served one at a time in accept order.
	Concurrent bool

	// MaxConns caps simultaneously open connections. Zero means no cap.
	MaxConns int

	// ReadTimeout and WriteTimeout set per-connection deadlines. Zero means
	// no deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ProbeTimeout bounds each readiness probe dial.
	ProbeTimeout time.Duration
}

// DefaultConfig returns a Config listening on DefaultAddr in serial mode.
func DefaultConfig() Config {
	return Config{
		Addr:         DefaultAddr,
		ProbeTimeout: DefaultProbeTimeout,
	}
}

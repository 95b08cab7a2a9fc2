package server

import (
	"errors"
	"fmt"
	"net"
	"time"
)

const probeInterval = 10 * time.Millisecond

// isListening reports whether something accepts TCP connections on addr.
func isListening(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// waitReady blocks until the accept goroutine has bound its listener and a
// probe connection succeeds. A bind failure is returned unless another
// listener won the race for the address.
func (s *Server) waitReady(bound <-chan error) error {
	if err := <-bound; err != nil {
		if errors.Is(err, ErrServerClosed) {
			return err
		}
		if isListening(s.cfg.Addr, s.probeTimeout()) {
			s.log.Info("address already served", "addr", s.cfg.Addr)
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	addr := s.Addr()
	for !isListening(addr, s.probeTimeout()) {
		time.Sleep(probeInterval)
	}
	return nil
}

func (s *Server) probeTimeout() time.Duration {
	if s.cfg.ProbeTimeout > 0 {
		return s.cfg.ProbeTimeout
	}
	return DefaultProbeTimeout
}

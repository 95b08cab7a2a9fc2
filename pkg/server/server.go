package server

import (
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/getmockd/mockwire/internal/id"
	"github.com/getmockd/mockwire/pkg/logging"
	"github.com/getmockd/mockwire/pkg/request"
	"github.com/getmockd/mockwire/pkg/store"
	"github.com/getmockd/mockwire/pkg/util"
	"golang.org/x/net/netutil"
)

// ErrServerClosed is returned by Start when Close ran before the listener
// was bound.
var ErrServerClosed = errors.New("server closed")

// Server listens for connections and answers each with one response.
type Server struct {
	cfg     Config
	store   store.MockStore
	handler *Handler
	log     *slog.Logger

	mu    sync.Mutex
	ln    net.Listener
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
	// gen counts Start calls that launched an accept loop; closedGen is
	// the last one Close covered.
	gen       uint64
	closedGen uint64
}

// New creates a Server. Without WithStore it owns a fresh in-memory store.
func New(cfg Config, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	s := &Server{
		cfg:   cfg,
		log:   logging.Nop(),
		conns: make(map[net.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = store.NewMemory()
	}
	s.handler = NewHandler(s.store, s.log)
	return s
}

// Store returns the registry the server serves from.
func (s *Server) Store() store.MockStore {
	return s.store
}

// Addr returns the bound listener address, or the configured address when
// this Server is not listening.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.Addr
}

// Listening reports whether this Server owns an open listener. It is false
// after Start found the address already served by someone else.
func (s *Server) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ln != nil
}

// Start makes sure a server is accepting connections on the configured
// address. If one already is, from this process or another, Start returns
// nil without listening. Otherwise it starts the accept loop and blocks
// until the listener answers a probe.
func (s *Server) Start() error {
	if isListening(s.Addr(), s.probeTimeout()) {
		s.log.Debug("already listening", "addr", s.Addr())
		return nil
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	bound := make(chan error, 1)
	s.wg.Add(1)
	go s.serve(bound, gen)

	if err := s.waitReady(bound); err != nil {
		return err
	}
	s.log.Info("listening", "addr", s.Addr(), "concurrent", s.cfg.Concurrent, "max_conns", s.cfg.MaxConns)
	return nil
}

// Close stops the accept loop, closes open connections and waits for the
// loop to return. An accept loop still binding is stopped as soon as it
// has bound. Closing a Server that is not listening is a no-op.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closedGen = s.gen
	ln := s.ln
	s.ln = nil
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	s.wg.Wait()
	if ln != nil {
		s.log.Info("server closed")
	}
	return err
}

func (s *Server) serve(bound chan<- error, gen uint64) {
	defer s.wg.Done()

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		bound <- err
		return
	}
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}

	s.mu.Lock()
	if s.closedGen >= gen {
		s.mu.Unlock()
		_ = ln.Close()
		bound <- ErrServerClosed
		return
	}
	s.ln = ln
	s.mu.Unlock()
	bound <- nil

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("accept failed", "error", err)
			time.Sleep(probeInterval)
			continue
		}

		if !s.track(conn) {
			_ = conn.Close()
			return
		}
		if s.cfg.Concurrent {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.handleConn(conn)
			}()
			continue
		}
		s.handleConn(conn)
	}
}

// track registers conn for Close. It reports false once Close has run.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// handleConn reads one request, writes one response and closes conn.
func (s *Server) handleConn(conn net.Conn) {
	defer s.untrack(conn)
	defer func() { _ = conn.Close() }()

	log := s.log.With("conn", id.Short(), "remote", conn.RemoteAddr().String())

	if s.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}
	req := request.Read(conn, log)
	if req.HasError() {
		log.Warn("parse error", "error", req.ParseError, "path", req.Path)
	} else if !req.IsParsed() {
		log.Debug("incomplete request", "method", req.Method, "path", req.Path)
	}

	resp := s.handler.Handle(req)
	log.Debug("dispatched", "method", req.Method, "path", req.Path, "body", util.TruncateBody(req.Body, 0), "status", resp.Status)

	if s.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	if _, err := resp.WriteTo(conn); err != nil {
		log.Warn("write failed", "error", err)
	}
}

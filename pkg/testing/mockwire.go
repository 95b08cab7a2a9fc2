package testing

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/getmockd/mockwire/pkg/client"
	"github.com/getmockd/mockwire/pkg/mock"
	"github.com/getmockd/mockwire/pkg/server"
)

// MockServer is a test helper for running mockwire in tests.
type MockServer struct {
	t       testing.TB
	server  *server.Server
	client  *client.Client
	pending []*mock.Mock
	mu      sync.Mutex
	started bool
	baseURL string
}

// New creates a mock server for testing. It is stopped automatically when
// the test completes.
func New(t testing.TB) *MockServer {
	t.Helper()
	m := &MockServer{t: t}
	t.Cleanup(m.Stop)
	return m
}

// Start starts the server, registers any mocks added so far and returns
// the base URL. Calling Start again returns the same URL.
func (m *MockServer) Start() string {
	m.t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return m.baseURL
	}

	m.server = server.New(server.Config{Addr: "127.0.0.1:0"})
	if err := m.server.Start(); err != nil {
		m.t.Fatalf("failed to start mockwire: %v", err)
	}
	m.client = client.New(m.server.Addr())
	m.baseURL = m.client.URL()
	m.started = true

	for _, mk := range m.pending {
		m.register(mk)
	}
	m.pending = nil
	return m.baseURL
}

// Stop stops the server. It is safe to call more than once.
func (m *MockServer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server != nil {
		_ = m.server.Close()
		m.server = nil
	}
	m.started = false
}

// URL returns the base URL of the server, or "" before Start.
func (m *MockServer) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseURL
}

// Client returns an http.Client that opens a fresh connection per request.
func (m *MockServer) Client() *http.Client {
	return &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
}

// Server returns the underlying server for advanced use cases.
func (m *MockServer) Server() *server.Server {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.server
}

// Mock starts building a mock for method and path. The mock answers 200
// with an empty body until configured otherwise.
//
// Example:
//
//	mock.Mock("GET", "/users/123").
//	    WithStatus(200).
//	    WithBody(`{"id": "123"}`).
//	    Reply()
func (m *MockServer) Mock(method, path string) *MockBuilder {
	return &MockBuilder{
		server: m,
		mock: &mock.Mock{
			Request:  mock.RequestKey{Method: method, Path: path},
			Response: mock.Response{Status: http.StatusOK},
		},
	}
}

// Delete removes the oldest mock with the given id.
func (m *MockServer) Delete(id string) {
	m.t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		for i, mk := range m.pending {
			if mk.ID == id {
				m.pending = append(m.pending[:i], m.pending[i+1:]...)
				return
			}
		}
		return
	}
	if err := m.client.Delete(context.Background(), id); err != nil {
		m.t.Errorf("failed to delete mock %q: %v", id, err)
	}
}

// Reset removes every mock.
func (m *MockServer) Reset() {
	m.t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
	if !m.started {
		return
	}
	if err := m.client.Clear(context.Background()); err != nil {
		m.t.Errorf("failed to reset mocks: %v", err)
	}
}

// addMock queues mk until Start, or registers it right away.
func (m *MockServer) addMock(mk *mock.Mock) {
	m.t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		m.pending = append(m.pending, mk)
		return
	}
	m.register(mk)
}

func (m *MockServer) register(mk *mock.Mock) {
	m.t.Helper()
	if err := m.client.Register(context.Background(), mk); err != nil {
		m.t.Errorf("failed to register mock %s %s: %v", mk.Request.Method, mk.Request.Path, err)
	}
}

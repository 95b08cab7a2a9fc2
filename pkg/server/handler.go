package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getmockd/mockwire/internal/id"
	"github.com/getmockd/mockwire/pkg/logging"
	"github.com/getmockd/mockwire/pkg/mock"
	"github.com/getmockd/mockwire/pkg/request"
	"github.com/getmockd/mockwire/pkg/store"
)

// MocksPath is the control-plane route.
const MocksPath = "/mocks"

// MockIDHeader names the mock to delete on DELETE /mocks.
const MockIDHeader = "X-Mock-Id"

// Error tags written as the body of 422 responses.
const (
	TagContentLengthMissing = "ContentLengthMissing"
	TagInvalidMockResponse  = "InvalidMockResponse"
)

var (
	// ErrContentLengthMissing is returned when a registration has no
	// Content-Length header.
	ErrContentLengthMissing = errors.New("content length missing")

	// ErrInvalidMockDocument is returned when a registration body is not a
	// valid mock document.
	ErrInvalidMockDocument = errors.New("invalid mock document")
)

// Handler turns one parsed request into one response.
type Handler struct {
	store store.MockStore
	log   *slog.Logger
}

// NewHandler creates a Handler over st. A nil logger discards output.
func NewHandler(st store.MockStore, log *slog.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{store: st, log: log}
}

// Handle dispatches req on its method and path. Partial or malformed
// requests are dispatched with whatever fields were captured.
func (h *Handler) Handle(req *request.Request) *Response {
	switch {
	case req.Method == http.MethodPost && req.Path == MocksPath:
		return h.register(req)
	case req.Method == http.MethodDelete && req.Path == MocksPath:
		return h.deregister(req)
	default:
		return h.forward(req)
	}
}

func (h *Handler) register(req *request.Request) *Response {
	m, err := decodeMock(req)
	if err != nil {
		h.log.Warn("register rejected", "error", err)
		if errors.Is(err, ErrContentLengthMissing) {
			return tagResponse(http.StatusUnprocessableEntity, TagContentLengthMissing)
		}
		return tagResponse(http.StatusUnprocessableEntity, TagInvalidMockResponse)
	}

	if m.ID == "" {
		m.ID = id.UUID()
	}
	h.store.Insert(m)
	h.log.Debug("mock registered", "id", m.ID, "method", m.Request.Method, "path", m.Request.Path)
	return emptyResponse(http.StatusOK)
}

func decodeMock(req *request.Request) (*mock.Mock, error) {
	if _, ok := req.Header("Content-Length"); !ok {
		return nil, ErrContentLengthMissing
	}

	// Cut the raw bytes: lossy decoding can make Body longer than
	// Content-Length.
	body := req.RawBody
	if n := req.ContentLength(); n < len(body) {
		body = body[:n]
	}
	m, err := mock.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMockDocument, err)
	}
	return m, nil
}

func (h *Handler) deregister(req *request.Request) *Response {
	if mockID, ok := req.Header(MockIDHeader); ok {
		n := h.store.Remove(&mockID)
		h.log.Debug("mock removed", "id", mockID, "count", n)
		return emptyResponse(http.StatusOK)
	}
	n := h.store.Remove(nil)
	h.log.Debug("mocks cleared", "count", n)
	return emptyResponse(http.StatusOK)
}

func (h *Handler) forward(req *request.Request) *Response {
	m, ok := h.store.Match(req.Method, req.Path)
	if !ok {
		h.log.Debug("no mock matched", "method", req.Method, "path", req.Path)
		return emptyResponse(http.StatusNotImplemented)
	}
	h.log.Debug("mock matched", "id", m.ID, "method", req.Method, "path", req.Path)
	return &Response{
		Status:  m.Response.Status,
		Headers: m.Response.Headers,
		Body:    m.Response.Body,
	}
}

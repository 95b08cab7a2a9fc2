// Package client talks to a running mockwire server over its control
// routes.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/getmockd/mockwire/pkg/mock"
	"github.com/getmockd/mockwire/pkg/server"
)

// APIError is returned when the server answers a control request with a
// non-200 status. Tag holds the response body, such as
// "ContentLengthMissing".
type APIError struct {
	StatusCode int
	Tag        string
}

func (e *APIError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("request failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed: status %d: %s", e.StatusCode, e.Tag)
}

// Client is an HTTP client for a mockwire server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for addr, either host:port or a full base URL.
// An empty addr means server.DefaultAddr.
func New(addr string, opts ...Option) *Client {
	c := &Client{
		baseURL: BaseURL(addr),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// The server closes every connection after one response.
			Transport: &http.Transport{DisableKeepAlives: true},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL turns a listen address into an http URL.
func BaseURL(addr string) string {
	if addr == "" {
		addr = server.DefaultAddr
	}
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimSuffix(addr, "/")
	}
	return "http://" + addr
}

// URL returns the server base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// Register sends m to POST /mocks.
func (c *Client) Register(ctx context.Context, m *mock.Mock) error {
	body, err := mock.Encode(m)
	if err != nil {
		return fmt.Errorf("failed to encode mock: %w", err)
	}
	return c.RegisterRaw(ctx, body)
}

// RegisterRaw sends an already encoded mock document to POST /mocks.
func (c *Client) RegisterRaw(ctx context.Context, doc []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+server.MocksPath, bytes.NewReader(doc))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// Delete removes the oldest mock with the given id. Unknown ids are not
// an error.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+server.MocksPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set(server.MockIDHeader, id)
	return c.do(req)
}

// Clear removes every mock.
func (c *Client) Clear(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+server.MocksPath, nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Tag: string(body)}
	}
	return nil
}

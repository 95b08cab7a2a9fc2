package testing

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getmockd/mockwire/pkg/mock"
)

// MockBuilder builds a mock using a fluent API.
type MockBuilder struct {
	server *MockServer
	mock   *mock.Mock
	err    error // first error encountered during building
}

func (b *MockBuilder) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns the first error encountered during building.
func (b *MockBuilder) Err() error {
	return b.err
}

// WithID sets the id used to delete the mock later.
func (b *MockBuilder) WithID(id string) *MockBuilder {
	b.mock.ID = id
	return b
}

// WithStatus sets the response status code.
func (b *MockBuilder) WithStatus(status int) *MockBuilder {
	b.mock.Response.Status = status
	return b
}

// WithHeader appends a response header. Repeated names are sent once per
// call, in order.
func (b *MockBuilder) WithHeader(name, value string) *MockBuilder {
	b.mock.Response.Headers = append(b.mock.Response.Headers, mock.Header{Name: name, Value: value})
	return b
}

// WithBody sets the response body. Strings and byte slices are sent as is;
// other values are JSON encoded.
func (b *MockBuilder) WithBody(body any) *MockBuilder {
	switch v := body.(type) {
	case string:
		b.mock.Response.Body = v
	case []byte:
		b.mock.Response.Body = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			b.setError(fmt.Errorf("WithBody: failed to marshal body: %w", err))
			return b
		}
		b.mock.Response.Body = string(data)
	}
	return b
}

// WithJSON sets a JSON encoded body and a Content-Type of application/json.
func (b *MockBuilder) WithJSON(body any) *MockBuilder {
	data, err := json.Marshal(body)
	if err != nil {
		b.setError(fmt.Errorf("WithJSON: failed to marshal body: %w", err))
		return b
	}
	b.mock.Response.Body = string(data)
	return b.WithHeader("Content-Type", "application/json")
}

// RespondWith is a shorthand for setting status and body together.
func (b *MockBuilder) RespondWith(status int, body any) *MockBuilder {
	return b.WithStatus(status).WithBody(body)
}

// RespondNotFound configures a 404 Not Found response.
func (b *MockBuilder) RespondNotFound() *MockBuilder {
	return b.WithStatus(http.StatusNotFound).WithJSON(map[string]string{
		"error": "not_found",
	})
}

// RespondNoContent configures a 204 No Content response.
func (b *MockBuilder) RespondNoContent() *MockBuilder {
	return b.WithStatus(http.StatusNoContent)
}

// Reply registers the mock. A build error fails the test instead.
//
//	mock.Mock("GET", "/api").WithStatus(200).Reply()
func (b *MockBuilder) Reply() {
	b.server.t.Helper()
	if b.err != nil {
		b.server.t.Errorf("mock %s %s: %v", b.mock.Request.Method, b.mock.Request.Path, b.err)
		return
	}
	b.server.addMock(b.mock)
}

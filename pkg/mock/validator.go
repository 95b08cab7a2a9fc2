package mock

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents a validation failure with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// headerNameRegex matches an RFC 9110 token.
var headerNameRegex = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+\-.^_\x60|~]+$`)

// Validate checks the rules a mock must satisfy before it can be served.
func (m *Mock) Validate() error {
	if m.Request.Method == "" {
		return &ValidationError{Field: "request.method", Message: "method is required"}
	}
	if !headerNameRegex.MatchString(m.Request.Method) {
		return &ValidationError{Field: "request.method", Message: fmt.Sprintf("invalid method %q", m.Request.Method)}
	}
	if m.Request.Path == "" {
		return &ValidationError{Field: "request.path", Message: "path is required"}
	}
	return m.Response.Validate()
}

// Validate checks the status code range and that every header can be
// written on the wire unchanged.
func (r *Response) Validate() error {
	if r.Status < 100 || r.Status > 999 {
		return &ValidationError{Field: "response.status", Message: fmt.Sprintf("status must be between 100 and 999, got %d", r.Status)}
	}
	for i, h := range r.Headers {
		field := fmt.Sprintf("response.headers[%d]", i)
		if !headerNameRegex.MatchString(h.Name) {
			return &ValidationError{Field: field, Message: fmt.Sprintf("invalid header name %q", h.Name)}
		}
		if strings.ContainsAny(h.Value, "\r\n") {
			return &ValidationError{Field: field, Message: "header value must not contain CR or LF"}
		}
	}
	return nil
}

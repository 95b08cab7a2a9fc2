// Package mock defines the Mock record served by mockwire and the JSON
// document format used to register one.
package mock

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Mock pairs a request key with the canned response returned for it.
type Mock struct {
	// ID identifies the mock for deletion. Uniqueness is not enforced.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	Request  RequestKey `json:"request" yaml:"request"`
	Response Response   `json:"response" yaml:"response"`
}

// RequestKey is matched exactly against an incoming method and path.
type RequestKey struct {
	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`
}

// Response is written back verbatim when the mock matches.
type Response struct {
	Status  int      `json:"status" yaml:"status"`
	Headers []Header `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string   `json:"body,omitempty" yaml:"body,omitempty"`
}

// Header is a single response header. Order and duplicates are preserved.
type Header struct {
	Name  string
	Value string
}

// Matches reports whether the mock answers method and path.
func (m *Mock) Matches(method, path string) bool {
	return m.Request.Method == method && m.Request.Path == path
}

// MarshalJSON encodes the header as a [name, value] pair.
func (h Header) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{h.Name, h.Value})
}

// UnmarshalJSON accepts either a [name, value] pair or a
// {"name": ..., "value": ...} object.
func (h *Header) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pair []string
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("header pair must have 2 elements, got %d", len(pair))
		}
		h.Name, h.Value = pair[0], pair[1]
		return nil
	}

	var obj struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	h.Name, h.Value = obj.Name, obj.Value
	return nil
}

// Package request builds a Request from a connection by driving the
// httpparse tokenizer one line at a time.
package request

import (
	"strconv"
	"strings"

	"github.com/getmockd/mockwire/pkg/httpparse"
	"golang.org/x/text/encoding/unicode"
)

// Request is a single parsed HTTP request. It is filled in by parser events
// while the connection is read and is discarded once the response is sent.
//
// Method and the protocol version are only trustworthy when ParseError is
// empty.
type Request struct {
	Major, Minor uint16
	Method       string
	Path         string
	// Headers maps header names, as received, to their last value.
	Headers map[string]string
	Body    string
	// RawBody holds the bytes Body was decoded from.
	RawBody []byte
	// ParseError describes why the grammar engine rejected the request.
	ParseError string

	parsed       bool
	pendingField string
	hasPending   bool
}

// New returns an empty request defaulting to HTTP/1.1.
func New() *Request {
	return &Request{
		Major:   1,
		Minor:   1,
		Headers: make(map[string]string),
	}
}

// HasError reports whether parsing stopped on a grammar error.
func (r *Request) HasError() bool {
	return r.ParseError != ""
}

// IsParsed reports whether the complete request was received.
func (r *Request) IsParsed() bool {
	return r.parsed
}

// Header looks a header up by name, ignoring case.
func (r *Request) Header(name string) (string, bool) {
	if v, ok := r.Headers[name]; ok {
		return v, true
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// ContentLength returns the Content-Length header value, or 0 when the
// header is absent or not a valid non-negative integer.
func (r *Request) ContentLength() int {
	v, ok := r.Header("Content-Length")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// OnMessageBegin implements httpparse.Handler.
func (r *Request) OnMessageBegin() error { return nil }

// OnURL implements httpparse.Handler.
func (r *Request) OnURL(b []byte) error {
	r.Path = lossy(b)
	return nil
}

// OnHeaderField implements httpparse.Handler. A field name waits for its
// value; a second name before any value replaces the first.
func (r *Request) OnHeaderField(b []byte) error {
	r.pendingField = lossy(b)
	r.hasPending = true
	return nil
}

// OnHeaderValue implements httpparse.Handler. Values without a pending field
// name are dropped.
func (r *Request) OnHeaderValue(b []byte) error {
	if !r.hasPending {
		return nil
	}
	r.Headers[r.pendingField] = lossy(b)
	r.pendingField, r.hasPending = "", false
	return nil
}

// OnHeadersComplete implements httpparse.Handler.
func (r *Request) OnHeadersComplete() error { return nil }

// OnChunkHeader implements httpparse.Handler.
func (r *Request) OnChunkHeader() error { return nil }

// OnBody implements httpparse.Handler. The last body event wins.
func (r *Request) OnBody(b []byte) error {
	r.RawBody = append(r.RawBody[:0], b...)
	r.Body = lossy(b)
	return nil
}

// OnMessageComplete implements httpparse.Handler.
func (r *Request) OnMessageComplete() error {
	r.parsed = true
	return nil
}

var _ httpparse.Handler = (*Request)(nil)

// lossy decodes b as UTF-8, replacing invalid sequences with U+FFFD.
func lossy(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}

package server

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/getmockd/mockwire/pkg/mock"
)

// Response is the exact HTTP/1.1 reply written to a connection.
type Response struct {
	Status  int
	Headers []mock.Header
	Body    string
}

func emptyResponse(status int) *Response {
	return &Response{Status: status}
}

func tagResponse(status int, tag string) *Response {
	return &Response{Status: status, Body: tag}
}

// WriteTo writes the status line, the headers in order and the body. No
// headers are added; the body is delimited by closing the connection.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.Grow(64 + len(r.Body))

	buf.WriteString("HTTP/1.1 ")
	buf.WriteString(strconv.Itoa(r.Status))
	buf.WriteByte(' ')
	buf.WriteString(ReasonPhrase(r.Status))
	buf.WriteString("\r\n")
	for _, h := range r.Headers {
		buf.WriteString(h.Name)
		buf.WriteString(": ")
		buf.WriteString(h.Value)
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")
	buf.WriteString(r.Body)

	return buf.WriteTo(w)
}

// ReasonPhrase returns the standard reason phrase for code, or "Unknown".
func ReasonPhrase(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown"
}

var _ io.WriterTo = (*Response)(nil)

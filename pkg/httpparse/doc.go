// Package httpparse provides an incremental HTTP/1.x request tokenizer.
//
// The Parser consumes raw bytes in arbitrarily sized pieces and reports what
// it recognizes through a fixed vocabulary of events delivered to a Handler:
//
//   - OnMessageBegin: the first byte of a request line arrived
//   - OnURL: the request target
//   - OnHeaderField / OnHeaderValue: one call each per header line
//   - OnHeadersComplete: the blank line ending the header block
//   - OnChunkHeader: a chunk-size line of a chunked body
//   - OnBody: a run of body bytes
//   - OnMessageComplete: the request is fully received
//
// Grammar recognition is kept apart from request construction so that the
// consumer only implements the callbacks it cares about. Embed NopHandler to
// get no-op defaults for the rest.
//
// # Usage
//
//	p := httpparse.New()
//	if _, err := p.Execute(handler, []byte("GET / HTTP/1.1\r\n\r\n")); err != nil {
//	    // errors.Is(err, httpparse.ErrInvalidVersion) ...
//	}
//	method := p.Method()
//	major, minor := p.Version()
//
// Once the parser reports an error it stays in the error state; every later
// Execute call returns the same error without consuming input.
package httpparse

package httpparse

import (
	"bytes"
	"fmt"
	"strconv"
)

const (
	// MaxLineSize bounds the request line, every header line and every
	// chunk-size line, not counting the final line feed.
	MaxLineSize = 8 << 10

	// MaxBodySize bounds a Content-Length body and each individual chunk.
	MaxBodySize = 16 << 20
)

type state uint8

const (
	stateRequestLine state = iota
	stateHeaders
	stateBody
	stateChunkSize
	stateChunkData
	stateChunkEnd
	stateTrailers
	stateDone
	stateError
)

var (
	headerContentLength    = []byte("Content-Length")
	headerTransferEncoding = []byte("Transfer-Encoding")
	codingChunked          = []byte("chunked")
)

// Parser is an incremental HTTP/1.x request tokenizer. A Parser handles a
// single request; create a new one per connection with New.
type Parser struct {
	state   state
	line    []byte // partial line carried across Execute calls
	method  string
	major   uint16
	minor   uint16
	length  int64 // declared Content-Length, -1 when absent
	chunked bool
	remain  int64 // bytes left in the current body or chunk
	err     error
}

// New creates a Parser positioned before the request line.
func New() *Parser {
	return &Parser{length: -1}
}

// Method returns the request method once the request line has been parsed.
func (p *Parser) Method() string { return p.method }

// Version returns the negotiated protocol version once the request line has
// been parsed.
func (p *Parser) Version() (major, minor uint16) { return p.major, p.minor }

// HasError reports whether the parser is in its error state.
func (p *Parser) HasError() bool { return p.err != nil }

// Err returns the error that moved the parser into its error state.
func (p *Parser) Err() error { return p.err }

// Done reports whether a complete request has been received.
func (p *Parser) Done() bool { return p.state == stateDone }

// BodyRemaining reports how many bytes are still outstanding in the current
// Content-Length body or chunk. It is zero outside a body.
func (p *Parser) BodyRemaining() int64 {
	if p.state == stateBody || p.state == stateChunkData {
		return p.remain
	}
	return 0
}

// Execute feeds data to the parser, delivering events to h, and returns the
// number of bytes consumed. Bytes following a complete request are not
// consumed. The returned error is non-nil once the parser is in its error
// state.
func (p *Parser) Execute(h Handler, data []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}

	n := 0
	for n < len(data) {
		switch p.state {
		case stateDone:
			return n, nil

		case stateBody, stateChunkData:
			take := int64(len(data) - n)
			if take > p.remain {
				take = p.remain
			}
			if err := h.OnBody(data[n : n+int(take)]); err != nil {
				return n, p.callbackFailed(err)
			}
			n += int(take)
			p.remain -= take
			if p.remain > 0 {
				continue
			}
			if p.state == stateChunkData {
				p.state = stateChunkEnd
				continue
			}
			if err := p.complete(h); err != nil {
				return n, err
			}

		default:
			i := bytes.IndexByte(data[n:], '\n')
			if i < 0 {
				if err := p.buffer(data[n:]); err != nil {
					return len(data), err
				}
				n = len(data)
				continue
			}
			if err := p.buffer(data[n : n+i]); err != nil {
				return n + i + 1, err
			}
			n += i + 1

			line := bytes.TrimSuffix(p.line, []byte{'\r'})
			err := p.processLine(h, line)
			p.line = p.line[:0]
			if err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

func (p *Parser) buffer(b []byte) error {
	if len(p.line)+len(b) > MaxLineSize {
		return p.fail(ErrLineTooLong)
	}
	p.line = append(p.line, b...)
	return nil
}

func (p *Parser) processLine(h Handler, line []byte) error {
	switch p.state {
	case stateRequestLine:
		// Empty lines before the request line are ignored (RFC 9112 §2.2).
		if len(line) == 0 {
			return nil
		}
		return p.requestLine(h, line)
	case stateHeaders:
		if len(line) == 0 {
			return p.headersComplete(h)
		}
		return p.header(h, line, true)
	case stateChunkSize:
		return p.chunkSize(h, line)
	case stateChunkEnd:
		if len(line) != 0 {
			return p.fail(fmt.Errorf("%w: missing line break after chunk data", ErrInvalidChunkSize))
		}
		p.state = stateChunkSize
		return nil
	case stateTrailers:
		if len(line) == 0 {
			return p.complete(h)
		}
		return p.header(h, line, false)
	}
	return nil
}

// requestLine parses: method SP request-target SP HTTP-version
func (p *Parser) requestLine(h Handler, line []byte) error {
	if err := h.OnMessageBegin(); err != nil {
		return p.callbackFailed(err)
	}

	method, rest, ok := bytes.Cut(line, []byte{' '})
	if !ok || !isToken(method) {
		return p.fail(fmt.Errorf("%w: %q", ErrInvalidMethod, method))
	}
	p.method = string(method)

	target, version, ok := bytes.Cut(rest, []byte{' '})
	if !ok || !isTarget(target) {
		return p.fail(fmt.Errorf("%w: %q", ErrInvalidTarget, rest))
	}
	if err := h.OnURL(target); err != nil {
		return p.callbackFailed(err)
	}

	major, minor, ok := parseVersion(version)
	if !ok {
		return p.fail(fmt.Errorf("%w: %q", ErrInvalidVersion, version))
	}
	p.major, p.minor = major, minor
	p.state = stateHeaders
	return nil
}

// header parses: field-name ":" OWS field-value OWS
func (p *Parser) header(h Handler, line []byte, framing bool) error {
	if line[0] == ' ' || line[0] == '\t' {
		return p.fail(fmt.Errorf("%w: obsolete line folding", ErrInvalidHeader))
	}
	name, value, ok := bytes.Cut(line, []byte{':'})
	if !ok || !isToken(name) {
		return p.fail(fmt.Errorf("%w: %q", ErrInvalidHeader, line))
	}
	value = bytes.Trim(value, " \t")

	if framing {
		if err := p.framing(name, value); err != nil {
			return err
		}
	}

	if err := h.OnHeaderField(name); err != nil {
		return p.callbackFailed(err)
	}
	if err := h.OnHeaderValue(value); err != nil {
		return p.callbackFailed(err)
	}
	return nil
}

// framing records the headers that decide how the body is delimited.
func (p *Parser) framing(name, value []byte) error {
	switch {
	case bytes.EqualFold(name, headerContentLength):
		n, ok := parseDecimal(value)
		if !ok || (p.length >= 0 && p.length != n) {
			return p.fail(fmt.Errorf("%w: %q", ErrInvalidContentLength, value))
		}
		p.length = n
	case bytes.EqualFold(name, headerTransferEncoding):
		codings := bytes.Split(value, []byte{','})
		last := bytes.TrimSpace(codings[len(codings)-1])
		p.chunked = bytes.EqualFold(last, codingChunked)
	}
	return nil
}

func (p *Parser) headersComplete(h Handler) error {
	if err := h.OnHeadersComplete(); err != nil {
		return p.callbackFailed(err)
	}

	switch {
	case p.chunked:
		p.state = stateChunkSize
	case p.length > MaxBodySize:
		return p.fail(ErrBodyTooLarge)
	case p.length > 0:
		p.remain = p.length
		p.state = stateBody
	default:
		return p.complete(h)
	}
	return nil
}

// chunkSize parses: chunk-size [ chunk-ext ]
func (p *Parser) chunkSize(h Handler, line []byte) error {
	size, _, _ := bytes.Cut(line, []byte{';'})
	size = bytes.TrimRight(size, " \t")
	n, err := strconv.ParseUint(string(size), 16, 64)
	if err != nil {
		return p.fail(fmt.Errorf("%w: %q", ErrInvalidChunkSize, line))
	}
	if n > MaxBodySize {
		return p.fail(ErrBodyTooLarge)
	}

	if err := h.OnChunkHeader(); err != nil {
		return p.callbackFailed(err)
	}

	if n == 0 {
		p.state = stateTrailers
		return nil
	}
	p.remain = int64(n)
	p.state = stateChunkData
	return nil
}

func (p *Parser) complete(h Handler) error {
	p.state = stateDone
	if err := h.OnMessageComplete(); err != nil {
		return p.callbackFailed(err)
	}
	return nil
}

func (p *Parser) fail(err error) error {
	p.err = err
	p.state = stateError
	return err
}

func (p *Parser) callbackFailed(err error) error {
	return p.fail(fmt.Errorf("%w: %w", ErrCallback, err))
}

// parseVersion parses "HTTP/1.0" and "HTTP/1.1".
func parseVersion(b []byte) (major, minor uint16, ok bool) {
	if len(b) != 8 || !bytes.HasPrefix(b, []byte("HTTP/")) || b[6] != '.' {
		return 0, 0, false
	}
	if b[5] != '1' || (b[7] != '0' && b[7] != '1') {
		return 0, 0, false
	}
	return 1, uint16(b[7] - '0'), true
}

func parseDecimal(b []byte) (int64, bool) {
	if len(b) == 0 || len(b) > 18 {
		return 0, false
	}
	var n int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	return n, true
}

func isToken(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if !isTchar(c) {
			return false
		}
	}
	return true
}

// isTchar reports whether c is a token character (RFC 9110 §5.6.2).
func isTchar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

func isTarget(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c <= ' ' || c == 0x7f {
			return false
		}
	}
	return true
}

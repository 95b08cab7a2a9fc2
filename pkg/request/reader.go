package request

import (
	"bufio"
	"errors"
	"io"
	"log/slog"

	"github.com/getmockd/mockwire/pkg/httpparse"
	"github.com/getmockd/mockwire/pkg/logging"
)

// Read parses one request from rd.
//
// The source is consumed a line at a time and each line is handed to the
// grammar engine. Reading stops when the request is complete, when a read
// returns no data because the peer closed, or when the engine reports an
// error. Whatever was captured up to that point is returned; callers decide
// what to do with a partial request.
//
// While the engine is inside a length-delimited body the outstanding byte
// count is read instead of a line, so bodies without a trailing newline do
// not stall.
func Read(rd io.Reader, log *slog.Logger) *Request {
	if log == nil {
		log = logging.Nop()
	}

	req := New()
	sink := &tracer{Request: req, log: log}
	parser := httpparse.New()
	br := bufio.NewReaderSize(rd, httpparse.MaxLineSize+1)

	for !req.IsParsed() {
		log.Debug("read line")
		chunk, readErr := next(br, parser)
		if len(chunk) == 0 {
			log.Debug("peer closed", "error", readErr)
			break
		}

		log.Debug("parse line", "bytes", len(chunk))
		n, err := parser.Execute(sink, chunk)
		if err != nil || n == 0 {
			break
		}
		if readErr != nil {
			log.Debug("short read", "error", readErr)
			break
		}
	}

	if parser.HasError() {
		req.ParseError = parser.Err().Error()
		log.Debug("parse error", "error", req.ParseError)
	} else {
		req.Method = parser.Method()
		req.Major, req.Minor = parser.Version()
	}
	return req
}

// next returns the outstanding body bytes, or the next line. A line longer
// than the reader's buffer is returned as a full buffer so the parser
// rejects it before more of it is read. The returned line is only valid
// until the next read.
func next(br *bufio.Reader, parser *httpparse.Parser) ([]byte, error) {
	if remain := parser.BodyRemaining(); remain > 0 {
		buf := make([]byte, remain)
		n, err := io.ReadFull(br, buf)
		return buf[:n], err
	}
	line, err := br.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		err = nil
	}
	return line, err
}

// tracer logs the events a Request has no use for.
type tracer struct {
	*Request
	log *slog.Logger
}

func (t *tracer) OnChunkHeader() error {
	t.log.Debug("chunk header")
	return t.Request.OnChunkHeader()
}

func (t *tracer) OnHeadersComplete() error {
	t.log.Debug("headers complete", "headers", len(t.Headers))
	return t.Request.OnHeadersComplete()
}

package httpparse

import "errors"

// Grammar errors reported by Parser. Use errors.Is to test for them.
var (
	ErrInvalidMethod        = errors.New("invalid HTTP method")
	ErrInvalidTarget        = errors.New("invalid request target")
	ErrInvalidVersion       = errors.New("invalid HTTP version")
	ErrInvalidHeader        = errors.New("invalid header line")
	ErrInvalidContentLength = errors.New("invalid Content-Length value")
	ErrInvalidChunkSize     = errors.New("invalid chunk size")
	ErrLineTooLong          = errors.New("line exceeds maximum length")
	ErrBodyTooLarge         = errors.New("body exceeds maximum size")
	ErrCallback             = errors.New("callback failed")
)

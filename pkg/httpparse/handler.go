package httpparse

// Handler receives parser events. Returning a non-nil error from any callback
// moves the parser into its error state; the error is wrapped with ErrCallback.
//
// Byte slices passed to callbacks are only valid for the duration of the call.
type Handler interface {
	OnMessageBegin() error
	OnURL(b []byte) error
	OnHeaderField(b []byte) error
	OnHeaderValue(b []byte) error
	OnHeadersComplete() error
	OnChunkHeader() error
	OnBody(b []byte) error
	OnMessageComplete() error
}

// NopHandler implements every Handler callback as a no-op.
type NopHandler struct{}

func (NopHandler) OnMessageBegin() error { return nil }
func (NopHandler) OnURL([]byte) error { return nil }
func (NopHandler) OnHeaderField([]byte) error { return nil }
func (NopHandler) OnHeaderValue([]byte) error { return nil }
func (NopHandler) OnHeadersComplete() error { return nil }
func (NopHandler) OnChunkHeader() error { return nil }
func (NopHandler) OnBody([]byte) error { return nil }
func (NopHandler) OnMessageComplete() error { return nil }

var _ Handler = NopHandler{}

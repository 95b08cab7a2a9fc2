package server

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/getmockd/mockwire/pkg/mock"
	"github.com/getmockd/mockwire/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, cfg Config, opts ...Option) *Server {
	t.Helper()
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	s := New(cfg, opts...)
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// send writes raw, half-closes the connection and returns everything the
// server wrote back.
func send(t *testing.T, addr, raw string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = io.WriteString(conn, raw)
	require.NoError(t, err)
	_ = conn.(*net.TCPConn).CloseWrite()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	out, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(out)
}

func post(body string) string {
	return "POST /mocks HTTP/1.1\r\nHost: localhost\r\nContent-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body
}

func get(path string) string {
	return "GET " + path + " HTTP/1.1\r\nHost: localhost\r\n\r\n"
}

const (
	ok200  = "HTTP/1.1 200 OK\r\n\r\n"
	miss   = "HTTP/1.1 501 Not Implemented\r\n\r\n"
	helloM = `{"id":"hello","request":{"method":"GET","path":"/hello"},"response":{"status":200,"body":"hi"}}`
)

func TestServer_Scenario(t *testing.T) {
	s := startServer(t, Config{})
	addr := s.Addr()

	assert.Equal(t, ok200, send(t, addr, post(helloM)))
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\nhi", send(t, addr, get("/hello")))
	assert.Equal(t, miss, send(t, addr, get("/other")))
	assert.Equal(t, ok200, send(t, addr, "DELETE /mocks HTTP/1.1\r\n\r\n"))
	assert.Equal(t, miss, send(t, addr, get("/hello")))
}

func TestServer_ResponseIsByteExact(t *testing.T) {
	s := startServer(t, Config{})
	doc := `{"request":{"method":"PUT","path":"/items/1"},"response":{"status":201,` +
		`"headers":[["Content-Type","text/plain"],["Set-Cookie","a=1"],{"name":"Set-Cookie","value":"b=2"}],` +
		`"body":"line one\r\nline two\n"}}`

	require.Equal(t, ok200, send(t, s.Addr(), post(doc)))

	got := send(t, s.Addr(), "PUT /items/1 HTTP/1.0\r\nContent-Length: 3\r\n\r\nabc")
	assert.Equal(t, "HTTP/1.1 201 Created\r\n"+
		"Content-Type: text/plain\r\n"+
		"Set-Cookie: a=1\r\n"+
		"Set-Cookie: b=2\r\n"+
		"\r\n"+
		"line one\r\nline two\n", got)
}

func TestServer_UnregisteredStatusCode(t *testing.T) {
	s := startServer(t, Config{})
	require.Equal(t, ok200, send(t, s.Addr(), post(`{"request":{"method":"GET","path":"/odd"},"response":{"status":799}}`)))

	assert.Equal(t, "HTTP/1.1 799 Unknown\r\n\r\n", send(t, s.Addr(), get("/odd")))
}

func TestServer_MostRecentWins(t *testing.T) {
	s := startServer(t, Config{})
	require.Equal(t, ok200, send(t, s.Addr(), post(`{"request":{"method":"GET","path":"/v"},"response":{"status":200,"body":"1"}}`)))
	require.Equal(t, ok200, send(t, s.Addr(), post(`{"request":{"method":"GET","path":"/v"},"response":{"status":200,"body":"2"}}`)))

	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\n2", send(t, s.Addr(), get("/v")))
}

func TestServer_RegisterErrors(t *testing.T) {
	s := startServer(t, Config{})

	got := send(t, s.Addr(), "POST /mocks HTTP/1.1\r\nHost: localhost\r\n\r\n")
	assert.Equal(t, "HTTP/1.1 422 Unprocessable Entity\r\n\r\nContentLengthMissing", got)

	got = send(t, s.Addr(), post(`{"request":{"method":"GET"}}`))
	assert.Equal(t, "HTTP/1.1 422 Unprocessable Entity\r\n\r\nInvalidMockResponse", got)

	got = send(t, s.Addr(), post(`not json`))
	assert.Equal(t, "HTTP/1.1 422 Unprocessable Entity\r\n\r\nInvalidMockResponse", got)

	assert.Zero(t, s.Store().Len())
}

func TestServer_RegisterBodyWithInvalidUTF8(t *testing.T) {
	s := startServer(t, Config{})

	doc := "{\"request\":{\"method\":\"GET\",\"path\":\"/bin\"},\"response\":{\"status\":200,\"body\":\"a\xffb\"}}"
	require.Equal(t, ok200, send(t, s.Addr(), post(doc)))

	got := send(t, s.Addr(), get("/bin"))
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\na\uFFFDb", got)
}

func TestServer_DeleteByID(t *testing.T) {
	s := startServer(t, Config{})
	require.Equal(t, ok200, send(t, s.Addr(), post(`{"id":"a","request":{"method":"GET","path":"/a"},"response":{"status":200,"body":"A"}}`)))
	require.Equal(t, ok200, send(t, s.Addr(), post(`{"id":"b","request":{"method":"GET","path":"/b"},"response":{"status":200,"body":"B"}}`)))

	assert.Equal(t, ok200, send(t, s.Addr(), "DELETE /mocks HTTP/1.1\r\nx-mock-id: a\r\n\r\n"))
	assert.Equal(t, miss, send(t, s.Addr(), get("/a")))
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\nB", send(t, s.Addr(), get("/b")))

	// Unknown ids are not an error.
	assert.Equal(t, ok200, send(t, s.Addr(), "DELETE /mocks HTTP/1.1\r\nX-Mock-Id: nope\r\n\r\n"))
	assert.Equal(t, 1, s.Store().Len())
}

func TestServer_AssignsIDWhenMissing(t *testing.T) {
	st := store.NewMemory()
	s := startServer(t, Config{}, WithStore(st))
	require.Equal(t, ok200, send(t, s.Addr(), post(`{"request":{"method":"GET","path":"/x"},"response":{"status":204}}`)))

	m, ok := st.Match("GET", "/x")
	require.True(t, ok)
	assert.Len(t, m.ID, 36)
}

func TestServer_PartialRequests(t *testing.T) {
	s := startServer(t, Config{})
	require.Equal(t, ok200, send(t, s.Addr(), post(helloM)))

	t.Run("truncated after request line is dispatched", func(t *testing.T) {
		assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\nhi", send(t, s.Addr(), "GET /hello HTTP/1.1\r\nHost: x\r\n"))
	})

	t.Run("malformed request falls through to 501", func(t *testing.T) {
		assert.Equal(t, miss, send(t, s.Addr(), "GET /hello HTTP/3.0\r\n\r\n"))
	})

	t.Run("empty connection falls through to 501", func(t *testing.T) {
		assert.Equal(t, miss, send(t, s.Addr(), ""))
	})

	t.Run("truncated registration body is decoded as received", func(t *testing.T) {
		raw := "POST /mocks HTTP/1.1\r\nContent-Length: 500\r\n\r\n" + helloM[:30]
		assert.Equal(t, "HTTP/1.1 422 Unprocessable Entity\r\n\r\nInvalidMockResponse", send(t, s.Addr(), raw))
	})
}

func TestServer_StartIsIdempotent(t *testing.T) {
	s := startServer(t, Config{})
	addr := s.Addr()

	require.NoError(t, s.Start())
	assert.Equal(t, addr, s.Addr())

	other := New(Config{Addr: addr})
	require.NoError(t, other.Start())
	assert.Equal(t, addr, other.Addr())
	assert.True(t, s.Listening())
	assert.False(t, other.Listening())
	require.NoError(t, other.Close())

	// The first server still owns the listener.
	require.Equal(t, ok200, send(t, addr, post(helloM)))
	assert.Equal(t, 1, s.Store().Len())
}

func TestServer_StartBindFailure(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:notaport", ProbeTimeout: 50 * time.Millisecond})
	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen 127.0.0.1:notaport")
}

func TestServer_Close(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0"})
	require.NoError(t, s.Start())
	addr := s.Addr()

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.False(t, isListening(addr, 100*time.Millisecond))
}

func TestServer_CloseBeforeBindStopsAcceptLoop(t *testing.T) {
	port := getFreePort(t)
	addr := "127.0.0.1:" + strconv.Itoa(port)
	s := New(Config{Addr: addr})

	// An accept loop launched by Start that has not bound yet.
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	require.NoError(t, s.Close())

	bound := make(chan error, 1)
	s.wg.Add(1)
	s.serve(bound, gen)

	assert.ErrorIs(t, <-bound, ErrServerClosed)
	assert.False(t, s.Listening())
	assert.False(t, isListening(addr, 100*time.Millisecond))
}

func TestServer_RestartAfterClose(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:" + strconv.Itoa(getFreePort(t))})
	require.NoError(t, s.Start())
	require.NoError(t, s.Close())

	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Close() })
	assert.True(t, s.Listening())
	assert.Equal(t, miss, send(t, s.Addr(), get("/x")))
}

func TestServer_CloseUnblocksStalledConnection(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0"})
	require.NoError(t, s.Start())

	conn, err := net.Dial("tcp", s.Addr())
	require.NoError(t, err)
	defer conn.Close()
	_, _ = io.WriteString(conn, "GET /slow HTTP/1.1\r\n")

	done := make(chan error, 1)
	go func() { done <- s.Close() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
}

func TestServer_ReadTimeout(t *testing.T) {
	s := startServer(t, Config{ReadTimeout: 50 * time.Millisecond})

	conn, err := net.Dial("tcp", s.Addr())
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	out, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, miss, string(out))
}

func TestServer_Concurrent(t *testing.T) {
	s := startServer(t, Config{Concurrent: true, MaxConns: 2})
	for i := range 5 {
		doc := fmt.Sprintf(`{"request":{"method":"GET","path":"/c/%d"},"response":{"status":200,"body":"%d"}}`, i, i)
		require.Equal(t, ok200, send(t, s.Addr(), post(doc)))
	}

	var wg sync.WaitGroup
	results := make([]string, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = sendNoAssert(s.Addr(), get(fmt.Sprintf("/c/%d", i%5)))
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, fmt.Sprintf("HTTP/1.1 200 OK\r\n\r\n%d", i%5), got)
	}
}

// sendNoAssert is send for use off the test goroutine.
func sendNoAssert(addr, raw string) string {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err.Error()
	}
	defer conn.Close()
	if _, err := io.WriteString(conn, raw); err != nil {
		return err.Error()
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	out, err := io.ReadAll(conn)
	if err != nil {
		return err.Error()
	}
	return string(out)
}

func TestServer_SeededStore(t *testing.T) {
	st := store.NewMemory()
	st.Insert(&mock.Mock{
		ID:       "seed",
		Request:  mock.RequestKey{Method: "HEAD", Path: "/"},
		Response: mock.Response{Status: 204, Headers: []mock.Header{{Name: "X-Seed", Value: "1"}}},
	})
	s := startServer(t, Config{}, WithStore(st))

	assert.Same(t, st, s.Store())
	assert.Equal(t, "HTTP/1.1 204 No Content\r\nX-Seed: 1\r\n\r\n", send(t, s.Addr(), "HEAD / HTTP/1.1\r\n\r\n"))
}

func getFreePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

package testing

import (
	"io"
	"net/http"
	"strings"
	stdtesting "testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *stdtesting.T, m *MockServer, path string) (*http.Response, string) {
	t.Helper()
	resp, err := m.Client().Get(m.URL() + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestNew(t *stdtesting.T) {
	mock := New(t)
	require.NotNil(t, mock)
	assert.Equal(t, t, mock.t)
	assert.Empty(t, mock.URL())
}

func TestStartAndStop(t *stdtesting.T) {
	mock := New(t)
	mock.Mock("GET", "/test").
		WithStatus(200).
		WithBody("hello").
		Reply()

	url := mock.Start()
	require.True(t, strings.HasPrefix(url, "http://"), url)
	assert.Equal(t, url, mock.Start())

	resp, body := get(t, mock, "/test")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "hello", body)

	mock.Stop()
	mock.Stop()
	assert.Equal(t, url, mock.URL())
	assert.Nil(t, mock.Server())
}

func TestMockAfterStart(t *stdtesting.T) {
	mock := New(t)
	mock.Start()

	mock.Mock("POST", "/items").
		WithStatus(201).
		WithHeader("Location", "/items/1").
		WithHeader("X-Dup", "a").
		WithHeader("X-Dup", "b").
		WithJSON(map[string]int{"id": 1}).
		Reply()

	resp, err := mock.Client().Post(mock.URL()+"/items", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "/items/1", resp.Header.Get("Location"))
	assert.Equal(t, []string{"a", "b"}, resp.Header.Values("X-Dup"))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, string(body))
}

func TestDefaultsTo200(t *stdtesting.T) {
	mock := New(t)
	mock.Mock("GET", "/empty").Reply()
	mock.Start()

	resp, body := get(t, mock, "/empty")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, body)
}

func TestUnmatchedIs501(t *stdtesting.T) {
	mock := New(t)
	mock.Start()

	resp, _ := get(t, mock, "/nothing")
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestDelete(t *stdtesting.T) {
	mock := New(t)
	mock.Mock("GET", "/a").WithID("a").WithBody("A").Reply()
	mock.Mock("GET", "/gone").WithID("gone").Reply()
	mock.Delete("gone")
	mock.Start()

	resp, _ := get(t, mock, "/gone")
	assert.Equal(t, 501, resp.StatusCode)

	mock.Mock("GET", "/b").WithID("b").WithBody("B").Reply()
	mock.Delete("a")

	resp, _ = get(t, mock, "/a")
	assert.Equal(t, 501, resp.StatusCode)
	_, body := get(t, mock, "/b")
	assert.Equal(t, "B", body)
}

func TestReset(t *stdtesting.T) {
	mock := New(t)
	mock.Start()
	mock.Mock("GET", "/x").WithBody("x").Reply()
	mock.Mock("GET", "/y").RespondNotFound().Reply()

	resp, _ := get(t, mock, "/y")
	assert.Equal(t, 404, resp.StatusCode)

	mock.Reset()
	assert.Zero(t, mock.Server().Store().Len())

	resp, _ = get(t, mock, "/x")
	assert.Equal(t, 501, resp.StatusCode)
}

func TestMostRecentMockWins(t *stdtesting.T) {
	mock := New(t)
	mock.Mock("GET", "/v").RespondWith(200, "old").Reply()
	mock.Mock("GET", "/v").RespondWith(200, "new").Reply()
	mock.Start()

	_, body := get(t, mock, "/v")
	assert.Equal(t, "new", body)
}

func TestBuilder(t *stdtesting.T) {
	mock := New(t)

	b := mock.Mock("GET", "/b").WithBody(map[string]string{"k": "v"})
	assert.Equal(t, `{"k":"v"}`, b.mock.Response.Body)
	assert.Empty(t, b.mock.Response.Headers)

	b = mock.Mock("GET", "/b").WithBody([]byte("raw"))
	assert.Equal(t, "raw", b.mock.Response.Body)

	b = mock.Mock("GET", "/b").WithJSON(make(chan int))
	assert.ErrorContains(t, b.Err(), "WithJSON")

	b = mock.Mock("DELETE", "/b").RespondNoContent()
	assert.Equal(t, 204, b.mock.Response.Status)
	assert.NoError(t, b.Err())
}

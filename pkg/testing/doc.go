// Package testing runs a mockwire server inside Go tests.
//
// The server listens on a random local port and every mock is registered
// over the same POST /mocks route real clients use.
//
// # Basic Usage
//
//	func TestMyAPI(t *testing.T) {
//	    mock := mwtesting.New(t)
//
//	    mock.Mock("GET", "/users/123").
//	        WithStatus(200).
//	        WithJSON(map[string]string{"id": "123"}).
//	        Reply()
//
//	    url := mock.Start()
//
//	    resp, err := http.Get(url + "/users/123")
//	    ...
//	}
//
// Mocks may be added before or after Start. The server is stopped when the
// test finishes.
//
// # Removing Mocks
//
//	mock.Mock("GET", "/flaky").WithID("flaky").WithStatus(503).Reply()
//	mock.Delete("flaky")   // remove one mock
//	mock.Reset()           // remove every mock
//
// Responses carry only the headers a mock declares and are delimited by
// the server closing the connection, so clients should not reuse
// connections. Client returns an http.Client set up that way.
package testing

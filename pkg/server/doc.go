// Package server implements the mockwire listener.
//
// A Server accepts TCP connections and serves exactly one request on each.
// Two routes form the control plane:
//
//	POST   /mocks   register the mock document in the body
//	DELETE /mocks   remove the mock named by X-Mock-Id, or all mocks
//
// Every other request is answered from the registered mocks, newest first,
// or with 501 Not Implemented when none matches. Responses carry only the
// headers a mock declares and the body runs until the connection closes.
package server

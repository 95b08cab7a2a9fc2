// Package store holds the registered mocks served by mockwire.
package store

import "github.com/getmockd/mockwire/pkg/mock"

// MockStore is the registry of mocks. Implementations must be safe for
// concurrent use; each method is a single atomic operation.
type MockStore interface {
	// Insert adds m after every existing mock. Nil mocks are ignored.
	Insert(m *mock.Mock)

	// Remove deletes the oldest mock whose ID equals *id, or every mock
	// when id is nil. It returns the number of mocks removed.
	Remove(id *string) int

	// Match returns the most recently inserted mock for method and path.
	Match(method, path string) (*mock.Mock, bool)

	// Len returns the number of stored mocks.
	Len() int
}

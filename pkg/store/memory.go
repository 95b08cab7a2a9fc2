package store

import (
	"sync"

	"github.com/getmockd/mockwire/pkg/mock"
)

// Memory is a MockStore backed by a slice kept in insertion order.
type Memory struct {
	mu    sync.Mutex
	mocks []*mock.Mock
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Insert appends m.
func (s *Memory) Insert(m *mock.Mock) {
	if m == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mocks = append(s.mocks, m)
}

// Remove deletes the first mock with the given id, or all mocks when id is
// nil. A missing id is not an error.
func (s *Memory) Remove(id *string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == nil {
		n := len(s.mocks)
		s.mocks = nil
		return n
	}
	for i, m := range s.mocks {
		if m.ID == *id {
			s.mocks = append(s.mocks[:i], s.mocks[i+1:]...)
			return 1
		}
	}
	return 0
}

// Match scans from the newest mock to the oldest.
func (s *Memory) Match(method, path string) (*mock.Mock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.mocks) - 1; i >= 0; i-- {
		if s.mocks[i].Matches(method, path) {
			return s.mocks[i], true
		}
	}
	return nil, false
}

// Len returns the number of stored mocks.
func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mocks)
}

// Ensure Memory implements MockStore.
var _ MockStore = (*Memory)(nil)

package store

import (
	"strconv"
	"sync"
	"testing"

	"github.com/getmockd/mockwire/pkg/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(id, method, path, body string) *mock.Mock {
	return &mock.Mock{
		ID:       id,
		Request:  mock.RequestKey{Method: method, Path: path},
		Response: mock.Response{Status: 200, Body: body},
	}
}

func ptr(s string) *string { return &s }

func TestMemory_MatchEmpty(t *testing.T) {
	s := NewMemory()
	m, ok := s.Match("GET", "/")
	assert.False(t, ok)
	assert.Nil(t, m)
	assert.Zero(t, s.Len())
}

func TestMemory_InsertNilIgnored(t *testing.T) {
	s := NewMemory()
	s.Insert(nil)
	assert.Zero(t, s.Len())
}

func TestMemory_MostRecentWins(t *testing.T) {
	s := NewMemory()
	s.Insert(newMock("a", "GET", "/x", "first"))
	s.Insert(newMock("b", "GET", "/x", "second"))
	s.Insert(newMock("c", "POST", "/x", "other"))

	m, ok := s.Match("GET", "/x")
	require.True(t, ok)
	assert.Equal(t, "second", m.Response.Body)

	assert.Equal(t, 1, s.Remove(ptr("b")))
	m, ok = s.Match("GET", "/x")
	require.True(t, ok)
	assert.Equal(t, "first", m.Response.Body)
}

func TestMemory_ExactMatchOnly(t *testing.T) {
	s := NewMemory()
	s.Insert(newMock("a", "GET", "/x", ""))

	_, ok := s.Match("get", "/x")
	assert.False(t, ok)
	_, ok = s.Match("GET", "/x/")
	assert.False(t, ok)
}

func TestMemory_RemoveByID(t *testing.T) {
	s := NewMemory()
	s.Insert(newMock("a", "GET", "/a", ""))
	s.Insert(newMock("b", "GET", "/b", ""))

	assert.Equal(t, 1, s.Remove(ptr("a")))
	_, ok := s.Match("GET", "/a")
	assert.False(t, ok)
	_, ok = s.Match("GET", "/b")
	assert.True(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestMemory_RemoveFirstDuplicateOnly(t *testing.T) {
	s := NewMemory()
	s.Insert(newMock("dup", "GET", "/a", "old"))
	s.Insert(newMock("dup", "GET", "/a", "new"))

	assert.Equal(t, 1, s.Remove(ptr("dup")))
	m, ok := s.Match("GET", "/a")
	require.True(t, ok)
	assert.Equal(t, "new", m.Response.Body)
}

func TestMemory_RemoveMissingID(t *testing.T) {
	s := NewMemory()
	s.Insert(newMock("a", "GET", "/a", ""))

	assert.Zero(t, s.Remove(ptr("zzz")))
	assert.Equal(t, 1, s.Len())
}

func TestMemory_RemoveAll(t *testing.T) {
	s := NewMemory()
	for i := range 5 {
		s.Insert(newMock(strconv.Itoa(i), "GET", "/"+strconv.Itoa(i), ""))
	}

	assert.Equal(t, 5, s.Remove(nil))
	assert.Zero(t, s.Len())
	_, ok := s.Match("GET", "/0")
	assert.False(t, ok)
	assert.Zero(t, s.Remove(nil))
}

func TestMemory_Concurrent(t *testing.T) {
	s := NewMemory()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := strconv.Itoa(i)
			s.Insert(newMock(id, "GET", "/c", id))
			s.Match("GET", "/c")
			if i%2 == 0 {
				s.Remove(&id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, s.Len())
}

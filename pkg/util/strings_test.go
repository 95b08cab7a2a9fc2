package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateBody(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		maxSize int
		want    string
	}{
		{"empty", "", 10, ""},
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"longer than max", "hello world", 5, "hello...(truncated)"},
		{"multibyte not split", "café!", 4, "caf...(truncated)"},
		{"multibyte kept whole", "café!", 5, "café...(truncated)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateBody(tt.data, tt.maxSize))
		})
	}
}

func TestTruncateBody_DefaultMaxSize(t *testing.T) {
	short := strings.Repeat("a", MaxLogBodySize)
	assert.Equal(t, short, TruncateBody(short, 0))

	long := strings.Repeat("a", MaxLogBodySize+1)
	got := TruncateBody(long, -1)
	assert.True(t, strings.HasSuffix(got, "...(truncated)"))
	assert.Len(t, got, MaxLogBodySize+len("...(truncated)"))
}

// Package util holds small helpers shared by mockwire packages.
package util

// MaxLogBodySize is the default number of body bytes kept in a log record.
const MaxLogBodySize = 1024

// TruncateBody cuts data to at most maxSize bytes and marks the cut with
// "...(truncated)". A maxSize <= 0 means MaxLogBodySize. The cut never
// splits a UTF-8 sequence.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) <= maxSize {
		return data
	}
	cut := maxSize
	for cut > 0 && data[cut]&0xC0 == 0x80 {
		cut--
	}
	return data[:cut] + "...(truncated)"
}

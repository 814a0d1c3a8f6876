package testutil

import (
	"bytes"
	"io"
)

// TrackingReader wraps a reader and counts how many bytes were actually
// pulled from it, so tests can prove a payload streamed instead of being
// materialized.
type TrackingReader struct {
	r         io.Reader
	bytesRead int
	reads     int
}

// NewTrackingReader returns a TrackingReader over data. The reader
// deliberately hides Len/Seek/Stat so its length is not intrinsically
// knowable.
func NewTrackingReader(data []byte) *TrackingReader {
	return &TrackingReader{r: bytes.NewReader(data)}
}

func (t *TrackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	t.bytesRead += n
	t.reads++
	return n, err
}

// BytesRead reports how many bytes have been pulled so far.
func (t *TrackingReader) BytesRead() int {
	return t.bytesRead
}

// Reads reports how many Read calls were made.
func (t *TrackingReader) Reads() int {
	return t.reads
}

// PatternData builds a deterministic payload of the given size for
// byte-conservation assertions.
func PatternData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	return data
}

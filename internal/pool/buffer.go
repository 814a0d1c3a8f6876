package pool

import (
	"sync"
)

const (
	// SmallBufferSize defines the size for small buffers (64KB)
	SmallBufferSize = 64 * 1024
	// LargeBufferSize defines the size for large buffers (8MB), sized to a
	// default multipart part
	LargeBufferSize = 8 * 1024 * 1024
)

var (
	small = &sync.Pool{
		New: func() any {
			buf := make([]byte, SmallBufferSize)
			return &buf
		},
	}
	large = &sync.Pool{
		New: func() any {
			buf := make([]byte, LargeBufferSize)
			return &buf
		},
	}
)

// Get returns a buffer with a length of at least size. Buffers beyond the
// large class are allocated directly and not pooled.
func Get(size int) []byte {
	switch {
	case size <= SmallBufferSize:
		return (*small.Get().(*[]byte))[:SmallBufferSize]
	case size <= LargeBufferSize:
		return (*large.Get().(*[]byte))[:LargeBufferSize]
	default:
		return make([]byte, size)
	}
}

// Put returns a buffer obtained from Get. Oversized buffers are dropped.
func Put(buf []byte) {
	buf = buf[:cap(buf)]
	switch cap(buf) {
	case SmallBufferSize:
		small.Put(&buf)
	case LargeBufferSize:
		large.Put(&buf)
	}
}

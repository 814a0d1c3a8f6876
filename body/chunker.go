package body

import (
	"io"

	"github.com/streamforge/awsclient/errors"
)

// Chunker is the uniform pull adapter over a Source. It does no buffering
// of its own beyond splitting oversized chunks, so memory use stays bounded
// by the requested chunk size no matter how large the payload is.
//
// Most callers want Build instead; a Chunker is for consumers like
// multipart uploaders that drive the source chunk by chunk and never need a
// total length.
type Chunker struct {
	src    Source
	eof    bool
	closed bool
}

// NewChunker claims src and returns its pull adapter. Like Build, this
// transfers consumption ownership of the source.
func NewChunker(src Source) (*Chunker, error) {
	if err := src.acquire(); err != nil {
		return nil, err
	}
	return &Chunker{src: src}, nil
}

// Next yields up to max bytes, or io.EOF once the source is exhausted.
// After end-of-stream every further call keeps returning io.EOF. The
// returned slice is only valid until the following call.
func (c *Chunker) Next(max int) ([]byte, error) {
	if max <= 0 {
		return nil, errors.NewError("body.next", errors.ErrInvalidInput).
			WithMessage("max must be positive")
	}
	if c.eof || c.closed {
		return nil, io.EOF
	}
	chunk, err := c.src.next(max)
	if err == io.EOF {
		c.eof = true
	}
	return chunk, err
}

// Read implements io.Reader over Next.
func (c *Chunker) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	chunk, err := c.Next(len(p))
	return copy(p, chunk), err
}

// rewind restarts the adapter when the underlying source supports it.
func (c *Chunker) rewind() error {
	if c.closed {
		return errors.NewError("body.rewind", errors.ErrBodyConsumed)
	}
	rw, ok := c.src.(rewinder)
	if !ok {
		return errors.NewError("body.rewind", errors.ErrNotRewindable)
	}
	if err := rw.rewind(); err != nil {
		return err
	}
	c.eof = false
	return nil
}

// rewindable reports whether the source can restart from its first byte.
func (c *Chunker) rewindable() bool {
	_, ok := c.src.(rewinder)
	return ok && !c.closed
}

// Close releases resources the source owns. Idempotent; Next yields io.EOF
// afterwards.
func (c *Chunker) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.src.release()
}

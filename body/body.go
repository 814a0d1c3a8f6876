package body

import (
	"bytes"
	"io"
	"log/slog"
)

// drainChunkSize is the pull granularity used when an unknown-length source
// has to be materialized.
const drainChunkSize = 64 * 1024

var noopLogger = slog.New(slog.DiscardHandler)

// RequestBody is the transport-facing streaming payload: a uniform pull
// interface plus a declared content length. It is single-pass; a transport
// that wants to resend must Rewind first.
type RequestBody struct {
	ch     *Chunker
	length Length
	logger *slog.Logger
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	contentLength *int64
	logger        *slog.Logger
}

// WithContentLength asserts the payload's total byte count, bypassing
// intrinsic size detection. The value is trusted as-is and never checked
// against the bytes actually streamed.
func WithContentLength(n int64) BuildOption {
	return func(c *buildConfig) {
		c.contentLength = &n
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(c *buildConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Build normalizes src into a RequestBody ready to hand to a transport.
//
// When the content length resolves to a known value the body streams
// straight from the source. When it does not, the entire source is drained
// into memory here so the length can be declared; this is the only place in
// the package that buffers a payload wholesale.
//
// Build takes over consumption of src: handle- and producer-backed sources
// must not be read elsewhere afterwards.
func Build(src Source, opts ...BuildOption) (*RequestBody, error) {
	cfg := buildConfig{logger: noopLogger}
	for _, opt := range opts {
		opt(&cfg)
	}

	ch, err := NewChunker(src)
	if err != nil {
		return nil, err
	}

	length, err := Resolve(src, cfg.contentLength)
	if err != nil {
		ch.Close()
		return nil, err
	}

	b := &RequestBody{
		ch:     ch,
		length: length,
		logger: cfg.logger,
	}

	if !length.IsKnown() {
		if err := b.materialize(); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// materialize drains the source into one buffer, trading memory for a
// declarable content length. Non-seekable handles with no size query also
// end up here, which is a real cost for large payloads; callers who know
// the size should pass WithContentLength instead.
func (b *RequestBody) materialize() error {
	b.logger.Debug("content length unknown, buffering body")

	var buf bytes.Buffer
	for {
		chunk, err := b.ch.Next(drainChunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			b.ch.Close()
			return err
		}
		buf.Write(chunk)
	}

	b.ch.Close()
	b.ch = &Chunker{src: &bufferSource{b: buf.Bytes()}}
	b.length = Known(int64(buf.Len()))
	b.logger.Debug("body buffered", slog.Int64("content_length", int64(buf.Len())))
	return nil
}

// ContentLength returns the declared byte count and whether one was
// determined. After Build it is always known: unknown-length sources were
// already materialized.
func (b *RequestBody) ContentLength() (int64, bool) {
	return b.length.Value()
}

// Next yields up to max bytes of the payload, or io.EOF once it is
// exhausted. Calling Next again after end-of-stream keeps returning io.EOF.
// The returned slice is only valid until the following call.
func (b *RequestBody) Next(max int) ([]byte, error) {
	return b.ch.Next(max)
}

// Read implements io.Reader over Next so the body can be handed directly to
// net/http.
func (b *RequestBody) Read(p []byte) (int, error) {
	return b.ch.Read(p)
}

// Rewindable reports whether the body can restart from its first byte.
func (b *RequestBody) Rewindable() bool {
	return b.ch.rewindable()
}

// Rewind restarts the body from its first byte for a resend. Bodies backed
// by producers or lazy sequences cannot restart and report
// errors.ErrNotRewindable; partial consumption of those is final.
func (b *RequestBody) Rewind() error {
	return b.ch.rewind()
}

// Close releases resources the body owns, such as a file handle opened by
// FromFile. Resources received already open stay open for their owner.
// Close is idempotent, and the body yields io.EOF afterwards.
func (b *RequestBody) Close() error {
	return b.ch.Close()
}

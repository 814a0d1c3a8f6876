package body

import (
	"io"
	iofs "io/fs"
	"iter"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/streamforge/awsclient/errors"
	"github.com/streamforge/awsclient/internal/pool"
)

// Source is the caller-supplied representation of an upload payload before
// normalization. Construct one with FromBytes, FromString, FromReader,
// FromFile, FromProducer, or FromSeq.
//
// A Source is owned by at most one RequestBody at a time. Handing it to
// Build transfers consumption ownership; reusing a non-restartable source
// afterwards fails with errors.ErrBodyConsumed.
type Source interface {
	// next yields up to max bytes, or io.EOF once the payload is
	// exhausted. The returned slice is only valid until the following
	// call.
	next(max int) ([]byte, error)

	// length reports the intrinsic payload size when the variant can
	// determine it without consuming itself.
	length() (int64, bool)

	// acquire claims the source for a new RequestBody, resetting
	// restartable variants to their start position.
	acquire() error

	// release frees anything the source itself owns. It never closes
	// resources the caller handed in already open.
	release() error
}

// rewinder is implemented by sources that can restart from their first byte
// after partial consumption.
type rewinder interface {
	rewind() error
}

// bufferSource serves a fully materialized payload.
type bufferSource struct {
	b   []byte
	off int
}

// FromBytes returns a Source backed by a fully materialized byte slice.
// The slice must not be mutated while the source is in use.
func FromBytes(b []byte) Source {
	return &bufferSource{b: b}
}

// FromString returns a Source backed by an in-memory string.
func FromString(s string) Source {
	return &bufferSource{b: []byte(s)}
}

func (s *bufferSource) next(max int) ([]byte, error) {
	if s.off >= len(s.b) {
		return nil, io.EOF
	}
	end := s.off + max
	if end > len(s.b) {
		end = len(s.b)
	}
	chunk := s.b[s.off:end]
	s.off = end
	return chunk, nil
}

func (s *bufferSource) length() (int64, bool) {
	return int64(len(s.b)), true
}

func (s *bufferSource) acquire() error {
	s.off = 0
	return nil
}

func (s *bufferSource) rewind() error {
	s.off = 0
	return nil
}

func (s *bufferSource) release() error { return nil }

// readerSource serves an open, caller-owned byte-producing resource.
type readerSource struct {
	r        io.Reader
	scratch  []byte
	start    int64
	seekable bool
	consumed bool
}

// FromReader returns a Source backed by an already-open reader. The length
// is taken from a Len, Seek, or Stat capability when the reader has one,
// and is unknown otherwise (forcing Build to buffer the whole payload).
//
// The reader stays owned by the caller: it is never closed by this package,
// and it must not be read elsewhere once handed to Build.
func FromReader(r io.Reader) Source {
	_, seekable := r.(io.Seeker)
	return &readerSource{r: r, seekable: seekable}
}

func (s *readerSource) next(max int) ([]byte, error) {
	s.grow(max)
	n, err := s.r.Read(s.scratch[:max])
	if n > 0 {
		return s.scratch[:n], nil
	}
	if err == nil || err == io.EOF {
		return nil, io.EOF
	}
	return nil, errors.NewError("body.next", errors.ErrSourceRead).WithMessage(err.Error())
}

func (s *readerSource) grow(max int) {
	if cap(s.scratch) < max {
		if s.scratch != nil {
			pool.Put(s.scratch)
		}
		s.scratch = pool.Get(max)
	}
	s.scratch = s.scratch[:cap(s.scratch)]
}

func (s *readerSource) length() (int64, bool) {
	// bytes.Reader, strings.Reader and friends report their unread count
	// directly.
	if l, ok := s.r.(interface{ Len() int }); ok {
		return int64(l.Len()), true
	}
	if sk, ok := s.r.(io.Seeker); ok {
		cur, err := sk.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, false
		}
		end, err := sk.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, false
		}
		if _, err := sk.Seek(cur, io.SeekStart); err != nil {
			return 0, false
		}
		return end - cur, true
	}
	if st, ok := s.r.(interface{ Stat() (iofs.FileInfo, error) }); ok {
		if info, err := st.Stat(); err == nil && info.Mode().IsRegular() {
			return info.Size(), true
		}
	}
	return 0, false
}

func (s *readerSource) acquire() error {
	if !s.consumed {
		s.consumed = true
		if sk, ok := s.r.(io.Seeker); ok {
			if off, err := sk.Seek(0, io.SeekCurrent); err == nil {
				s.start = off
			} else {
				s.seekable = false
			}
		}
		return nil
	}
	if err := s.rewind(); err != nil {
		return errors.NewError("body.acquire", errors.ErrBodyConsumed)
	}
	return nil
}

func (s *readerSource) rewind() error {
	if !s.seekable {
		return errors.NewError("body.rewind", errors.ErrNotRewindable)
	}
	if _, err := s.r.(io.Seeker).Seek(s.start, io.SeekStart); err != nil {
		return errors.NewError("body.rewind", errors.ErrSourceRead).WithMessage(err.Error())
	}
	return nil
}

func (s *readerSource) release() error {
	if s.scratch != nil {
		pool.Put(s.scratch)
		s.scratch = nil
	}
	return nil
}

// fileSource is a readerSource over a file this package opened itself, so
// the built RequestBody owns and closes the handle.
type fileSource struct {
	readerSource
	f fs.File
}

// FromFile opens path on the given filesystem and returns a Source over its
// contents. Unlike FromReader, the file handle is owned by this package and
// closed when the built RequestBody is closed.
func FromFile(fsys fs.Filesystem, path string) (Source, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.NewError("body.open", err).WithKey(path)
	}
	return &fileSource{readerSource: readerSource{r: f, seekable: true}, f: f}, nil
}

func (s *fileSource) release() error {
	_ = s.readerSource.release()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	if err != nil {
		return errors.NewError("body.close", err)
	}
	return nil
}

// Producer is a callback invoked repeatedly to pull payload bytes. Each
// invocation requests up to max bytes; returning an empty slice with a nil
// error, or io.EOF, signals end-of-stream.
type Producer func(max int) ([]byte, error)

// producerSource serves a lazily-invoked producer callback.
type producerSource struct {
	fn       Producer
	pending  []byte
	done     bool
	consumed bool
}

// FromProducer returns a Source that pulls bytes by invoking fn. The
// payload length is never intrinsically known: supply it through
// WithContentLength at Build time or the whole stream is buffered first.
func FromProducer(fn Producer) Source {
	return &producerSource{fn: fn}
}

func (s *producerSource) next(max int) ([]byte, error) {
	if len(s.pending) > 0 {
		return s.serve(s.pending, max), nil
	}
	if s.done {
		return nil, io.EOF
	}
	b, err := s.fn(max)
	switch {
	case err == io.EOF:
		s.done = true
		if len(b) > 0 {
			return s.serve(b, max), nil
		}
		return nil, io.EOF
	case err != nil:
		s.done = true
		return nil, errors.NewError("body.next", errors.ErrSourceRead).WithMessage(err.Error())
	case len(b) == 0:
		s.done = true
		return nil, io.EOF
	}
	return s.serve(b, max), nil
}

// serve returns at most max bytes of b, carrying any remainder to the
// following call.
func (s *producerSource) serve(b []byte, max int) []byte {
	if len(b) <= max {
		s.pending = nil
		return b
	}
	s.pending = b[max:]
	return b[:max]
}

func (s *producerSource) length() (int64, bool) { return 0, false }

func (s *producerSource) acquire() error {
	if s.consumed {
		return errors.NewError("body.acquire", errors.ErrBodyConsumed)
	}
	s.consumed = true
	return nil
}

func (s *producerSource) release() error {
	// No cancellation hook beyond never invoking fn again.
	s.done = true
	return nil
}

// seqSource serves a finite lazy sequence of chunks. Chunk boundaries are
// not preserved: oversized chunks are split and undersized ones coalesced
// so every pull except the last yields exactly the requested byte count.
type seqSource struct {
	pull     func() ([]byte, error, bool)
	stop     func()
	pending  []byte
	scratch  []byte
	err      error
	done     bool
	consumed bool
}

// FromSeq returns a Source over a lazy sequence of byte chunks. The
// sequence is consumed at most once and cannot be restarted; yielding a
// non-nil error aborts the stream.
func FromSeq(seq iter.Seq2[[]byte, error]) Source {
	pull, stop := iter.Pull2(seq)
	return &seqSource{pull: pull, stop: stop}
}

// FromChunks returns a Source over an in-order list of byte chunks. The
// chunks are already materialized, so unlike FromSeq the total length is
// known up front.
func FromChunks(chunks ...[]byte) Source {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	b := make([]byte, 0, n)
	for _, c := range chunks {
		b = append(b, c...)
	}
	return &bufferSource{b: b}
}

func (s *seqSource) next(max int) ([]byte, error) {
	if cap(s.scratch) < max {
		s.scratch = make([]byte, max)
	}

	n := 0
	for n < max {
		if len(s.pending) > 0 {
			c := copy(s.scratch[n:max], s.pending)
			n += c
			s.pending = s.pending[c:]
			continue
		}
		if s.done {
			break
		}
		chunk, err, ok := s.pull()
		if !ok {
			s.done = true
			s.stop()
			break
		}
		if err != nil {
			s.done = true
			s.stop()
			s.err = errors.NewError("body.next", errors.ErrSourceRead).WithMessage(err.Error())
			break
		}
		s.pending = chunk
	}

	if n > 0 {
		return s.scratch[:n], nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, io.EOF
}

func (s *seqSource) length() (int64, bool) { return 0, false }

func (s *seqSource) acquire() error {
	if s.consumed {
		return errors.NewError("body.acquire", errors.ErrBodyConsumed)
	}
	s.consumed = true
	return nil
}

func (s *seqSource) release() error {
	s.done = true
	s.stop()
	return nil
}

package body

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"strings"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clienterrors "github.com/streamforge/awsclient/errors"
)

func chunkSeq(chunks ...string) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for _, c := range chunks {
			if !yield([]byte(c), nil) {
				return
			}
		}
	}
}

// drain pulls the source to exhaustion with a fixed max, returning every
// chunk as a string.
func drain(t *testing.T, src Source, max int) []string {
	t.Helper()

	var out []string
	for {
		chunk, err := src.next(max)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, string(chunk))
	}
}

func TestBufferSource(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		max     int
		want    []string
	}{
		{
			name:    "single pull",
			payload: "hello",
			max:     16,
			want:    []string{"hello"},
		},
		{
			name:    "split across pulls",
			payload: "hello world",
			max:     4,
			want:    []string{"hell", "o wo", "rld"},
		},
		{
			name:    "empty payload",
			payload: "",
			max:     4,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := FromString(tt.payload)
			require.NoError(t, src.acquire())
			assert.Equal(t, tt.want, drain(t, src, tt.max))
		})
	}
}

func TestBufferSourceLength(t *testing.T) {
	n, ok := FromBytes([]byte("0123456789")).length()
	assert.True(t, ok)
	assert.Equal(t, int64(10), n)
}

func TestBufferSourceEOFIdempotent(t *testing.T) {
	src := FromString("ab")
	require.NoError(t, src.acquire())

	_, err := src.next(4)
	require.NoError(t, err)

	for range 3 {
		_, err = src.next(4)
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestReaderSourceLength(t *testing.T) {
	t.Run("bytes.Reader reports Len", func(t *testing.T) {
		src := FromReader(bytes.NewReader(make([]byte, 42)))
		n, ok := src.length()
		assert.True(t, ok)
		assert.Equal(t, int64(42), n)
	})

	t.Run("seeker probed without disturbing position", func(t *testing.T) {
		rd := io.NewSectionReader(strings.NewReader("0123456789"), 2, 6)
		src := FromReader(rd)

		n, ok := src.length()
		require.True(t, ok)
		assert.Equal(t, int64(6), n)

		require.NoError(t, src.acquire())
		chunk, err := src.next(16)
		require.NoError(t, err)
		assert.Equal(t, "234567", string(chunk))
	})

	t.Run("plain reader is unknown", func(t *testing.T) {
		_, ok := FromReader(onlyReader{strings.NewReader("abc")}).length()
		assert.False(t, ok)
	})
}

// onlyReader hides every capability except Read.
type onlyReader struct {
	r io.Reader
}

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }

func TestReaderSourceReadFailure(t *testing.T) {
	src := FromReader(onlyReader{iotestErrReader{}})
	require.NoError(t, src.acquire())

	_, err := src.next(8)
	assert.ErrorIs(t, err, clienterrors.ErrSourceRead)
}

type iotestErrReader struct{}

func (iotestErrReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestProducerSource(t *testing.T) {
	t.Run("empty return ends the stream", func(t *testing.T) {
		calls := 0
		src := FromProducer(func(max int) ([]byte, error) {
			calls++
			if calls > 2 {
				return nil, nil
			}
			return []byte("xy"), nil
		})
		require.NoError(t, src.acquire())

		assert.Equal(t, []string{"xy", "xy"}, drain(t, src, 8))
		assert.Equal(t, 3, calls)

		// The callable is never invoked again after end-of-stream.
		_, err := src.next(8)
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, 3, calls)
	})

	t.Run("io.EOF alongside bytes delivers the bytes first", func(t *testing.T) {
		served := false
		src := FromProducer(func(max int) ([]byte, error) {
			if served {
				t.Fatal("producer invoked after io.EOF")
			}
			served = true
			return []byte("tail"), io.EOF
		})
		require.NoError(t, src.acquire())

		assert.Equal(t, []string{"tail"}, drain(t, src, 8))
	})

	t.Run("oversized return is split with remainder carried", func(t *testing.T) {
		src := FromProducer(func(max int) ([]byte, error) {
			return []byte("abcdef"), io.EOF
		})
		require.NoError(t, src.acquire())

		assert.Equal(t, []string{"abcd", "ef"}, drain(t, src, 4))
	})

	t.Run("producer error wraps the cause", func(t *testing.T) {
		src := FromProducer(func(max int) ([]byte, error) {
			return nil, errors.New("upstream gone")
		})
		require.NoError(t, src.acquire())

		_, err := src.next(8)
		assert.ErrorIs(t, err, clienterrors.ErrSourceRead)
		assert.Contains(t, err.Error(), "upstream gone")
	})
}

func TestSeqSource(t *testing.T) {
	t.Run("splits and coalesces across chunk boundaries", func(t *testing.T) {
		src := FromSeq(chunkSeq("ab", "cde", "f"))
		require.NoError(t, src.acquire())

		assert.Equal(t, []string{"ab", "cd", "ef"}, drain(t, src, 2))
	})

	t.Run("empty chunks are skipped", func(t *testing.T) {
		src := FromSeq(chunkSeq("", "ab", "", "c"))
		require.NoError(t, src.acquire())

		assert.Equal(t, []string{"abc"}, drain(t, src, 8))
	})

	t.Run("error from the sequence is surfaced", func(t *testing.T) {
		seq := func(yield func([]byte, error) bool) {
			if !yield([]byte("ok"), nil) {
				return
			}
			yield(nil, errors.New("stream torn"))
		}
		src := FromSeq(seq)
		require.NoError(t, src.acquire())

		chunk, err := src.next(2)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(chunk))

		_, err = src.next(2)
		assert.ErrorIs(t, err, clienterrors.ErrSourceRead)
	})

	t.Run("length is never intrinsic", func(t *testing.T) {
		_, ok := FromSeq(chunkSeq("ab")).length()
		assert.False(t, ok)
	})
}

func TestFromChunksHasKnownLength(t *testing.T) {
	src := FromChunks([]byte("ab"), []byte("cde"), []byte("f"))

	n, ok := src.length()
	require.True(t, ok)
	assert.Equal(t, int64(6), n)

	require.NoError(t, src.acquire())
	assert.Equal(t, []string{"ab", "cd", "ef"}, drain(t, src, 2))
}

func TestFromFile(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("data.bin", []byte("file payload"), 0o644))

	src, err := FromFile(fsys, "data.bin")
	require.NoError(t, err)

	n, ok := src.length()
	require.True(t, ok)
	assert.Equal(t, int64(12), n)

	require.NoError(t, src.acquire())
	assert.Equal(t, []string{"file payload"}, drain(t, src, 64))
	require.NoError(t, src.release())

	// release is idempotent even though the handle is gone
	require.NoError(t, src.release())
}

func TestFromFileMissing(t *testing.T) {
	fsys := billy.NewInMemoryFS()

	_, err := FromFile(fsys, "nope.bin")
	require.Error(t, err)
}

func TestSourceOwnershipTransfer(t *testing.T) {
	t.Run("producer cannot be claimed twice", func(t *testing.T) {
		src := FromProducer(func(int) ([]byte, error) { return nil, nil })
		require.NoError(t, src.acquire())
		assert.ErrorIs(t, src.acquire(), clienterrors.ErrBodyConsumed)
	})

	t.Run("sequence cannot be claimed twice", func(t *testing.T) {
		src := FromSeq(chunkSeq("ab"))
		require.NoError(t, src.acquire())
		assert.ErrorIs(t, src.acquire(), clienterrors.ErrBodyConsumed)
	})

	t.Run("buffer resets on re-claim", func(t *testing.T) {
		src := FromString("abc")
		require.NoError(t, src.acquire())
		assert.Equal(t, []string{"abc"}, drain(t, src, 8))

		require.NoError(t, src.acquire())
		assert.Equal(t, []string{"abc"}, drain(t, src, 8))
	})

	t.Run("seekable reader re-seeks on re-claim", func(t *testing.T) {
		src := FromReader(strings.NewReader("abc"))
		require.NoError(t, src.acquire())
		assert.Equal(t, []string{"abc"}, drain(t, src, 8))

		require.NoError(t, src.acquire())
		assert.Equal(t, []string{"abc"}, drain(t, src, 8))
	})

	t.Run("plain reader cannot be claimed twice", func(t *testing.T) {
		src := FromReader(onlyReader{strings.NewReader("abc")})
		require.NoError(t, src.acquire())
		assert.ErrorIs(t, src.acquire(), clienterrors.ErrBodyConsumed)
	})
}

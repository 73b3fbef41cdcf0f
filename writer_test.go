package archive

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/archive/errs"
)

type failingWriter struct {
	limit int
	err   error
	buf   bytes.Buffer
}

func (f *failingWriter) Write(p []byte) (int, error) {
	room := f.limit - f.buf.Len()
	if room >= len(p) {
		return f.buf.Write(p)
	}
	if room > 0 {
		f.buf.Write(p[:room])
		return room, f.err
	}

	return 0, f.err
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	return len(p) / 2, nil
}

func TestAlign(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		align   int
		wantPos int
	}{
		{"already aligned", 8, 8, 8},
		{"one byte", 3, 1, 3},
		{"pad to 4", 5, 4, 8},
		{"pad to 8", 17, 8, 24},
		{"pad to 16", 1, 16, 16},
		{"empty", 0, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewBufferWriter()
			require.NoError(t, err)
			defer w.Release()

			require.NoError(t, w.Write(bytes.Repeat([]byte{0xaa}, tt.start)))

			pos, err := Align(w, tt.align)
			require.NoError(t, err)
			require.Equal(t, tt.wantPos, pos)
			require.Equal(t, tt.wantPos, w.Pos())
			require.Equal(t, make([]byte, tt.wantPos-tt.start), w.Bytes()[tt.start:])
		})
	}
}

func TestAlign_Invalid(t *testing.T) {
	w, err := NewBufferWriter()
	require.NoError(t, err)
	defer w.Release()

	for _, align := range []int{0, -8, 3, 12} {
		_, err := Align(w, align)
		require.ErrorIs(t, err, errs.ErrInvalidAlignment)
	}
}

func TestPad(t *testing.T) {
	w, err := NewBufferWriter()
	require.NoError(t, err)
	defer w.Release()

	require.NoError(t, Pad(w, 150))
	require.Equal(t, 150, w.Pos())
	require.Equal(t, make([]byte, 150), w.Bytes())
}

func TestWriteValue(t *testing.T) {
	type pair struct {
		A uint32
		B uint16
	}

	w, err := NewBufferWriter()
	require.NoError(t, err)
	defer w.Release()

	v := pair{A: 0x01020304, B: 0x0506}
	require.NoError(t, WriteValue(w, &v))
	require.Equal(t, int(unsafe.Sizeof(v)), w.Pos())
	require.Equal(t, ByteImage(&v), w.Bytes())

	empty := struct{}{}
	require.NoError(t, WriteValue(w, &empty))
	require.Equal(t, int(unsafe.Sizeof(v)), w.Pos())
}

func TestBufferWriter_MaxSize(t *testing.T) {
	w, err := NewBufferWriter(WithMaxSize(8))
	require.NoError(t, err)
	defer w.Release()

	require.NoError(t, w.Write([]byte("12345")))

	err = w.Write([]byte("6789"))
	require.ErrorIs(t, err, errs.ErrBufferFull)
	require.Equal(t, 5, w.Pos(), "rejected write must not change the buffer")

	require.NoError(t, w.Write([]byte("678")))
	require.Equal(t, []byte("12345678"), w.Bytes())
}

func TestBufferWriter_Options(t *testing.T) {
	_, err := NewBufferWriter(WithMaxSize(-1))
	require.Error(t, err)

	w, err := NewBufferWriter(WithInitialCapacity(32))
	require.NoError(t, err)
	require.False(t, w.pooled)
	require.NoError(t, w.Write(make([]byte, 100)))
	require.Equal(t, 100, w.Len())
	w.Release()
}

func TestBufferWriter_Truncate(t *testing.T) {
	w, err := NewBufferWriter()
	require.NoError(t, err)
	defer w.Release()

	require.NoError(t, w.Write([]byte("header")))
	mark := w.Pos()
	require.NoError(t, w.Write([]byte("partial")))

	require.NoError(t, w.Truncate(mark))
	require.Equal(t, []byte("header"), w.Bytes())

	require.ErrorIs(t, w.Truncate(-1), errs.ErrInvalidPosition)
	require.ErrorIs(t, w.Truncate(100), errs.ErrInvalidPosition)

	w.Reset()
	require.Equal(t, 0, w.Pos())
}

func TestStreamWriter(t *testing.T) {
	t.Run("counts bytes", func(t *testing.T) {
		var out bytes.Buffer
		s := NewStreamWriter(&out)

		require.NoError(t, s.Write([]byte("abc")))
		require.NoError(t, s.Write([]byte("de")))
		require.Equal(t, 5, s.Pos())
		require.Equal(t, "abcde", out.String())
	})

	t.Run("propagates the sink error unchanged", func(t *testing.T) {
		sinkErr := errors.New("disk full")
		s := NewStreamWriter(&failingWriter{limit: 4, err: sinkErr})

		require.NoError(t, s.Write([]byte("ab")))
		err := s.Write([]byte("cdef"))
		require.Same(t, sinkErr, err)
		require.Equal(t, 4, s.Pos())
	})

	t.Run("short write", func(t *testing.T) {
		s := NewStreamWriter(shortWriter{})
		require.ErrorIs(t, s.Write([]byte("abcd")), io.ErrShortWrite)
		require.Equal(t, 2, s.Pos())
	})
}

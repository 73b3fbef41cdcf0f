package archive

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/arloliu/archive/errs"
	"github.com/arloliu/archive/internal/options"
	"github.com/arloliu/archive/internal/pool"
)

// Writer is the append-only byte sink archives are written into.
//
// Pos reports the number of bytes written so far, which is the absolute
// position of the next byte. Write appends p or fails with a sink-defined
// error; the archive protocol returns that error unchanged.
//
// A Writer is owned by a single encode at a time and needs no locking.
type Writer interface {
	Pos() int
	Write(p []byte) error
}

var zeroPad [64]byte

// Pad writes n zero bytes to w.
func Pad(w Writer, n int) error {
	for n > 0 {
		chunk := min(n, len(zeroPad))
		if err := w.Write(zeroPad[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}

	return nil
}

// Align pads w with zeros up to the next multiple of align and returns the
// aligned position. align must be a positive power of two.
func Align(w Writer, align int) (int, error) {
	if align <= 0 || align&(align-1) != 0 {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidAlignment, align)
	}

	pos := w.Pos()
	padding := (align - pos%align) % align
	if err := Pad(w, padding); err != nil {
		return 0, err
	}

	return pos + padding, nil
}

// ByteImage returns the raw in-memory bytes of *v without copying.
// The slice aliases v and is only valid while v is.
func ByteImage[A any](v *A) []byte {
	size := int(unsafe.Sizeof(*v))
	if size == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(v)), size)
}

// WriteValue writes the raw byte image of *v to w.
func WriteValue[A any](w Writer, v *A) error {
	b := ByteImage(v)
	if len(b) == 0 {
		return nil
	}

	return w.Write(b)
}

// WriterOption configures a BufferWriter.
type WriterOption = options.Option[*BufferWriter]

// WithMaxSize limits the number of bytes a BufferWriter accepts. Writes that
// would exceed it fail with errs.ErrBufferFull. Zero means unlimited.
func WithMaxSize(n int) WriterOption {
	return options.New(func(w *BufferWriter) error {
		if n < 0 {
			return fmt.Errorf("%w: max size %d", errs.ErrInvalidPosition, n)
		}
		w.maxSize = n

		return nil
	})
}

// WithInitialCapacity makes the BufferWriter allocate its own buffer of the
// given capacity instead of borrowing one from the shared pool.
func WithInitialCapacity(n int) WriterOption {
	return options.NoError(func(w *BufferWriter) {
		w.capacity = n
	})
}

// BufferWriter is an in-memory Writer over a growable, word-aligned buffer.
//
// The start of the buffer is 8-byte aligned, so archived values written at
// positions aligned for their type can be accessed in place.
type BufferWriter struct {
	buf      *pool.ByteBuffer
	maxSize  int
	capacity int
	pooled   bool
}

var _ Writer = (*BufferWriter)(nil)

// NewBufferWriter creates a BufferWriter. Unless WithInitialCapacity is
// given, the buffer is borrowed from a shared pool and should be handed
// back with Release once the bytes are no longer needed.
func NewBufferWriter(opts ...WriterOption) (*BufferWriter, error) {
	w := &BufferWriter{}
	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}

	if w.capacity > 0 {
		w.buf = pool.NewByteBuffer(w.capacity)
	} else {
		w.buf = pool.GetArchiveBuffer()
		w.pooled = true
	}

	return w, nil
}

// Pos returns the position of the next byte.
func (w *BufferWriter) Pos() int {
	return w.buf.Len()
}

// Write appends p, failing with errs.ErrBufferFull when a max size is set
// and p does not fit. A rejected write leaves the buffer unchanged.
func (w *BufferWriter) Write(p []byte) error {
	if w.maxSize > 0 && w.buf.Len()+len(p) > w.maxSize {
		return fmt.Errorf("%w: writing %d bytes at position %d exceeds %d",
			errs.ErrBufferFull, len(p), w.buf.Len(), w.maxSize)
	}

	_, _ = w.buf.Write(p)

	return nil
}

// Bytes returns the written bytes. The slice is invalidated by further
// writes, Reset and Release.
func (w *BufferWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *BufferWriter) Len() int {
	return w.buf.Len()
}

// Truncate discards everything written after pos, typically to roll back
// a failed encode to the position recorded before it.
func (w *BufferWriter) Truncate(pos int) error {
	if pos < 0 || pos > w.buf.Len() {
		return fmt.Errorf("%w: truncate to %d, length %d", errs.ErrInvalidPosition, pos, w.buf.Len())
	}
	w.buf.SetLength(pos)

	return nil
}

// Reset empties the writer, keeping its buffer.
func (w *BufferWriter) Reset() {
	w.buf.Reset()
}

// Release returns a pooled buffer to the pool. The writer must not be used
// afterwards.
func (w *BufferWriter) Release() {
	if w.pooled {
		pool.PutArchiveBuffer(w.buf)
	}
	w.buf = nil
}

// StreamWriter is a Writer over an io.Writer. Positions count the bytes
// accepted by the underlying writer, starting at zero.
type StreamWriter struct {
	w   io.Writer
	pos int
}

var _ Writer = (*StreamWriter)(nil)

// NewStreamWriter wraps w.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

// Pos returns the number of bytes written to the underlying writer.
func (s *StreamWriter) Pos() int {
	return s.pos
}

// Write forwards p to the underlying writer and returns its error as is.
// A short write without an error is reported as io.ErrShortWrite.
func (s *StreamWriter) Write(p []byte) error {
	n, err := s.w.Write(p)
	s.pos += n
	if err != nil {
		return err
	}

	if n < len(p) {
		return io.ErrShortWrite
	}

	return nil
}

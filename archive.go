// Package archive is a zero-copy binary serialization engine.
//
// Values are converted into a byte layout that is read back without a
// deserialization pass: a byte buffer interpreted through the archived type
// is the value. Every structural reference inside an archive is a relative
// byte offset, so the same buffer is valid wherever it is mapped.
//
// # Two-phase encoding
//
// Encoding a value is split into two phases:
//
//   - Serialize writes everything the value owns out of line (string bytes,
//     vector elements, nested data) into a Writer, depth first and in field
//     declaration order, and returns a resolver recording where that data
//     landed.
//   - Resolve receives the final position the archived value will occupy and
//     builds the archived value from the resolver. Each field is resolved at
//     the parent position plus the field offset, so relative pointers are
//     exact without ever revisiting written bytes.
//
// A type takes part by implementing Archive. Record and variant types get
// their resolver type, archived type and both methods from the archivegen
// generator (see the mirror package):
//
//	//go:generate go run github.com/arloliu/archive/cmd/archivegen
//
//	//archive:generate
//	type Player struct {
//	    Name  string
//	    Score uint32
//	}
//
// # Basic Usage
//
//	data, pos, err := archive.Encode[PlayerResolver, ArchivedPlayer](player)
//	if err != nil {
//	    return err
//	}
//
//	p, err := archive.Access[ArchivedPlayer](data, pos)
//	fmt.Println(p.Name.String(), p.Score)
//
// # Error Model
//
// Serialize fails only with the Writer's own error, returned unchanged. A
// failed encode leaves the writer with undefined content; discard it or
// truncate it back to the position recorded before the call.
//
// Invariant violations, such as resolving a variant resolver against a
// value holding a different variant, are programming errors and panic.
//
// Serializing the same value twice into one writer and resolving either
// resolver more than once is not supported.
package archive

import (
	"fmt"
	"unsafe"

	"github.com/arloliu/archive/errs"
	"github.com/arloliu/archive/internal/pool"
)

// Archive is the capability binding a value type to its resolver type R and
// its archived type A.
//
// Serialize is phase one: it writes the value's out-of-line data into w and
// returns the resolver. Resolve is phase two: it is called on the original
// value with the absolute position the archived value will occupy and the
// resolver returned by Serialize, and performs no I/O.
type Archive[R, A any] interface {
	Serialize(w Writer) (R, error)
	Resolve(pos int, r R) A
}

// CopyResolver is the empty resolver of copy-safe types, whose bytes are
// already their archived form.
type CopyResolver struct{}

// Tag128 is the discriminant representation used when a variant count does
// not fit in 64 bits.
type Tag128 [2]uint64

// Number is the set of fixed-width numeric types.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Scalar is the set of fixed-width builtin types that are copy-safe.
type Scalar interface {
	Number | ~bool
}

// Serialize archives v into w: it runs phase one, aligns the writer for the
// archived type, resolves v at that position and writes the archived bytes.
// It returns the position of the archived root.
func Serialize[R, A any](w Writer, v Archive[R, A]) (int, error) {
	r, err := v.Serialize(w)
	if err != nil {
		return 0, err
	}

	var zero A
	pos, err := Align(w, int(unsafe.Alignof(zero)))
	if err != nil {
		return 0, err
	}

	archived := v.Resolve(pos, r)
	if err := WriteValue(w, &archived); err != nil {
		return 0, err
	}

	return pos, nil
}

// Encode archives v into a new word-aligned byte slice and returns the slice
// and the position of the archived root.
//
// Options configure the intermediate BufferWriter, e.g. WithMaxSize.
func Encode[R, A any](v Archive[R, A], opts ...WriterOption) ([]byte, int, error) {
	w, err := NewBufferWriter(opts...)
	if err != nil {
		return nil, 0, err
	}
	defer w.Release()

	pos, err := Serialize[R, A](w, v)
	if err != nil {
		return nil, 0, err
	}

	out := pool.AlignedBytes(w.Len())
	copy(out, w.Bytes())

	return out, pos, nil
}

// Access returns a zero-copy view of the archived value of type A stored at
// pos in buf.
//
// Access checks bounds and memory alignment only; it does not validate the
// archived bytes, so buf must come from a trusted encoder.
func Access[A any](buf []byte, pos int) (*A, error) {
	var zero A
	size := int(unsafe.Sizeof(zero))

	if pos < 0 || pos > len(buf) || len(buf)-pos < size {
		return nil, fmt.Errorf("%w: position %d, size %d, buffer length %d",
			errs.ErrOutOfBounds, pos, size, len(buf))
	}

	if size == 0 {
		return new(A), nil
	}

	p := unsafe.Pointer(&buf[pos])
	if align := unsafe.Alignof(zero); uintptr(p)%align != 0 {
		return nil, fmt.Errorf("%w: position %d requires %d-byte alignment", errs.ErrUnaligned, pos, align)
	}

	return (*A)(p), nil
}

// MustAccess is like Access but panics on error.
func MustAccess[A any](buf []byte, pos int) *A {
	a, err := Access[A](buf, pos)
	if err != nil {
		panic(err)
	}

	return a
}

// AlignedCopy copies b into a new slice whose backing array is 8-byte
// aligned, for buffers read from sources that give no alignment guarantee.
func AlignedCopy(b []byte) []byte {
	out := pool.AlignedBytes(len(b))
	copy(out, b)

	return out
}

// VariantMismatchError is the panic value raised when a variant resolver is
// applied to a value holding a different variant.
type VariantMismatchError struct {
	Type     string // variant type name, e.g. "Shape"
	Value    string // variant held by the value
	Resolver string // variant the resolver was built from
}

func (e *VariantMismatchError) Error() string {
	return fmt.Sprintf("archive: %s resolver variant %s does not match value variant %s",
		e.Type, e.Resolver, e.Value)
}

// VariantMismatch panics with a *VariantMismatchError. Generated Resolve
// methods call it when the resolver and the value disagree on the variant.
func VariantMismatch(typeName, value string, resolver any) {
	panic(&VariantMismatchError{
		Type:     typeName,
		Value:    value,
		Resolver: fmt.Sprintf("%T", resolver),
	})
}

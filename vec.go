package archive

import (
	"fmt"
	"iter"
	"unsafe"
)

// VecResolver records where the elements of a vector were written.
type VecResolver struct {
	Pos int
	Len int
}

// ArchivedVec is the archived form of a slice: a relative pointer to a
// contiguous run of archived elements and their count.
type ArchivedVec[A any] struct {
	ptr RelPtr
	len uint32
}

func resolveVec[A any](pos int, r VecResolver) ArchivedVec[A] {
	var a ArchivedVec[A]
	a.ptr = NewRelPtr(pos+int(unsafe.Offsetof(a.ptr)), r.Pos)
	a.len = checkedLen(r.Len)

	return a
}

// Len returns the number of elements.
func (v *ArchivedVec[A]) Len() int {
	return int(v.len)
}

// Offset returns the relative offset from v to the first element.
func (v *ArchivedVec[A]) Offset() int32 {
	return v.ptr.Offset()
}

// Index returns the i-th element. It panics if i is out of range.
func (v *ArchivedVec[A]) Index(i int) *A {
	if i < 0 || i >= int(v.len) {
		panic(fmt.Sprintf("archive: index %d out of range [0:%d]", i, v.len))
	}

	return &v.Slice()[i]
}

// Slice returns the elements as a slice aliasing the archive buffer.
func (v *ArchivedVec[A]) Slice() []A {
	if v.len == 0 {
		return nil
	}

	return unsafe.Slice((*A)(v.ptr.Ptr()), int(v.len))
}

// All returns an iterator over the elements and their indexes.
func (v *ArchivedVec[A]) All() iter.Seq2[int, *A] {
	return func(yield func(int, *A) bool) {
		s := v.Slice()
		for i := range s {
			if !yield(i, &s[i]) {
				return
			}
		}
	}
}

// Vec is the archivable form of a slice of archivable elements.
//
// Serialize first serializes every element in order, then writes the
// resolved elements contiguously, so all owned data of the elements
// precedes the element array.
type Vec[T Archive[R, A], R, A any] []T

// Serialize writes the elements' out-of-line data followed by the archived elements.
func (v Vec[T, R, A]) Serialize(w Writer) (VecResolver, error) {
	if len(v) == 0 {
		return VecResolver{Pos: w.Pos()}, nil
	}

	resolvers := make([]R, len(v))
	for i := range v {
		r, err := v[i].Serialize(w)
		if err != nil {
			return VecResolver{}, err
		}
		resolvers[i] = r
	}

	var zero A
	pos, err := Align(w, int(unsafe.Alignof(zero)))
	if err != nil {
		return VecResolver{}, err
	}

	size := int(unsafe.Sizeof(zero))
	for i := range v {
		a := v[i].Resolve(pos+i*size, resolvers[i])
		if err := WriteValue(w, &a); err != nil {
			return VecResolver{}, err
		}
	}

	return VecResolver{Pos: pos, Len: len(v)}, nil
}

// Resolve points the archived vector at the elements recorded in r.
func (v Vec[T, R, A]) Resolve(pos int, r VecResolver) ArchivedVec[A] {
	return resolveVec[A](pos, r)
}

// Scalars is the archivable form of a slice of copy-safe scalars, whose
// elements are written verbatim.
type Scalars[T Scalar] []T

// Serialize writes the aligned element bytes.
func (s Scalars[T]) Serialize(w Writer) (VecResolver, error) {
	if len(s) == 0 {
		return VecResolver{Pos: w.Pos()}, nil
	}

	var zero T
	pos, err := Align(w, int(unsafe.Alignof(zero)))
	if err != nil {
		return VecResolver{}, err
	}

	b := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
	if err := w.Write(b); err != nil {
		return VecResolver{}, err
	}

	return VecResolver{Pos: pos, Len: len(s)}, nil
}

// Resolve points the archived vector at the elements recorded in r.
func (s Scalars[T]) Resolve(pos int, r VecResolver) ArchivedVec[T] {
	return resolveVec[T](pos, r)
}

package archive

import (
	"fmt"
	"unsafe"
)

// Hand-written Archive implementations for range types.
//
// Range and RangeInclusive take archivable bounds and go through both
// phases field by field, like generated record glue. ScalarRange and
// ScalarRangeInclusive are their copy-safe specialisations for numeric
// bounds: they archive as themselves and carry the ordering queries.

// Range is a half-open interval [Start, End) over archivable bounds.
type Range[T Archive[R, A], R, A any] struct {
	Start T
	End   T
}

// RangeResolver is the resolver of Range.
type RangeResolver[T Archive[R, A], R, A any] struct {
	Start R
	End   R
}

// ArchivedRange is the archived form of Range.
type ArchivedRange[T Archive[R, A], R, A any] struct {
	// Start is the inclusive lower bound.
	Start A
	// End is the exclusive upper bound.
	End A
}

var _ Archive[RangeResolver[String, StringResolver, ArchivedString],
	ArchivedRange[String, StringResolver, ArchivedString]] = Range[String, StringResolver, ArchivedString]{}

// Serialize writes the out-of-line data of Start, then End.
func (v Range[T, R, A]) Serialize(w Writer) (RangeResolver[T, R, A], error) {
	var r RangeResolver[T, R, A]
	var err error
	if r.Start, err = v.Start.Serialize(w); err != nil {
		return r, err
	}
	if r.End, err = v.End.Serialize(w); err != nil {
		return r, err
	}

	return r, nil
}

// Resolve resolves each bound at its own offset from pos.
func (v Range[T, R, A]) Resolve(pos int, r RangeResolver[T, R, A]) ArchivedRange[T, R, A] {
	var a ArchivedRange[T, R, A]
	a.Start = v.Start.Resolve(pos+int(unsafe.Offsetof(a.Start)), r.Start)
	a.End = v.End.Resolve(pos+int(unsafe.Offsetof(a.End)), r.End)

	return a
}

func (a *ArchivedRange[T, R, A]) String() string {
	return formatBound(&a.Start) + ".." + formatBound(&a.End)
}

// RangeInclusive is a closed interval [Start, End] over archivable bounds.
type RangeInclusive[T Archive[R, A], R, A any] struct {
	Start T
	End   T
}

// RangeInclusiveResolver is the resolver of RangeInclusive.
type RangeInclusiveResolver[T Archive[R, A], R, A any] struct {
	Start R
	End   R
}

// ArchivedRangeInclusive is the archived form of RangeInclusive.
type ArchivedRangeInclusive[T Archive[R, A], R, A any] struct {
	// Start is the inclusive lower bound.
	Start A
	// End is the inclusive upper bound.
	End A
}

var _ Archive[RangeInclusiveResolver[String, StringResolver, ArchivedString],
	ArchivedRangeInclusive[String, StringResolver, ArchivedString]] = RangeInclusive[String, StringResolver, ArchivedString]{}

// Serialize writes the out-of-line data of Start, then End.
func (v RangeInclusive[T, R, A]) Serialize(w Writer) (RangeInclusiveResolver[T, R, A], error) {
	var r RangeInclusiveResolver[T, R, A]
	var err error
	if r.Start, err = v.Start.Serialize(w); err != nil {
		return r, err
	}
	if r.End, err = v.End.Serialize(w); err != nil {
		return r, err
	}

	return r, nil
}

// Resolve resolves each bound at its own offset from pos.
func (v RangeInclusive[T, R, A]) Resolve(pos int, r RangeInclusiveResolver[T, R, A]) ArchivedRangeInclusive[T, R, A] {
	var a ArchivedRangeInclusive[T, R, A]
	a.Start = v.Start.Resolve(pos+int(unsafe.Offsetof(a.Start)), r.Start)
	a.End = v.End.Resolve(pos+int(unsafe.Offsetof(a.End)), r.End)

	return a
}

func (a *ArchivedRangeInclusive[T, R, A]) String() string {
	return formatBound(&a.Start) + "..=" + formatBound(&a.End)
}

// formatBound prints an archived bound, preferring its String method.
func formatBound[A any](b *A) string {
	if s, ok := any(b).(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprint(*b)
}

// ScalarRange is a half-open interval [Start, End) over numeric bounds.
// It is copy-safe and archives as itself.
type ScalarRange[T Number] struct {
	Start T
	End   T
}

type (
	// ScalarRangeResolver is the resolver of ScalarRange.
	ScalarRangeResolver[T Number] = CopyResolver
	// ArchivedScalarRange is the archived form of ScalarRange.
	ArchivedScalarRange[T Number] = ScalarRange[T]
)

var _ Archive[ScalarRangeResolver[int32], ArchivedScalarRange[int32]] = ScalarRange[int32]{}

// Serialize writes nothing: both bounds are stored inline.
func (v ScalarRange[T]) Serialize(_ Writer) (CopyResolver, error) {
	return CopyResolver{}, nil
}

// Resolve returns v.
func (v ScalarRange[T]) Resolve(_ int, _ CopyResolver) ScalarRange[T] {
	return v
}

// Contains reports whether Start <= item < End.
func (v ScalarRange[T]) Contains(item T) bool {
	return v.Start <= item && item < v.End
}

// IsEmpty reports whether the range contains no items. Unordered bounds
// (NaN) make the range empty.
func (v ScalarRange[T]) IsEmpty() bool {
	return !(v.Start < v.End)
}

func (v ScalarRange[T]) String() string {
	return fmt.Sprintf("%v..%v", v.Start, v.End)
}

// ScalarRangeInclusive is a closed interval [Start, End] over numeric
// bounds. It is copy-safe and archives as itself.
type ScalarRangeInclusive[T Number] struct {
	Start T
	End   T
}

type (
	// ScalarRangeInclusiveResolver is the resolver of ScalarRangeInclusive.
	ScalarRangeInclusiveResolver[T Number] = CopyResolver
	// ArchivedScalarRangeInclusive is the archived form of ScalarRangeInclusive.
	ArchivedScalarRangeInclusive[T Number] = ScalarRangeInclusive[T]
)

var _ Archive[ScalarRangeInclusiveResolver[int32], ArchivedScalarRangeInclusive[int32]] = ScalarRangeInclusive[int32]{}

// Serialize writes nothing: both bounds are stored inline.
func (v ScalarRangeInclusive[T]) Serialize(_ Writer) (CopyResolver, error) {
	return CopyResolver{}, nil
}

// Resolve returns v.
func (v ScalarRangeInclusive[T]) Resolve(_ int, _ CopyResolver) ScalarRangeInclusive[T] {
	return v
}

// Contains reports whether Start <= item <= End.
func (v ScalarRangeInclusive[T]) Contains(item T) bool {
	return v.Start <= item && item <= v.End
}

// IsEmpty reports whether the range contains no items.
func (v ScalarRangeInclusive[T]) IsEmpty() bool {
	return !(v.Start <= v.End)
}

func (v ScalarRangeInclusive[T]) String() string {
	return fmt.Sprintf("%v..=%v", v.Start, v.End)
}

// RangeFull is the unbounded range. It is copy-safe and archives as itself.
type RangeFull struct{}

type (
	RangeFullResolver = CopyResolver
	ArchivedRangeFull = RangeFull
)

// Serialize writes nothing.
func (RangeFull) Serialize(_ Writer) (CopyResolver, error) {
	return CopyResolver{}, nil
}

// Resolve returns the range itself.
func (f RangeFull) Resolve(_ int, _ CopyResolver) RangeFull {
	return f
}

func (RangeFull) String() string {
	return ".."
}

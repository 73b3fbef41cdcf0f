package archive

import (
	"fmt"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type (
	stringRange         = Range[String, StringResolver, ArchivedString]
	stringRangeResolver = RangeResolver[String, StringResolver, ArchivedString]
	archivedStringRange = ArchivedRange[String, StringResolver, ArchivedString]
)

func encodeScalarRange[T Number](t *testing.T, r ScalarRange[T]) *ArchivedScalarRange[T] {
	t.Helper()

	data, pos, err := Encode[ScalarRangeResolver[T], ArchivedScalarRange[T]](r)
	require.NoError(t, err)

	return MustAccess[ArchivedScalarRange[T]](data, pos)
}

func encodeScalarRangeInclusive[T Number](t *testing.T, r ScalarRangeInclusive[T]) *ArchivedScalarRangeInclusive[T] {
	t.Helper()

	data, pos, err := Encode[ScalarRangeInclusiveResolver[T], ArchivedScalarRangeInclusive[T]](r)
	require.NoError(t, err)

	return MustAccess[ArchivedScalarRangeInclusive[T]](data, pos)
}

func TestScalarRange(t *testing.T) {
	a := encodeScalarRange(t, ScalarRange[int32]{Start: 3, End: 9})

	require.True(t, a.Contains(5))
	require.True(t, a.Contains(3))
	require.False(t, a.Contains(9))
	require.False(t, a.Contains(2))
	require.False(t, a.IsEmpty())
	require.Equal(t, ScalarRange[int32]{Start: 3, End: 9}, *a)
	require.Equal(t, "3..9", a.String())

	empty := encodeScalarRange(t, ScalarRange[int32]{Start: 5, End: 5})
	require.True(t, empty.IsEmpty())
	require.False(t, empty.Contains(5))

	reversed := encodeScalarRange(t, ScalarRange[uint8]{Start: 9, End: 3})
	require.True(t, reversed.IsEmpty())
}

func TestScalarRange_NaN(t *testing.T) {
	a := encodeScalarRange(t, ScalarRange[float64]{Start: math.NaN(), End: 1})
	require.True(t, a.IsEmpty())
	require.False(t, a.Contains(0.5))
}

func TestScalarRangeInclusive(t *testing.T) {
	a := encodeScalarRangeInclusive(t, ScalarRangeInclusive[int64]{Start: 5, End: 5})

	require.False(t, a.IsEmpty())
	require.True(t, a.Contains(5))
	require.False(t, a.Contains(6))
	require.Equal(t, ScalarRangeInclusive[int64]{Start: 5, End: 5}, *a)
	require.Equal(t, "5..=5", a.String())

	wide := encodeScalarRangeInclusive(t, ScalarRangeInclusive[float32]{Start: -1.5, End: 2.5})
	require.True(t, wide.Contains(2.5))
	require.True(t, wide.Contains(-1.5))
	require.False(t, wide.Contains(2.6))

	reversed := encodeScalarRangeInclusive(t, ScalarRangeInclusive[int16]{Start: 2, End: 1})
	require.True(t, reversed.IsEmpty())
}

func TestRange_ResolveOffsets(t *testing.T) {
	v := stringRange{Start: "alpha", End: "omega"}
	r := stringRangeResolver{
		Start: StringResolver{Pos: 10, Len: 5},
		End:   StringResolver{Pos: 20, Len: 5},
	}

	for _, pos := range []int{0, 17, 4096} {
		a := v.Resolve(pos, r)
		endPos := pos + int(unsafe.Offsetof(a.End))

		require.Equal(t, int32(10-pos), a.Start.Offset(), "pos %d", pos)
		require.Equal(t, int32(20-endPos), a.End.Offset(), "pos %d", pos)
		require.Equal(t, 5, a.Start.Len())
		require.Equal(t, 5, a.End.Len())
	}
}

func TestRange_OwnedBounds(t *testing.T) {
	v := stringRange{Start: "alpha", End: "omega"}

	for _, offset := range []int{0, 17, 4096} {
		t.Run(fmt.Sprintf("offset %d", offset), func(t *testing.T) {
			require := require.New(t)

			w, err := NewBufferWriter()
			require.NoError(err)
			defer w.Release()

			require.NoError(Pad(w, offset))
			pos, err := Serialize[stringRangeResolver, archivedStringRange](w, v)
			require.NoError(err)
			require.GreaterOrEqual(pos, offset+len("alpha")+len("omega"))

			data := AlignedCopy(w.Bytes())
			a := MustAccess[archivedStringRange](data, pos)
			require.Equal("alpha", a.Start.String())
			require.Equal("omega", a.End.String())
			require.Equal("alpha..omega", a.String())
		})
	}
}

func TestRangeInclusive_OwnedBounds(t *testing.T) {
	type (
		rangeResolver = RangeInclusiveResolver[String, StringResolver, ArchivedString]
		archivedRange = ArchivedRangeInclusive[String, StringResolver, ArchivedString]
	)

	v := RangeInclusive[String, StringResolver, ArchivedString]{Start: "a", End: "z"}

	data, pos, err := Encode[rangeResolver, archivedRange](v)
	require.NoError(t, err)

	a := MustAccess[archivedRange](data, pos)
	require.Equal(t, "a", a.Start.String())
	require.Equal(t, "z", a.End.String())
	require.Equal(t, "a..=z", a.String())
}

func TestRange_NestedScalarBounds(t *testing.T) {
	type (
		bound         = ScalarRange[uint16]
		rangeResolver = RangeResolver[bound, ScalarRangeResolver[uint16], ArchivedScalarRange[uint16]]
		archivedRange = ArchivedRange[bound, ScalarRangeResolver[uint16], ArchivedScalarRange[uint16]]
	)

	v := Range[bound, ScalarRangeResolver[uint16], ArchivedScalarRange[uint16]]{
		Start: bound{Start: 1, End: 2},
		End:   bound{Start: 8, End: 9},
	}

	data, pos, err := Encode[rangeResolver, archivedRange](v)
	require.NoError(t, err)

	a := MustAccess[archivedRange](data, pos)
	require.Equal(t, v.Start, a.Start)
	require.Equal(t, v.End, a.End)
	require.Equal(t, "1..2..8..9", a.String())
}

func TestRangeFull(t *testing.T) {
	data, pos, err := Encode[RangeFullResolver, ArchivedRangeFull](RangeFull{})
	require.NoError(t, err)
	require.Empty(t, data)
	require.Equal(t, 0, pos)

	a := MustAccess[ArchivedRangeFull](data, pos)
	require.Equal(t, "..", a.String())
}

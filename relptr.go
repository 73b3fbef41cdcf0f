package archive

import (
	"fmt"
	"math"
	"unsafe"
)

// RelPtr is a 32-bit signed byte offset from the RelPtr's own position to
// its target. It is the only kind of reference an archive contains.
type RelPtr struct {
	off int32
}

// NewRelPtr returns the relative pointer stored at position from that points
// at position to. It panics if the distance does not fit in 32 bits, which
// can only happen for archives larger than 2GiB.
func NewRelPtr(from, to int) RelPtr {
	d := to - from
	if d < math.MinInt32 || d > math.MaxInt32 {
		panic(fmt.Sprintf("archive: relative offset from %d to %d overflows int32", from, to))
	}

	return RelPtr{off: int32(d)}
}

// Offset returns the stored byte offset.
func (p *RelPtr) Offset() int32 {
	return p.off
}

// Ptr returns the address p points at. p must live inside an archive buffer.
func (p *RelPtr) Ptr() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(p), int(p.off))
}

func checkedLen(n int) uint32 {
	if n < 0 || n > math.MaxUint32 {
		panic(fmt.Sprintf("archive: length %d does not fit in 32 bits", n))
	}

	return uint32(n)
}

package mirror

import (
	"math"
	"math/big"
)

// DiscriminantWidth returns the byte width of the tag of a variant type with
// n variants: the smallest of 1, 2, 4 and 8 bytes whose unsigned range holds
// n values.
func DiscriminantWidth(n uint64) int {
	switch {
	case n <= math.MaxUint8:
		return 1
	case n <= math.MaxUint16:
		return 2
	case n <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}

// DiscriminantWidthBig is DiscriminantWidth for counts of any size. Counts
// beyond the 64-bit range get a 16-byte tag.
func DiscriminantWidthBig(n *big.Int) int {
	if n.Sign() < 0 {
		return 1
	}
	if n.IsUint64() {
		return DiscriminantWidth(n.Uint64())
	}

	return 16
}

// tagUnderlying returns the Go type used for a tag of the given width.
func tagUnderlying(width int) string {
	switch width {
	case 1:
		return "uint8"
	case 2:
		return "uint16"
	case 4:
		return "uint32"
	case 8:
		return "uint64"
	default:
		return "archive.Tag128"
	}
}

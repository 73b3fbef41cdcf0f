package mirror

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscriminantWidth(t *testing.T) {
	tests := []struct {
		variants uint64
		want     int
	}{
		{1, 1},
		{255, 1},
		{256, 2},
		{65_535, 2},
		{65_536, 4},
		{math.MaxUint32, 4},
		{math.MaxUint32 + 1, 8},
		{math.MaxUint64, 8},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, DiscriminantWidth(tt.variants), "variants=%d", tt.variants)
	}
}

func TestDiscriminantWidthBig(t *testing.T) {
	require.Equal(t, 1, DiscriminantWidthBig(big.NewInt(3)))
	require.Equal(t, 2, DiscriminantWidthBig(big.NewInt(256)))
	require.Equal(t, 8, DiscriminantWidthBig(new(big.Int).SetUint64(math.MaxUint64)))

	beyond := new(big.Int).Add(new(big.Int).SetUint64(math.MaxUint64), big.NewInt(1))
	require.Equal(t, 16, DiscriminantWidthBig(beyond))
}

func TestTagUnderlying(t *testing.T) {
	require.Equal(t, "uint8", tagUnderlying(1))
	require.Equal(t, "uint16", tagUnderlying(2))
	require.Equal(t, "uint32", tagUnderlying(4))
	require.Equal(t, "uint64", tagUnderlying(8))
	require.Equal(t, "archive.Tag128", tagUnderlying(16))
}

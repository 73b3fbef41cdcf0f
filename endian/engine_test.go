package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	var v uint16 = 0x0102
	first := (*[2]byte)(unsafe.Pointer(&v))[0]

	switch first {
	case 0x01:
		require.Equal(binary.BigEndian, CheckEndianness())
		require.True(IsNativeBigEndian())
		require.False(IsNativeLittleEndian())
	case 0x02:
		require.Equal(binary.LittleEndian, CheckEndianness())
		require.True(IsNativeLittleEndian())
		require.False(IsNativeBigEndian())
	default:
		require.Failf("unexpected byte value", "got: %v", first)
	}
}

func TestNativeEngine_MatchesMemory(t *testing.T) {
	v := uint32(0xdeadbeef)
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&v)), 4)

	require.Equal(t, v, NativeEngine().Uint32(raw))
}

func TestGetLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()

	buf := engine.AppendUint32(nil, 0x01020304)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf)
	require.Equal(t, uint32(0x01020304), engine.Uint32(buf))
}

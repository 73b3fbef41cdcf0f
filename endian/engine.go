// Package endian provides the byte order helpers used by the container
// format.
//
// Archived values are stored in the host's native byte order and are never
// swapped, so a container records the order it was written in and readers
// reject a mismatch. Container header fields themselves are always
// little-endian.
//
//	engine := endian.GetLittleEndianEngine()
//	engine.PutUint32(header[8:12], root)
//
// All functions are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"sync"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness returns the host's byte order.
func CheckEndianness() binary.ByteOrder {
	return nativeEngine()
}

var nativeEngine = sync.OnceValue(func() EndianEngine {
	// 0x0100 stores 0x01 first on a big-endian host.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
})

// NativeEngine returns the engine matching the host's byte order, which is
// the order of every archived value.
func NativeEngine() EndianEngine {
	return nativeEngine()
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return nativeEngine() == binary.LittleEndian
}

// IsNativeBigEndian reports whether the host is big-endian.
func IsNativeBigEndian() bool {
	return nativeEngine() == binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

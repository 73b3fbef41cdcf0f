package container

import (
	"fmt"

	"github.com/arloliu/archive/endian"
	"github.com/arloliu/archive/errs"
	"github.com/arloliu/archive/format"
)

const (
	// HeaderSize is the fixed size of the container header in bytes.
	HeaderSize = 32

	// Magic identifies a container, stored as the first four header bytes.
	Magic uint32 = 0x56435241 // "ARCV"

	// Version is the only container layout version understood by Unpack.
	Version uint8 = 1
)

// Header flag bits.
const (
	// FlagBigEndian is set when the archive was written on a big-endian host.
	FlagBigEndian uint8 = 1 << 0

	flagMask = FlagBigEndian
)

// Header is the fixed 32-byte prefix of a container.
//
// All header fields are little-endian regardless of the host. The archive
// bytes that follow are in the byte order recorded by FlagBigEndian.
type Header struct {
	Magic       uint32                 // byte offset 0-3
	Version     uint8                  // byte offset 4
	Flags       uint8                  // byte offset 5
	Compression format.CompressionType // byte offset 6
	// byte offset 7 is reserved and must be zero.
	Root        uint32 // byte offset 8-11, position of the archived root
	RawSize     uint32 // byte offset 12-15, archive size before compression
	PayloadSize uint32 // byte offset 16-19, size of the bytes after the header
	// byte offset 20-23 is reserved and must be zero.
	Checksum uint64 // byte offset 24-31, xxHash64 of the raw archive
}

// IsBigEndian reports whether the archive was written on a big-endian host.
func (h Header) IsBigEndian() bool {
	return h.Flags&FlagBigEndian != 0
}

// Bytes returns the 32-byte encoding of h.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := endian.GetLittleEndianEngine()

	engine.PutUint32(b[0:4], h.Magic)
	b[4] = h.Version
	b[5] = h.Flags
	b[6] = uint8(h.Compression)
	engine.PutUint32(b[8:12], h.Root)
	engine.PutUint32(b[12:16], h.RawSize)
	engine.PutUint32(b[16:20], h.PayloadSize)
	engine.PutUint64(b[24:32], h.Checksum)

	return b
}

// Parse decodes the header from the first HeaderSize bytes of data and
// validates the magic number, version and flags.
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: got %d bytes, need %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	engine := endian.GetLittleEndianEngine()

	h.Magic = engine.Uint32(data[0:4])
	if h.Magic != Magic {
		return fmt.Errorf("%w: 0x%08x", errs.ErrInvalidMagic, h.Magic)
	}

	h.Version = data[4]
	if h.Version != Version {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, h.Version)
	}

	h.Flags = data[5]
	if h.Flags&^flagMask != 0 || data[7] != 0 || engine.Uint32(data[20:24]) != 0 {
		return fmt.Errorf("%w: flags 0x%02x", errs.ErrInvalidHeaderFlags, h.Flags)
	}

	h.Compression = format.CompressionType(data[6])
	h.Root = engine.Uint32(data[8:12])
	h.RawSize = engine.Uint32(data[12:16])
	h.PayloadSize = engine.Uint32(data[16:20])
	h.Checksum = engine.Uint64(data[24:32])

	return nil
}

// ParseHeader parses a Header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	var h Header
	if err := h.Parse(data); err != nil {
		return Header{}, err
	}

	return h, nil
}

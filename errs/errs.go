// Package errs defines the sentinel errors shared by the archive packages.
//
// Errors returned by this module wrap one of these sentinels, so callers
// should test them with errors.Is rather than comparing error strings.
//
// Sink failures are not wrapped: a Writer's own error is returned unchanged
// from Serialize so that callers can match it directly.
package errs

import "errors"

// Writer errors.
var (
	// ErrBufferFull is returned by a BufferWriter that would grow past its configured maximum size.
	ErrBufferFull = errors.New("buffer full")
	// ErrInvalidAlignment is returned when an alignment is not a positive power of two.
	ErrInvalidAlignment = errors.New("invalid alignment")
	// ErrInvalidPosition is returned when truncating to a position outside the written range.
	ErrInvalidPosition = errors.New("invalid position")
)

// Access errors.
var (
	// ErrOutOfBounds is returned when an archived value does not fit in the buffer.
	ErrOutOfBounds = errors.New("archived value out of bounds")
	// ErrUnaligned is returned when an archived value is not aligned in memory for its type.
	ErrUnaligned = errors.New("archived value is not aligned")
)

// Container errors.
var (
	ErrInvalidHeaderSize    = errors.New("invalid header size")
	ErrInvalidMagic         = errors.New("invalid magic number")
	ErrUnsupportedVersion   = errors.New("unsupported container version")
	ErrInvalidHeaderFlags   = errors.New("invalid header flags")
	ErrByteOrderMismatch    = errors.New("archive byte order does not match the host")
	ErrChecksumMismatch     = errors.New("checksum mismatch")
	ErrPayloadSizeMismatch  = errors.New("payload size mismatch")
	ErrRootOutOfRange       = errors.New("root position out of range")
	ErrArchiveTooLarge      = errors.New("archive too large")
	ErrUnsupportedCodecType = errors.New("unsupported compression type")
)

// Generator errors. Every definition error reported by the mirror generator
// unwraps to one of these.
var (
	// ErrRawUnion is returned for types built on untyped memory (unsafe.Pointer, uintptr, any).
	ErrRawUnion = errors.New("raw untyped memory has no archive capability")
	// ErrImplicitDiscriminant is returned when a copy-path enumeration has no fixed representation.
	ErrImplicitDiscriminant = errors.New("enumeration has no explicit fixed representation")
	// ErrUnsupportedType is returned for field types that cannot be mirrored.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrNotCopySafe is returned when the copy path is requested for a type with non copy-safe fields.
	ErrNotCopySafe = errors.New("type is not copy-safe")
	// ErrInvalidDirective is returned for malformed archive directives.
	ErrInvalidDirective = errors.New("invalid archive directive")
	// ErrUnknownVariant is returned when a variant list names a type that is not a struct in the package.
	ErrUnknownVariant = errors.New("unknown variant")
)

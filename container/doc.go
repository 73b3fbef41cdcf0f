// Package container persists archived buffers.
//
// A container is a 32-byte header followed by the archive bytes, optionally
// compressed with one of the codecs in the compress package:
//
//	data, err := container.Encode[OuterResolver, ArchivedOuter](outer,
//		container.WithCompression(format.CompressionZstd))
//
//	c, err := container.Unpack(data)
//	root, err := container.Root[ArchivedOuter](c)
//
// Archived values use the byte order of the host that wrote them. The header
// records that order and Unpack refuses archives from a host with the other
// order instead of converting them.
//
// The header also carries the xxHash64 of the uncompressed archive, which
// Unpack verifies unless WithChecksumVerification(false) is given.
package container

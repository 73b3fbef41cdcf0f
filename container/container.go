package container

import (
	"fmt"
	"math"

	"github.com/arloliu/archive"
	"github.com/arloliu/archive/compress"
	"github.com/arloliu/archive/endian"
	"github.com/arloliu/archive/errs"
	"github.com/arloliu/archive/format"
	"github.com/arloliu/archive/internal/hash"
	"github.com/arloliu/archive/internal/options"
	"github.com/arloliu/archive/internal/pool"
)

type config struct {
	compression    format.CompressionType
	verifyChecksum bool
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		compression:    format.CompressionNone,
		verifyChecksum: true,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option configures Pack and Unpack.
type Option = options.Option[*config]

// WithCompression selects the codec Pack applies to the archive.
// The default is format.CompressionNone. Unpack ignores it and uses the
// codec recorded in the header.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(cfg *config) error {
		if _, err := compress.GetCodec(compression); err != nil {
			return err
		}
		cfg.compression = compression

		return nil
	})
}

// WithChecksumVerification enables or disables the checksum check in Unpack.
// It is enabled by default.
func WithChecksumVerification(enabled bool) Option {
	return options.NoError(func(cfg *config) {
		cfg.verifyChecksum = enabled
	})
}

// Pack wraps the archive bytes buf, whose archived root sits at root, in a
// container. The returned slice is owned by the caller.
func Pack(buf []byte, root int, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	if uint64(len(buf)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrArchiveTooLarge, len(buf))
	}
	if root < 0 || root > len(buf) {
		return nil, fmt.Errorf("%w: root %d, archive size %d", errs.ErrRootOutOfRange, root, len(buf))
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	payload, err := codec.Compress(buf)
	if err != nil {
		return nil, fmt.Errorf("compress archive: %w", err)
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: compressed payload is %d bytes", errs.ErrArchiveTooLarge, len(payload))
	}

	h := Header{
		Magic:       Magic,
		Version:     Version,
		Compression: cfg.compression,
		Root:        uint32(root),
		RawSize:     uint32(len(buf)),
		PayloadSize: uint32(len(payload)),
		Checksum:    hash.Sum(buf),
	}
	if endian.IsNativeBigEndian() {
		h.Flags |= FlagBigEndian
	}

	bb := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(bb)

	bb.Grow(HeaderSize + len(payload))
	_, _ = bb.Write(h.Bytes())
	_, _ = bb.Write(payload)

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out, nil
}

// Container is an unpacked archive held in an 8-byte aligned buffer.
type Container struct {
	header Header
	data   []byte
}

// Unpack validates a container produced by Pack, decompresses it and
// verifies its checksum.
//
// Archives written on a host with a different byte order are rejected with
// errs.ErrByteOrderMismatch; archived values are never byte swapped.
func Unpack(data []byte, opts ...Option) (*Container, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, err
	}

	if h.IsBigEndian() != endian.IsNativeBigEndian() {
		return nil, fmt.Errorf("%w: archive big-endian=%t", errs.ErrByteOrderMismatch, h.IsBigEndian())
	}

	payload := data[HeaderSize:]
	if uint64(len(payload)) != uint64(h.PayloadSize) {
		return nil, fmt.Errorf("%w: header says %d bytes, got %d",
			errs.ErrPayloadSizeMismatch, h.PayloadSize, len(payload))
	}

	raw, err := codec.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("decompress archive: %w", err)
	}
	if uint64(len(raw)) != uint64(h.RawSize) {
		return nil, fmt.Errorf("%w: header says %d raw bytes, got %d",
			errs.ErrPayloadSizeMismatch, h.RawSize, len(raw))
	}

	if cfg.verifyChecksum {
		if sum := hash.Sum(raw); sum != h.Checksum {
			return nil, fmt.Errorf("%w: expected 0x%016x, got 0x%016x", errs.ErrChecksumMismatch, h.Checksum, sum)
		}
	}

	if h.Root > h.RawSize {
		return nil, fmt.Errorf("%w: root %d, archive size %d", errs.ErrRootOutOfRange, h.Root, h.RawSize)
	}

	return &Container{
		header: h,
		data:   archive.AlignedCopy(raw),
	}, nil
}

// Header returns the parsed container header.
func (c *Container) Header() Header {
	return c.header
}

// Bytes returns the archive bytes. The slice is 8-byte aligned and must not
// be modified while views returned by Root are in use.
func (c *Container) Bytes() []byte {
	return c.data
}

// Root returns the position of the archived root within Bytes.
func (c *Container) Root() int {
	return int(c.header.Root)
}

// Stats reports the compression achieved for the archive.
func (c *Container) Stats() compress.CompressionStats {
	return compress.CompressionStats{
		Algorithm:      c.header.Compression,
		OriginalSize:   int64(c.header.RawSize),
		CompressedSize: int64(c.header.PayloadSize),
	}
}

// Root returns a zero-copy view of the archived root of c.
func Root[A any](c *Container) (*A, error) {
	return archive.Access[A](c.data, c.Root())
}

// Encode archives v and packs the result into a container.
func Encode[R, A any](v archive.Archive[R, A], opts ...Option) ([]byte, error) {
	buf, root, err := archive.Encode[R, A](v)
	if err != nil {
		return nil, err
	}

	return Pack(buf, root, opts...)
}

package compress

// ZstdCompressor compresses with Zstandard.
//
// It favors ratio over speed and suits archives that are stored or sent
// once and read many times. The implementation is chosen at build time:
// pure Go by default, cgo gozstd with the gozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

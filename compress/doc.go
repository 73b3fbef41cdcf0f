// Package compress provides the codecs used to compress archive containers.
//
// An archive is written uncompressed so it can be read in place. When an
// archive is persisted or sent over the wire, the container package
// compresses the whole archive with one of these codecs and restores it to
// an aligned buffer before access.
//
// # Supported Algorithms
//
//   - format.CompressionNone: no compression; Compress and Decompress return
//     their input.
//   - format.CompressionZstd: best ratio. Pure Go (klauspost/compress) by
//     default, or the cgo binding valyala/gozstd when built with the gozstd
//     build tag.
//   - format.CompressionS2: fast, moderate ratio (klauspost/compress/s2).
//   - format.CompressionLZ4: fastest decompression (pierrec/lz4 block format).
//
// # Basic Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//
//	compressed, err := codec.Compress(data)
//	original, err := codec.Decompress(compressed)
//
// # Thread Safety
//
// All codecs are stateless values and safe for concurrent use. Encoders and
// decoders that keep internal state are pooled with sync.Pool.
package compress

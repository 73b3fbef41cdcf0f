package compress

import "github.com/klauspost/compress/s2"

// S2Compressor compresses whole archives as a single S2 block.
//
// Archives are written once and mapped many times, so Compress uses the
// "better" encoder, trading encode speed for ratio. Decoding speed is the
// same as for the default encoder.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes data as one S2 block. An empty archive encodes to nil.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, data), nil
}

// Decompress decodes one S2 block. The block header records the decoded
// length, so blocks claiming more than 4GiB, the largest archive a
// container holds, fail before anything is allocated.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

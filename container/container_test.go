package container

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/archive"
	"github.com/arloliu/archive/endian"
	"github.com/arloliu/archive/errs"
	"github.com/arloliu/archive/format"
	"github.com/arloliu/archive/internal/testtypes"
)

func testOuter() testtypes.Outer {
	items := make([]testtypes.Inner, 0, 64)
	for i := range 64 {
		items = append(items, testtypes.Inner{
			ID:    uint32(i),
			Label: strings.Repeat("item", i%5+1),
			Pos:   testtypes.Point{X: float32(i), Y: 1},
		})
	}

	return testtypes.Outer{
		Name:   "container",
		Inner:  testtypes.Inner{ID: 7, Label: "root"},
		Items:  items,
		Scores: []float64{1, 2, 3},
		Color:  testtypes.ColorGreen,
		Shape:  testtypes.Circle{Radius: 2.5},
		Span:   archive.ScalarRange[uint32]{Start: 1, End: 4},
		Flag:   true,
	}
}

func packOuter(t *testing.T, opts ...Option) []byte {
	t.Helper()

	data, err := Encode[testtypes.OuterResolver, testtypes.ArchivedOuter](testOuter(), opts...)
	require.NoError(t, err)

	return data
}

func TestEncode_RoundTrip(t *testing.T) {
	compressions := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	want := testOuter()

	for _, compression := range compressions {
		t.Run(compression.String(), func(t *testing.T) {
			require := require.New(t)

			data := packOuter(t, WithCompression(compression))

			c, err := Unpack(data)
			require.NoError(err)
			require.Equal(compression, c.Header().Compression)

			root, err := Root[testtypes.ArchivedOuter](c)
			require.NoError(err)
			require.Equal(want.Name, root.Name.String())
			require.Equal(want.Inner.Label, root.Inner.Label.String())
			require.Equal(len(want.Items), root.Items.Len())
			for i, item := range root.Items.All() {
				require.Equal(want.Items[i].ID, item.ID)
				require.Equal(want.Items[i].Label, item.Label.String())
				require.Equal(want.Items[i].Pos, item.Pos)
			}
			require.Equal(want.Scores, root.Scores.Slice())
			require.Equal(want.Color, root.Color)
			require.Equal(want.Span, root.Span)

			circle, ok := root.Shape.Circle()
			require.True(ok)
			require.Equal(float32(2.5), circle.Radius)
		})
	}
}

func TestPack_MatchesEncode(t *testing.T) {
	require := require.New(t)

	buf, root, err := archive.Encode[testtypes.OuterResolver, testtypes.ArchivedOuter](testOuter())
	require.NoError(err)

	data, err := Pack(buf, root)
	require.NoError(err)
	require.Equal(packOuter(t), data)

	c, err := Unpack(data)
	require.NoError(err)
	require.Equal(buf, c.Bytes())
	require.Equal(root, c.Root())
}

func TestPack_Header(t *testing.T) {
	require := require.New(t)

	buf, root, err := archive.Encode[testtypes.OuterResolver, testtypes.ArchivedOuter](testOuter())
	require.NoError(err)

	data, err := Pack(buf, root, WithCompression(format.CompressionZstd))
	require.NoError(err)

	h, err := ParseHeader(data)
	require.NoError(err)
	require.Equal(Magic, h.Magic)
	require.Equal(Version, h.Version)
	require.Equal(endian.IsNativeBigEndian(), h.IsBigEndian())
	require.Equal(format.CompressionZstd, h.Compression)
	require.Equal(uint32(root), h.Root)
	require.Equal(uint32(len(buf)), h.RawSize)
	require.Equal(uint32(len(data)-HeaderSize), h.PayloadSize)
	require.Less(int(h.PayloadSize), len(buf))
	require.Equal(h.Bytes(), data[:HeaderSize])
}

func TestHeader_Bytes(t *testing.T) {
	h := Header{
		Magic:       Magic,
		Version:     Version,
		Flags:       FlagBigEndian,
		Compression: format.CompressionLZ4,
		Root:        0x01020304,
		RawSize:     0x0a0b0c0d,
		PayloadSize: 16,
		Checksum:    0x1122334455667788,
	}

	b := h.Bytes()
	require.Len(t, b, HeaderSize)
	require.Equal(t, []byte("ARCV"), b[0:4])
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b[8:12])
	require.Equal(t, []byte{0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11}, b[24:32])

	parsed, err := ParseHeader(b)
	require.NoError(t, err)
	require.Equal(t, h, parsed)
	require.True(t, parsed.IsBigEndian())
}

func TestContainer_Stats(t *testing.T) {
	require := require.New(t)

	c, err := Unpack(packOuter(t, WithCompression(format.CompressionS2)))
	require.NoError(err)

	stats := c.Stats()
	require.Equal(format.CompressionS2, stats.Algorithm)
	require.Equal(int64(len(c.Bytes())), stats.OriginalSize)
	require.Equal(int64(c.Header().PayloadSize), stats.CompressedSize)
	require.Greater(stats.SpaceSavings(), 0.0)
}

func TestUnpack_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(data []byte) []byte
		err    error
	}{
		{
			name:   "short header",
			mutate: func(data []byte) []byte { return data[:HeaderSize-1] },
			err:    errs.ErrInvalidHeaderSize,
		},
		{
			name:   "bad magic",
			mutate: func(data []byte) []byte { data[0] ^= 0xff; return data },
			err:    errs.ErrInvalidMagic,
		},
		{
			name:   "future version",
			mutate: func(data []byte) []byte { data[4] = Version + 1; return data },
			err:    errs.ErrUnsupportedVersion,
		},
		{
			name:   "unknown flag",
			mutate: func(data []byte) []byte { data[5] |= 0x80; return data },
			err:    errs.ErrInvalidHeaderFlags,
		},
		{
			name:   "reserved byte",
			mutate: func(data []byte) []byte { data[7] = 1; return data },
			err:    errs.ErrInvalidHeaderFlags,
		},
		{
			name:   "reserved word",
			mutate: func(data []byte) []byte { data[21] = 1; return data },
			err:    errs.ErrInvalidHeaderFlags,
		},
		{
			name:   "unknown codec",
			mutate: func(data []byte) []byte { data[6] = 0x9; return data },
			err:    errs.ErrUnsupportedCodecType,
		},
		{
			name:   "other byte order",
			mutate: func(data []byte) []byte { data[5] ^= FlagBigEndian; return data },
			err:    errs.ErrByteOrderMismatch,
		},
		{
			name:   "truncated payload",
			mutate: func(data []byte) []byte { return data[:len(data)-1] },
			err:    errs.ErrPayloadSizeMismatch,
		},
		{
			name:   "trailing bytes",
			mutate: func(data []byte) []byte { return append(data, 0) },
			err:    errs.ErrPayloadSizeMismatch,
		},
		{
			name:   "corrupt payload",
			mutate: func(data []byte) []byte { data[HeaderSize+1] ^= 0xff; return data },
			err:    errs.ErrChecksumMismatch,
		},
		{
			name: "root past the end",
			mutate: func(data []byte) []byte {
				h, _ := ParseHeader(data)
				h.Root = h.RawSize + 1
				copy(data, h.Bytes())

				return data
			},
			err: errs.ErrRootOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(packOuter(t))

			c, err := Unpack(data)
			require.ErrorIs(t, err, tt.err)
			require.Nil(t, c)
		})
	}
}

func TestUnpack_SkipChecksum(t *testing.T) {
	data := packOuter(t)
	data[len(data)-1] ^= 0xff

	_, err := Unpack(data)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)

	c, err := Unpack(data, WithChecksumVerification(false))
	require.NoError(t, err)
	require.Equal(t, data[HeaderSize:], c.Bytes())
}

func TestUnpack_AlignedView(t *testing.T) {
	data := packOuter(t)

	// Shift the container so the payload starts at an odd address.
	shifted := make([]byte, len(data)+1)
	copy(shifted[1:], data)

	c, err := Unpack(shifted[1:])
	require.NoError(t, err)

	root, err := Root[testtypes.ArchivedOuter](c)
	require.NoError(t, err)
	require.Equal(t, "container", root.Name.String())
}

func TestPack_Errors(t *testing.T) {
	buf, root, err := archive.Encode[testtypes.InnerResolver, testtypes.ArchivedInner](testtypes.Inner{ID: 1})
	require.NoError(t, err)

	_, err = Pack(buf, len(buf)+1)
	require.ErrorIs(t, err, errs.ErrRootOutOfRange)

	_, err = Pack(buf, -1)
	require.ErrorIs(t, err, errs.ErrRootOutOfRange)

	_, err = Pack(buf, root, WithCompression(format.CompressionType(0x9)))
	require.ErrorIs(t, err, errs.ErrUnsupportedCodecType)
}

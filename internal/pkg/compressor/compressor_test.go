package compressor

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonk9218/imgsuite/internal/entity"
)

func TestCompressAlphaSources(t *testing.T) {
	tests := []struct {
		name     string
		encode   func(t *testing.T, img image.Image) []byte
		filename string
	}{
		{
			name: "png source stays alpha capable",
			encode: func(t *testing.T, img image.Image) []byte {
				var buf bytes.Buffer
				require.NoError(t, png.Encode(&buf, img))
				return buf.Bytes()
			},
			filename: "photo.png",
		},
		{
			name: "webp source stays alpha capable",
			encode: func(t *testing.T, img image.Image) []byte {
				var buf bytes.Buffer
				require.NoError(t, webp.Encode(&buf, img, &webp.Options{Lossless: true}))
				return buf.Bytes()
			},
			filename: "photo.webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, 40, 30))
			fillImage(src, color.NRGBA{R: 200, G: 50, B: 50, A: 255})
			// fully transparent strip on the left
			for y := 0; y < 30; y++ {
				for x := 0; x < 10; x++ {
					src.SetNRGBA(x, y, color.NRGBA{})
				}
			}

			result, err := NewCompressor().Compress(tt.encode(t, src), tt.filename, 0.8)
			require.NoError(t, err)

			assert.Equal(t, "image/webp", result.MimeType)
			assert.Equal(t, len(result.Data), result.CompressedSize)

			decoded, err := webp.Decode(bytes.NewReader(result.Data))
			require.NoError(t, err)
			assert.Equal(t, 40, decoded.Bounds().Dx())
			assert.Equal(t, 30, decoded.Bounds().Dy())

			_, _, _, a := decoded.At(5, 15).RGBA()
			assert.Equal(t, uint32(0), a, "transparent pixel must survive compression")
		})
	}
}

func TestCompressOpaqueSources(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 48))
	fillImage(src, color.NRGBA{R: 10, G: 120, B: 40, A: 255})

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, &jpeg.Options{Quality: 95}))

	result, err := NewCompressor().Compress(buf.Bytes(), "holiday.jpeg", 0.5)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", result.MimeType)
	assert.Equal(t, "holiday-compressed.jpg", result.Filename)

	decoded, err := jpeg.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 48, decoded.Bounds().Dy())

	for _, pt := range []image.Point{{X: 0, Y: 0}, {X: 32, Y: 24}, {X: 63, Y: 47}} {
		_, _, _, a := decoded.At(pt.X, pt.Y).RGBA()
		assert.Equal(t, uint32(0xffff), a, "jpeg output must be fully opaque")
	}
}

func TestCompressFlattensTransparencyOntoWhite(t *testing.T) {
	// gif supports a transparent index but the jpeg target does not,
	// so transparent pixels must land on a white canvas
	pal := color.Palette{color.NRGBA{}, color.NRGBA{R: 255, A: 255}}
	src := image.NewPaletted(image.Rect(0, 0, 20, 20), pal) // zero value = transparent index

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, src, nil))

	result, err := NewCompressor().Compress(buf.Bytes(), "anim.gif", 0.9)
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", result.MimeType)

	decoded, err := jpeg.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)

	r, g, b, _ := decoded.At(10, 10).RGBA()
	assert.InDelta(t, 0xffff, int(r), 1500, "transparent pixels composite onto white")
	assert.InDelta(t, 0xffff, int(g), 1500)
	assert.InDelta(t, 0xffff, int(b), 1500)
}

func TestCompressRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		src     []byte
		quality float64
		wantErr error
	}{
		{
			name:    "quality zero",
			src:     []byte("irrelevant"),
			quality: 0,
			wantErr: entity.ErrInvalidQuality,
		},
		{
			name:    "quality above one",
			src:     []byte("irrelevant"),
			quality: 1.2,
			wantErr: entity.ErrInvalidQuality,
		},
		{
			name:    "corrupt image",
			src:     []byte("definitely not an image"),
			quality: 0.8,
			wantErr: entity.ErrDecodeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewCompressor().Compress(tt.src, "x.png", tt.quality)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "cat-compressed.webp", downloadName("cat.png", ".webp"))
	assert.Equal(t, "cat-compressed.jpg", downloadName("/tmp/uploads/cat.jpeg", ".jpg"))
	assert.Equal(t, "image-compressed.jpg", downloadName("", ".jpg"))
}

func fillImage(img interface {
	Set(x, y int, c color.Color)
	Bounds() image.Rectangle
}, c color.Color) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

package compressor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/antonk9218/imgsuite/internal/entity"
)

type Compressor interface {
	Compress(src []byte, filename string, quality float64) (*entity.CompressionResult, error)
}

type imageCompressor struct{}

func NewCompressor() Compressor {
	return &imageCompressor{}
}

// Compress re-encodes src at the given quality without resizing it.
// Sources with an alpha channel (png, webp) come out as webp so transparency
// survives; everything else is flattened onto white and comes out as jpeg.
func (p *imageCompressor) Compress(src []byte, filename string, quality float64) (*entity.CompressionResult, error) {
	if quality <= 0 || quality > 1 {
		return nil, fmt.Errorf("%w: got %v", entity.ErrInvalidQuality, quality)
	}

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecodeFailed, err)
	}

	var buf bytes.Buffer
	var mimeType, ext string

	if hasAlphaFormat(format) {
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality * 100)}); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrEncodeFailed, err)
		}
		mimeType = "image/webp"
		ext = ".webp"
	} else {
		bounds := img.Bounds()
		// The target format cannot express transparency, so paint white behind the image
		canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
		flat := imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)

		if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrEncodeFailed, err)
		}
		mimeType = "image/jpeg"
		ext = ".jpg"
	}

	result := &entity.CompressionResult{
		Data:           buf.Bytes(),
		MimeType:       mimeType,
		Filename:       downloadName(filename, ext),
		OriginalSize:   len(src),
		CompressedSize: buf.Len(),
	}

	logrus.WithFields(logrus.Fields{
		"format":     format,
		"quality":    quality,
		"original":   result.OriginalSize,
		"compressed": result.CompressedSize,
	}).Debug("image compressed")

	return result, nil
}

func hasAlphaFormat(format string) bool {
	return format == "png" || format == "webp"
}

func jpegQuality(quality float64) int {
	q := int(quality * 100)
	if q < 1 {
		q = 1
	}
	return q
}

func downloadName(filename, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if stem == "" || stem == "." {
		stem = "image"
	}
	return stem + "-compressed" + ext
}

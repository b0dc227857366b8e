// Package ggimage writes and encodes images using the gg library.
package ggimage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/fogleman/gg"

	"github.com/user/framegrab/pkg/ports"
)

// DefaultQuality is the JPEG quality used when none is given.
const DefaultQuality = 75

// ErrBufferShape is returned when a pixel buffer does not hold exactly
// width*height RGBA pixels.
var ErrBufferShape = errors.New("ggimage: buffer does not match image shape")

// Writer implements ports.ImageWriter and ports.ImageEncoder.
type Writer struct{}

// New creates a new Writer.
func New() *Writer {
	return &Writer{}
}

// WriteJPEG writes a packed RGBA buffer as a JPEG file. An existing file at
// path is overwritten. JPEG has no alpha channel; alpha is discarded.
func (w *Writer) WriteJPEG(path string, pix []byte, width, height, quality int) error {
	img, err := RGBAImage(pix, width, height)
	if err != nil {
		return err
	}

	if err := gg.SaveJPG(path, img, normalizeQuality(quality)); err != nil {
		return fmt.Errorf("save JPEG: %w", err)
	}
	return nil
}

// RGBAImage wraps a packed RGBA buffer as an image without copying.
func RGBAImage(pix []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBufferShape, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrBufferShape, len(pix), width, height)
	}

	return &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// EncodeImage encodes an image to the specified format.
func (w *Writer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: normalizeQuality(quality)}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

func normalizeQuality(quality int) int {
	switch {
	case quality <= 0:
		return DefaultQuality
	case quality > 100:
		return 100
	default:
		return quality
	}
}

// Ensure Writer implements ports.ImageWriter
var _ ports.ImageWriter = (*Writer)(nil)

// Ensure Writer implements ports.ImageEncoder
var _ ports.ImageEncoder = (*Writer)(nil)

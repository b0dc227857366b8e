package ports

import (
	"image"
)

// ImageWriter serializes packed RGBA pixel buffers to image files.
type ImageWriter interface {
	// WriteJPEG writes pix (width*height*4 bytes of RGBA) as a JPEG file,
	// overwriting any existing file at path.
	WriteJPEG(path string, pix []byte, width, height, quality int) error
}

// ImageEncoder encodes images into memory.
type ImageEncoder interface {
	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)

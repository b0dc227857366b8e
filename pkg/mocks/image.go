package mocks

import (
	"image"
	"sync"

	"github.com/user/framegrab/pkg/ports"
)

// JPEGWrite records one call to ImageWriter.WriteJPEG.
type JPEGWrite struct {
	Path    string
	Bytes   int
	Width   int
	Height  int
	Quality int
}

// ImageWriter is a mock implementation of ports.ImageWriter and
// ports.ImageEncoder.
type ImageWriter struct {
	mu sync.Mutex

	WriteJPEGFunc   func(path string, pix []byte, width, height, quality int) error
	EncodeImageFunc func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)

	Writes  []JPEGWrite
	Encoded []image.Image
}

func (m *ImageWriter) WriteJPEG(path string, pix []byte, width, height, quality int) error {
	m.mu.Lock()
	m.Writes = append(m.Writes, JPEGWrite{
		Path:    path,
		Bytes:   len(pix),
		Width:   width,
		Height:  height,
		Quality: quality,
	})
	m.mu.Unlock()

	if m.WriteJPEGFunc != nil {
		return m.WriteJPEGFunc(path, pix, width, height, quality)
	}
	return nil
}

func (m *ImageWriter) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	m.mu.Lock()
	m.Encoded = append(m.Encoded, img)
	m.mu.Unlock()

	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte("encoded"), nil
}

var _ ports.ImageWriter = (*ImageWriter)(nil)
var _ ports.ImageEncoder = (*ImageWriter)(nil)

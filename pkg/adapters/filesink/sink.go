// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/framegrab/pkg/ports"
)

// File names written into the debug directory.
const (
	ProbeFile   = "probe.json"
	DecodedFile = "decoded.png"
	ScaledFile  = "scaled.png"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
	encoder ports.ImageEncoder
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, encoder ports.ImageEncoder) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
		encoder: encoder,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveProbeJSON saves the container inspection result as JSON.
func (s *Sink) SaveProbeJSON(data []byte) error {
	return s.write(ProbeFile, data)
}

// SaveDecodedFrame saves the first decoded frame.
func (s *Sink) SaveDecodedFrame(img image.Image) error {
	return s.savePNG(DecodedFile, img)
}

// SaveScaledFrame saves the scaled RGBA frame.
func (s *Sink) SaveScaledFrame(img image.Image) error {
	return s.savePNG(ScaledFile, img)
}

func (s *Sink) savePNG(name string, img image.Image) error {
	data, err := s.encoder.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.write(name, data)
}

func (s *Sink) write(name string, data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return fmt.Errorf("create debug dir: %w", err)
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, name), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)

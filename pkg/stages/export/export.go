// Package export writes the scaled frame as a JPEG thumbnail.
package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

var (
	// ErrOutputDirNotFound is returned when the output directory does not
	// exist. It is never created.
	ErrOutputDirNotFound = errors.New("export: output directory not found")

	// ErrNotRGBA is returned for frames that are not packed RGBA.
	ErrNotRGBA = errors.New("export: frame is not rgba")
)

// Stage writes the thumbnail file.
type Stage struct {
	writer ports.ImageWriter
	fs     ports.FileSystem
	logger ports.Logger
}

// NewStage creates a new export stage.
func NewStage(writer ports.ImageWriter, fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		writer: writer,
		fs:     fs,
		logger: logger.WithComponent("export"),
	}
}

// Execute writes input.Frame to <OutputDir>/<OutputName>, overwriting any
// existing file.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error) {
	select {
	case <-ctx.Done():
		return pipeline.ExportResult{}, ctx.Err()
	default:
	}

	frame := input.Frame
	if frame == nil || frame.Format != ports.PixelFormatRGBA || len(frame.Planes) != 1 {
		return pipeline.ExportResult{}, ErrNotRGBA
	}

	isDir, err := s.fs.IsDir(input.OutputDir)
	if err != nil {
		return pipeline.ExportResult{}, fmt.Errorf("check output directory: %w", err)
	}
	if !isDir {
		return pipeline.ExportResult{}, fmt.Errorf("%w: %s", ErrOutputDirNotFound, input.OutputDir)
	}

	name := input.OutputName
	if name == "" {
		name = pipeline.DefaultOutputName
	}
	path := filepath.Join(input.OutputDir, name)

	s.logger.Debug("Writing %dx%d JPEG at quality %d", frame.Width, frame.Height, input.Quality)
	if err := s.writer.WriteJPEG(path, frame.Planes[0], frame.Width, frame.Height, input.Quality); err != nil {
		return pipeline.ExportResult{}, fmt.Errorf("write jpeg: %w", err)
	}

	return pipeline.ExportResult{
		Path:   path,
		Width:  frame.Width,
		Height: frame.Height,
	}, nil
}

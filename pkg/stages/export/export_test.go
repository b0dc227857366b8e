package export

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/mocks"
	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

func rgbaFrame(width, height int) *ports.Frame {
	return &ports.Frame{
		Width:   width,
		Height:  height,
		Format:  ports.PixelFormatRGBA,
		Planes:  [][]byte{make([]byte, width*height*4)},
		Strides: []int{width * 4},
	}
}

func TestExecuteWritesDefaultName(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddDir("out")
	writer := &mocks.ImageWriter{}
	stage := NewStage(writer, fs, logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.ExportInput{
		Frame:     rgbaFrame(320, 240),
		OutputDir: "out",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	expected := filepath.Join("out", "output.jpg")
	if result.Path != expected {
		t.Errorf("expected path %s, got %s", expected, result.Path)
	}
	if len(writer.Writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(writer.Writes))
	}
	w := writer.Writes[0]
	if w.Path != expected || w.Width != 320 || w.Height != 240 || w.Bytes != 320*240*4 {
		t.Errorf("unexpected write: %+v", w)
	}
}

func TestExecuteCustomNameAndQuality(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddDir("out")
	writer := &mocks.ImageWriter{}
	stage := NewStage(writer, fs, logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.ExportInput{
		Frame:      rgbaFrame(8, 8),
		OutputDir:  "out",
		OutputName: "thumb.jpg",
		Quality:    90,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	w := writer.Writes[0]
	if w.Path != filepath.Join("out", "thumb.jpg") || w.Quality != 90 {
		t.Errorf("unexpected write: %+v", w)
	}
}

func TestExecuteMissingOutputDir(t *testing.T) {
	writer := &mocks.ImageWriter{}
	stage := NewStage(writer, mocks.NewFileSystem(), logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.ExportInput{
		Frame:     rgbaFrame(8, 8),
		OutputDir: "missing",
	})
	if !errors.Is(err, ErrOutputDirNotFound) {
		t.Errorf("expected ErrOutputDirNotFound, got %v", err)
	}
	if len(writer.Writes) != 0 {
		t.Error("expected nothing to be written")
	}
}

func TestExecuteWriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddDir("out")
	writeErr := errors.New("permission denied")
	writer := &mocks.ImageWriter{
		WriteJPEGFunc: func(path string, pix []byte, width, height, quality int) error {
			return writeErr
		},
	}
	stage := NewStage(writer, fs, logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.ExportInput{
		Frame:     rgbaFrame(8, 8),
		OutputDir: "out",
	})
	if !errors.Is(err, writeErr) {
		t.Errorf("expected write error, got %v", err)
	}
}

func TestExecuteRejectsNonRGBA(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddDir("out")
	stage := NewStage(&mocks.ImageWriter{}, fs, logger.NewNoop())

	frame := mocks.GreyFrame(8, 8)
	_, err := stage.Execute(context.Background(), pipeline.ExportInput{Frame: frame, OutputDir: "out"})
	if !errors.Is(err, ErrNotRGBA) {
		t.Errorf("expected ErrNotRGBA, got %v", err)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs := mocks.NewFileSystem()
	fs.AddDir("out")
	writer := &mocks.ImageWriter{}
	stage := NewStage(writer, fs, logger.NewNoop())

	if _, err := stage.Execute(ctx, pipeline.ExportInput{Frame: rgbaFrame(8, 8), OutputDir: "out"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(writer.Writes) != 0 {
		t.Error("expected nothing to be written")
	}
}

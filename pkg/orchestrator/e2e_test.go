package orchestrator

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fogleman/gg"

	"github.com/user/framegrab/pkg/adapters/drawscaler"
	"github.com/user/framegrab/pkg/adapters/ggimage"
	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/adapters/mp4demuxer"
	"github.com/user/framegrab/pkg/adapters/nullsink"
	"github.com/user/framegrab/pkg/adapters/osfilesystem"
	"github.com/user/framegrab/pkg/adapters/smartdecoder"
	"github.com/user/framegrab/pkg/stages/export"
	"github.com/user/framegrab/pkg/stages/extract"
	"github.com/user/framegrab/pkg/stages/inspect"
	"github.com/user/framegrab/pkg/stages/selection"
	"github.com/user/framegrab/pkg/testmedia"
)

func newRealOrchestrator(t *testing.T, stdout *bytes.Buffer) *Orchestrator {
	t.Helper()

	factory, err := smartdecoder.Init(smartdecoder.Options{FFmpegPath: testmedia.FFmpegPath(t)})
	if err != nil {
		t.Skipf("decoder toolchain not available: %v", err)
	}

	log := logger.NewNoop()
	sink := nullsink.New()
	return New(
		mp4demuxer.NewOpener(),
		factory,
		drawscaler.NewFactory(),
		inspect.NewStage(stdout, sink, log),
		selection.NewStage(log),
		extract.NewStage(sink, log),
		export.NewStage(ggimage.New(), osfilesystem.New(), log),
		log,
	)
}

func TestEndToEnd_Thumbnail(t *testing.T) {
	dir := t.TempDir()
	input := testmedia.MP4(t, dir, testmedia.Options{Width: 64, Height: 48, Frames: 5, Audio: true})

	var stdout bytes.Buffer
	orch := newRealOrchestrator(t, &stdout)

	config := DefaultConfig()
	config.InputPath = input
	config.OutputDir = dir

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Found || result.State != StateDone {
		t.Fatalf("expected a thumbnail, got %+v", result)
	}

	if !strings.Contains(stdout.String(), "#Streams: 2") {
		t.Errorf("unexpected report:\n%s", stdout.String())
	}

	img, err := gg.LoadImage(filepath.Join(dir, "output.jpg"))
	if err != nil {
		t.Fatalf("cannot read output.jpg: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("expected 32x24 thumbnail, got %v", img.Bounds())
	}
}

func TestEndToEnd_Fragmented(t *testing.T) {
	dir := t.TempDir()
	input := testmedia.MP4(t, dir, testmedia.Options{Width: 80, Height: 60, Fragmented: true})

	var stdout bytes.Buffer
	orch := newRealOrchestrator(t, &stdout)

	config := DefaultConfig()
	config.InputPath = input
	config.OutputDir = dir
	config.OutputName = "thumb.jpg"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.OutputWidth != 40 || result.OutputHeight != 30 {
		t.Errorf("expected 40x30, got %dx%d", result.OutputWidth, result.OutputHeight)
	}
	if result.OutputPath != filepath.Join(dir, "thumb.jpg") {
		t.Errorf("unexpected output path %s", result.OutputPath)
	}
}

func TestEndToEnd_FragmentedWithAudio(t *testing.T) {
	dir := t.TempDir()
	input := testmedia.MP4(t, dir, testmedia.Options{Width: 64, Height: 48, Frames: 6, Fragmented: true, Audio: true})

	var stdout bytes.Buffer
	orch := newRealOrchestrator(t, &stdout)

	config := DefaultConfig()
	config.InputPath = input
	config.OutputDir = dir

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Found {
		t.Fatalf("expected a frame from the muxed fragments, got %+v", result)
	}
	if result.OutputWidth != 32 || result.OutputHeight != 24 {
		t.Errorf("expected 32x24, got %dx%d", result.OutputWidth, result.OutputHeight)
	}
}

func TestEndToEnd_HEVC(t *testing.T) {
	dir := t.TempDir()
	input := testmedia.MP4(t, dir, testmedia.Options{Width: 128, Height: 96, HEVC: true})

	var stdout bytes.Buffer
	orch := newRealOrchestrator(t, &stdout)

	config := DefaultConfig()
	config.InputPath = input
	config.OutputDir = dir

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Codec != "hevc" {
		t.Errorf("expected hevc stream, got %s", result.Codec)
	}
	if result.OutputWidth != 64 || result.OutputHeight != 48 {
		t.Errorf("expected 64x48, got %dx%d", result.OutputWidth, result.OutputHeight)
	}
}

func TestEndToEnd_AudioOnly(t *testing.T) {
	dir := t.TempDir()
	input := testmedia.MP4(t, dir, testmedia.Options{NoVideo: true})

	var stdout bytes.Buffer
	orch := newRealOrchestrator(t, &stdout)

	config := DefaultConfig()
	config.InputPath = input
	config.OutputDir = dir

	if _, err := orch.Run(context.Background(), config); err == nil {
		t.Fatal("expected an error for a file without video")
	}

	exists, _ := osfilesystem.New().Exists(filepath.Join(dir, "output.jpg"))
	if exists {
		t.Error("expected no output file")
	}
}

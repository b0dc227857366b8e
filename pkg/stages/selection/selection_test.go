package selection

import (
	"context"
	"errors"
	"testing"

	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

func video(index, width, height int, dflt bool) ports.Stream {
	return ports.Stream{
		Index:      index,
		Default:    dflt,
		FrameCount: 100,
		Duration:   100,
		Params: ports.CodecParameters{
			MediaType: ports.MediaVideo,
			Codec:     ports.CodecH264,
			Width:     width,
			Height:    height,
		},
	}
}

func audio(index int) ports.Stream {
	return ports.Stream{
		Index:  index,
		Params: ports.CodecParameters{MediaType: ports.MediaAudio, Codec: ports.CodecAAC, Channels: 2},
	}
}

func TestBestPrefersDefault(t *testing.T) {
	streams := []ports.Stream{
		audio(0),
		video(1, 1920, 1080, false),
		video(2, 640, 480, true),
	}

	best, err := Best(streams, ports.MediaVideo)
	if err != nil {
		t.Fatalf("Best failed: %v", err)
	}
	if best.Index != 2 {
		t.Errorf("expected default stream #2, got #%d", best.Index)
	}
}

func TestBestPrefersLargest(t *testing.T) {
	streams := []ports.Stream{
		video(0, 320, 240, true),
		video(1, 1280, 720, true),
		video(2, 640, 480, true),
	}

	best, err := Best(streams, ports.MediaVideo)
	if err != nil {
		t.Fatalf("Best failed: %v", err)
	}
	if best.Index != 1 {
		t.Errorf("expected largest stream #1, got #%d", best.Index)
	}
}

func TestBestTieKeepsFirst(t *testing.T) {
	streams := []ports.Stream{
		video(0, 640, 480, true),
		video(1, 640, 480, true),
	}

	best, err := Best(streams, ports.MediaVideo)
	if err != nil {
		t.Fatalf("Best failed: %v", err)
	}
	if best.Index != 0 {
		t.Errorf("expected first stream on tie, got #%d", best.Index)
	}
}

func TestBestSkipsCoverArt(t *testing.T) {
	cover := video(0, 3000, 3000, true)
	cover.FrameCount = 1
	cover.Duration = 0

	streams := []ports.Stream{cover, video(1, 640, 480, false)}

	best, err := Best(streams, ports.MediaVideo)
	if err != nil {
		t.Fatalf("Best failed: %v", err)
	}
	if best.Index != 1 {
		t.Errorf("expected real video stream #1, got #%d", best.Index)
	}

	// Cover art alone is still a video stream
	best, err = Best([]ports.Stream{cover}, ports.MediaVideo)
	if err != nil || best.Index != 0 {
		t.Errorf("expected cover art as fallback, got #%d (%v)", best.Index, err)
	}
}

func TestBestNotFound(t *testing.T) {
	_, err := Best([]ports.Stream{audio(0), audio(1)}, ports.MediaVideo)
	if !errors.Is(err, ErrStreamNotFound) {
		t.Errorf("expected ErrStreamNotFound, got %v", err)
	}

	_, err = Best(nil, ports.MediaVideo)
	if !errors.Is(err, ErrStreamNotFound) {
		t.Errorf("expected ErrStreamNotFound for no streams, got %v", err)
	}
}

func TestBestAudio(t *testing.T) {
	mono := audio(1)
	mono.Params.Channels = 1

	best, err := Best([]ports.Stream{video(0, 640, 480, true), mono, audio(2)}, ports.MediaAudio)
	if err != nil {
		t.Fatalf("Best failed: %v", err)
	}
	if best.Index != 2 {
		t.Errorf("expected stereo stream #2, got #%d", best.Index)
	}
}

func TestStageExecute(t *testing.T) {
	stage := NewStage(logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.SelectInput{
		Streams: []ports.Stream{audio(0), video(1, 640, 480, true)},
		Kind:    ports.MediaVideo,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Stream.Index != 1 {
		t.Errorf("expected stream #1, got #%d", result.Stream.Index)
	}
}

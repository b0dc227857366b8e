package smartdecoder

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/user/framegrab/pkg/adapters/h264decoder"
	"github.com/user/framegrab/pkg/ports"
)

func videoParams(codec ports.CodecID, width, height int) ports.CodecParameters {
	return ports.CodecParameters{
		MediaType: ports.MediaVideo,
		Codec:     codec,
		Width:     width,
		Height:    height,
	}
}

func TestInitWithMissingCustomPath(t *testing.T) {
	_, err := Init(Options{FFmpegPath: filepath.Join(t.TempDir(), "no-ffmpeg")})
	if !errors.Is(err, ErrInitFailed) {
		t.Errorf("expected ErrInitFailed, got %v", err)
	}
	if !errors.Is(err, h264decoder.ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound in chain, got %v", err)
	}
}

func TestSelect(t *testing.T) {
	f := &Factory{ffmpegPath: "/usr/bin/ffmpeg"}

	for _, codec := range []ports.CodecID{ports.CodecH264, ports.CodecHEVC} {
		info, err := f.Select(videoParams(codec, 640, 480))
		if err != nil {
			t.Fatalf("%s: Select failed: %v", codec, err)
		}
		if info.Codec != codec {
			t.Errorf("expected codec %s, got %s", codec, info.Codec)
		}
		if info.Backend != BackendFFmpeg {
			t.Errorf("%s: expected backend ffmpeg, got %s", codec, info.Backend)
		}
	}
}

func TestNewDecoderHEVC(t *testing.T) {
	f := &Factory{ffmpegPath: "/usr/bin/ffmpeg"}

	dec, err := f.NewDecoder(videoParams(ports.CodecHEVC, 1920, 1080))
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	defer dec.Close()

	if dec.Width() != 1920 || dec.Height() != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", dec.Width(), dec.Height())
	}
}

func TestNewDecoderUnsupportedCodec(t *testing.T) {
	f := &Factory{ffmpegPath: "/usr/bin/ffmpeg"}

	for _, codec := range []ports.CodecID{ports.CodecAV1, ports.CodecVP9, ports.CodecUnknown} {
		_, err := f.NewDecoder(videoParams(codec, 640, 480))
		if !errors.Is(err, ErrUnsupportedCodec) {
			t.Errorf("%s: expected ErrUnsupportedCodec, got %v", codec, err)
		}
	}

	audio := ports.CodecParameters{MediaType: ports.MediaAudio, Codec: ports.CodecAAC}
	if _, err := f.NewDecoder(audio); !errors.Is(err, ErrUnsupportedCodec) {
		t.Errorf("audio: expected ErrUnsupportedCodec, got %v", err)
	}
}

func TestNewDecoderInvalidDimensions(t *testing.T) {
	f := &Factory{ffmpegPath: "/usr/bin/ffmpeg"}

	_, err := f.NewDecoder(videoParams(ports.CodecH264, 0, 0))
	if !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
}

func TestNewDecoderH264(t *testing.T) {
	if !h264decoder.IsAvailable() {
		t.Skip("H.264 decoder not available")
	}

	f, err := Init(Options{})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	dec, err := f.NewDecoder(videoParams(ports.CodecH264, 320, 240))
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	defer dec.Close()

	if dec.Width() != 320 || dec.Height() != 240 {
		t.Errorf("expected 320x240, got %dx%d", dec.Width(), dec.Height())
	}
	if dec.PixelFormat() != ports.PixelFormatYUV420P {
		t.Errorf("expected yuv420p, got %v", dec.PixelFormat())
	}

	t.Logf("ffmpeg: %s", f.FFmpegPath())
}

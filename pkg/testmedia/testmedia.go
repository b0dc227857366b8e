// Package testmedia generates small media files for tests with ffmpeg.
// Tests that need real H.264 are skipped when ffmpeg or libx264 is missing.
package testmedia

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// Options describes a generated test clip.
type Options struct {
	Width     int
	Height    int
	Frames    int
	FrameRate int

	// Audio adds a sine audio track after the video track.
	Audio bool

	// Fragmented writes a fragmented MP4 (moof/mdat pairs).
	Fragmented bool

	// FastStart moves moov in front of mdat.
	FastStart bool

	// NoVideo writes an audio-only file.
	NoVideo bool

	// HEVC encodes video with libx265 (hvc1) instead of libx264.
	HEVC bool
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 64
	}
	if o.Height == 0 {
		o.Height = 48
	}
	if o.Frames == 0 {
		o.Frames = 5
	}
	if o.FrameRate == 0 {
		o.FrameRate = 10
	}
	return o
}

// FFmpegPath returns the ffmpeg binary used for fixtures, or skips the test.
func FFmpegPath(t testing.TB) string {
	t.Helper()

	if p := os.Getenv("FFMPEG_PATH"); p != "" {
		return p
	}
	p, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not available")
	}
	return p
}

// MP4 writes a clip into dir and returns its path.
func MP4(t testing.TB, dir string, opts Options) string {
	t.Helper()

	ffmpeg := FFmpegPath(t)
	opts = opts.withDefaults()
	duration := float64(opts.Frames) / float64(opts.FrameRate)

	var args []string
	args = append(args, "-hide_banner", "-loglevel", "error", "-y")
	if !opts.NoVideo {
		args = append(args,
			"-f", "lavfi",
			"-i", fmt.Sprintf("testsrc=size=%dx%d:rate=%d", opts.Width, opts.Height, opts.FrameRate),
		)
	}
	if opts.Audio || opts.NoVideo {
		args = append(args,
			"-f", "lavfi",
			"-i", "sine=frequency=440:sample_rate=48000",
		)
	}
	if !opts.NoVideo {
		args = append(args, "-frames:v", fmt.Sprint(opts.Frames))
		if opts.HEVC {
			args = append(args, "-c:v", "libx265", "-tag:v", "hvc1", "-x265-params", "log-level=error")
		} else {
			args = append(args, "-c:v", "libx264")
		}
		args = append(args, "-pix_fmt", "yuv420p", "-g", fmt.Sprint(opts.Frames))
	}
	if opts.Audio || opts.NoVideo {
		args = append(args, "-c:a", "aac", "-t", fmt.Sprintf("%.3f", duration))
	}
	if opts.Fragmented {
		args = append(args, "-movflags", "frag_keyframe+empty_moov")
	} else if opts.FastStart {
		args = append(args, "-movflags", "+faststart")
	}

	path := filepath.Join(dir, "input.mp4")
	args = append(args, path)

	var stderr bytes.Buffer
	cmd := exec.Command(ffmpeg, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Skipf("ffmpeg cannot generate test clip: %v: %s", err, stderr.String())
	}

	return path
}

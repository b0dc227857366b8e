// Package smartdecoder sets up the codec toolchain once per process and
// selects a decoder backend for each stream.
package smartdecoder

import (
	"errors"
	"fmt"

	"github.com/user/framegrab/pkg/adapters/h264decoder"
	"github.com/user/framegrab/pkg/ports"
)

// Backend represents the decoding backend used.
type Backend string

const (
	// BackendFFmpeg represents FFmpeg-based decoding.
	BackendFFmpeg Backend = "ffmpeg"
)

// Info contains information about the selected decoder.
type Info struct {
	// Codec is the stream codec.
	Codec ports.CodecID
	// Backend is the decoding backend being used.
	Backend Backend
}

// Options configures toolchain initialisation.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
}

var (
	// ErrInitFailed is returned when the decoding toolchain cannot be set up.
	ErrInitFailed = errors.New("smartdecoder: initialisation failed")
	// ErrUnsupportedCodec is returned when the codec is not supported.
	ErrUnsupportedCodec = errors.New("smartdecoder: unsupported codec")
	// ErrInvalidParameters is returned when codec parameters cannot describe
	// a decodable stream.
	ErrInvalidParameters = errors.New("smartdecoder: invalid codec parameters")
)

// Factory creates decoders. It is obtained from Init.
type Factory struct {
	ffmpegPath string
}

// Init locates the external codec toolchain. It is called once at process
// start, before any decoder is created.
func Init(opts Options) (*Factory, error) {
	ffmpegPath, err := h264decoder.FindFFmpeg(opts.FFmpegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitFailed, err)
	}
	return &Factory{ffmpegPath: ffmpegPath}, nil
}

// FFmpegPath returns the ffmpeg binary used by decoders.
func (f *Factory) FFmpegPath() string {
	return f.ffmpegPath
}

// Select reports which backend would decode params without creating a
// decoder.
func (f *Factory) Select(params ports.CodecParameters) (Info, error) {
	if params.MediaType != ports.MediaVideo {
		return Info{}, fmt.Errorf("%w: %s stream", ErrUnsupportedCodec, params.MediaType)
	}

	// H.264 and HEVC decode through ffmpeg
	if !h264decoder.Supports(params.Codec) {
		return Info{}, fmt.Errorf("%w: %s", ErrUnsupportedCodec, params.Codec)
	}

	if params.Width <= 0 || params.Height <= 0 {
		return Info{}, fmt.Errorf("%w: %dx%d", ErrInvalidParameters, params.Width, params.Height)
	}

	return Info{Codec: params.Codec, Backend: BackendFFmpeg}, nil
}

// NewDecoder creates a decoder for a stream.
func (f *Factory) NewDecoder(params ports.CodecParameters) (ports.VideoDecoder, error) {
	if _, err := f.Select(params); err != nil {
		return nil, err
	}

	dec, err := h264decoder.New(params, f.ffmpegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	return dec, nil
}

// Ensure Factory implements ports.DecoderFactory
var _ ports.DecoderFactory = (*Factory)(nil)

// Package h264decoder decodes H.264 and HEVC video with an external ffmpeg
// process.
//
// Packets arrive length-prefixed (AVCC/HVCC, as stored in MP4). They are
// converted to Annex B, parameter sets are prepended on keyframes, and the
// accumulated elementary stream is decoded to raw yuv420p frames.
package h264decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/user/framegrab/pkg/ports"
)

var (
	// ErrDecodeFailed is returned when a packet cannot be decoded.
	ErrDecodeFailed = errors.New("h264decoder: decode failed")

	// ErrFFmpegNotFound is returned when ffmpeg cannot be located.
	ErrFFmpegNotFound = errors.New("h264decoder: ffmpeg not found in PATH")

	// ErrUnsupportedCodec is returned for parameters that are neither H.264
	// nor HEVC.
	ErrUnsupportedCodec = errors.New("h264decoder: codec is not h264 or hevc")

	// ErrInvalidDimensions is returned when the stream has no frame size.
	ErrInvalidDimensions = errors.New("h264decoder: invalid frame dimensions")

	// ErrPacketAfterEOF is returned when a packet is sent after SendEOF.
	ErrPacketAfterEOF = errors.New("h264decoder: packet sent after end of stream")

	// ErrClosed is returned when using a closed decoder.
	ErrClosed = errors.New("h264decoder: decoder closed")
)

// elementaryFormats maps codecs to the ffmpeg demuxer of their Annex B
// elementary stream.
var elementaryFormats = map[ports.CodecID]string{
	ports.CodecH264: "h264",
	ports.CodecHEVC: "hevc",
}

// Supports reports whether codec can be decoded.
func Supports(codec ports.CodecID) bool {
	_, ok := elementaryFormats[codec]
	return ok
}

// Decoder decodes one H.264 or HEVC stream.
type Decoder struct {
	ffmpegPath string
	format     string
	width      int
	height     int
	extraData  []byte

	mu          sync.Mutex
	stream      bytes.Buffer
	pts         []int64
	sawKeyframe bool
	pending     bool // Data arrived since the last decode
	eof         bool
	closed      bool
	lastErr     error

	frames    [][]byte
	delivered int
}

// New creates a decoder for the given stream parameters.
// ffmpegPath must point to an ffmpeg binary (see FindFFmpeg).
func New(params ports.CodecParameters, ffmpegPath string) (*Decoder, error) {
	format, ok := elementaryFormats[params.Codec]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, params.Codec)
	}
	if params.Width <= 0 || params.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, params.Width, params.Height)
	}
	if ffmpegPath == "" {
		return nil, ErrFFmpegNotFound
	}

	return &Decoder{
		ffmpegPath: ffmpegPath,
		format:     format,
		width:      params.Width,
		height:     params.Height,
		extraData:  params.ExtraData,
	}, nil
}

// Width returns the width of decoded frames.
func (d *Decoder) Width() int {
	return d.width
}

// Height returns the height of decoded frames.
func (d *Decoder) Height() int {
	return d.height
}

// PixelFormat returns the pixel format of decoded frames.
func (d *Decoder) PixelFormat() ports.PixelFormat {
	return ports.PixelFormatYUV420P
}

// SendPacket submits one length-prefixed sample. Samples before the first keyframe are
// dropped since they cannot be decoded.
func (d *Decoder) SendPacket(pkt ports.Packet) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.eof {
		return ErrPacketAfterEOF
	}
	if len(pkt.Data) == 0 {
		return fmt.Errorf("%w: empty packet", ErrDecodeFailed)
	}

	annexB := avccToAnnexB(pkt.Data)
	if len(annexB) == 0 {
		return fmt.Errorf("%w: malformed sample of %d bytes", ErrDecodeFailed, len(pkt.Data))
	}

	if !d.sawKeyframe {
		if !pkt.Keyframe {
			return nil
		}
		d.sawKeyframe = true
	}

	if pkt.Keyframe {
		d.stream.Write(d.extraData)
	}
	d.stream.Write(annexB)
	d.pts = append(d.pts, pkt.PTS)
	d.pending = true
	return nil
}

// SendEOF signals that no more packets follow. Frames still held back can
// then be received.
func (d *Decoder) SendEOF() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if !d.eof {
		d.eof = true
		d.pending = d.stream.Len() > 0
	}
	return nil
}

// ReceiveFrame returns the next decoded frame. It returns
// ports.ErrFrameNotReady when more packets are needed and
// ports.ErrEndOfStream once all frames have been returned after SendEOF.
// A stream that never produced a frame ends with ports.ErrEndOfStream even
// when ffmpeg rejected it.
func (d *Decoder) ReceiveFrame(ctx context.Context) (*ports.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if d.delivered < len(d.frames) {
		return d.nextFrame(), nil
	}

	if d.pending {
		d.pending = false
		d.decode(ctx)
		if err := ctx.Err(); err != nil {
			d.pending = true
			return nil, err
		}
		if d.delivered < len(d.frames) {
			return d.nextFrame(), nil
		}
	}

	if d.eof {
		if d.lastErr != nil && len(d.frames) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, d.lastErr)
		}
		return nil, ports.ErrEndOfStream
	}
	return nil, ports.ErrFrameNotReady
}

// decode runs ffmpeg over the whole accumulated stream. Frames that were
// already delivered are decoded again and skipped.
func (d *Decoder) decode(ctx context.Context) {
	frameSize := d.frameSize()
	maxFrames := d.delivered + 1
	raw, err := runFFmpeg(ctx, d.ffmpegPath, d.format, d.stream.Bytes(), maxFrames)

	// Invalid data is expected while the stream is still incomplete
	d.lastErr = err

	count := len(raw) / frameSize
	if count == maxFrames {
		// More frames may follow from data already buffered
		d.pending = true
	}
	if count <= len(d.frames) {
		return
	}

	for i := len(d.frames); i < count; i++ {
		d.frames = append(d.frames, raw[i*frameSize:(i+1)*frameSize])
	}
	d.lastErr = nil
}

func (d *Decoder) chromaSize() (int, int) {
	return (d.width + 1) / 2, (d.height + 1) / 2
}

func (d *Decoder) frameSize() int {
	cw, ch := d.chromaSize()
	return d.width*d.height + 2*cw*ch
}

func (d *Decoder) nextFrame() *ports.Frame {
	raw := d.frames[d.delivered]
	d.delivered++

	ySize := d.width * d.height
	cw, ch := d.chromaSize()
	cSize := cw * ch

	return &ports.Frame{
		Width:  d.width,
		Height: d.height,
		Format: ports.PixelFormatYUV420P,
		Planes: [][]byte{
			raw[:ySize],
			raw[ySize : ySize+cSize],
			raw[ySize+cSize : ySize+2*cSize],
		},
		Strides: []int{d.width, cw, cw},
		PTS:     d.presentationTime(d.delivered - 1),
	}
}

// presentationTime returns the n-th smallest submitted timestamp; frames
// leave the decoder in presentation order.
func (d *Decoder) presentationTime(n int) int64 {
	if n >= len(d.pts) {
		return 0
	}
	sorted := append([]int64(nil), d.pts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[n]
}

// Close releases decoder resources.
func (d *Decoder) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	d.stream.Reset()
	d.frames = nil
}

// Ensure Decoder implements ports.VideoDecoder
var _ ports.VideoDecoder = (*Decoder)(nil)

package ports

import (
	"context"
	"errors"
)

var (
	// ErrFrameNotReady is returned by ReceiveFrame when more packets are
	// needed before a frame can be produced. It is not a failure.
	ErrFrameNotReady = errors.New("decoder: frame not ready")

	// ErrEndOfStream is returned by ReceiveFrame once the decoder has been
	// flushed and every buffered frame has been returned.
	ErrEndOfStream = errors.New("decoder: end of stream")
)

// VideoDecoder turns compressed packets of one stream into raw frames.
type VideoDecoder interface {
	// Width returns the width of frames the decoder produces.
	Width() int

	// Height returns the height of frames the decoder produces.
	Height() int

	// PixelFormat returns the pixel format of frames the decoder produces.
	PixelFormat() PixelFormat

	// SendPacket submits one compressed packet.
	SendPacket(pkt Packet) error

	// SendEOF signals that no more packets follow, so that buffered frames
	// can be drained.
	SendEOF() error

	// ReceiveFrame returns the next decoded frame, ErrFrameNotReady or
	// ErrEndOfStream. Decoding stops early when ctx is cancelled.
	ReceiveFrame(ctx context.Context) (*Frame, error)

	// Close releases decoder resources.
	Close()
}

// DecoderFactory constructs decoders from stream codec parameters.
type DecoderFactory interface {
	NewDecoder(params CodecParameters) (VideoDecoder, error)
}

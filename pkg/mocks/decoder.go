package mocks

import (
	"bytes"
	"context"
	"sync"

	"github.com/user/framegrab/pkg/ports"
)

// VideoDecoder is a mock implementation of ports.VideoDecoder.
// By default it produces one grey yuv420p frame once FrameAfter packets
// were sent, or after SendEOF when FrameOnEOF is set.
type VideoDecoder struct {
	mu sync.Mutex

	W      int
	H      int
	Format ports.PixelFormat

	FrameAfter int
	FrameOnEOF bool

	SendPacketFunc   func(pkt ports.Packet) error
	ReceiveFrameFunc func() (*ports.Frame, error)

	Sent      []ports.Packet
	EOFSent   bool
	Receives  int
	Delivered int
	Closed    bool
}

func (m *VideoDecoder) Width() int  { return m.W }
func (m *VideoDecoder) Height() int { return m.H }

func (m *VideoDecoder) PixelFormat() ports.PixelFormat {
	if m.Format == ports.PixelFormatNone {
		return ports.PixelFormatYUV420P
	}
	return m.Format
}

func (m *VideoDecoder) SendPacket(pkt ports.Packet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, pkt)
	if m.SendPacketFunc != nil {
		return m.SendPacketFunc(pkt)
	}
	return nil
}

func (m *VideoDecoder) SendEOF() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EOFSent = true
	return nil
}

func (m *VideoDecoder) ReceiveFrame(ctx context.Context) (*ports.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Receives++

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.ReceiveFrameFunc != nil {
		return m.ReceiveFrameFunc()
	}

	ready := (m.FrameAfter > 0 && len(m.Sent) >= m.FrameAfter) || (m.EOFSent && m.FrameOnEOF)
	if ready && m.Delivered == 0 {
		m.Delivered++
		return GreyFrame(m.W, m.H), nil
	}
	if m.EOFSent {
		return nil, ports.ErrEndOfStream
	}
	return nil, ports.ErrFrameNotReady
}

func (m *VideoDecoder) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}

var _ ports.VideoDecoder = (*VideoDecoder)(nil)

// DecoderFactory is a mock implementation of ports.DecoderFactory.
type DecoderFactory struct {
	mu sync.Mutex

	Decoder        *VideoDecoder
	NewDecoderFunc func(params ports.CodecParameters) (ports.VideoDecoder, error)

	Params []ports.CodecParameters
}

func (m *DecoderFactory) NewDecoder(params ports.CodecParameters) (ports.VideoDecoder, error) {
	m.mu.Lock()
	m.Params = append(m.Params, params)
	m.mu.Unlock()

	if m.NewDecoderFunc != nil {
		return m.NewDecoderFunc(params)
	}
	if m.Decoder == nil {
		m.Decoder = &VideoDecoder{W: params.Width, H: params.Height, FrameAfter: 1}
	}
	return m.Decoder, nil
}

var _ ports.DecoderFactory = (*DecoderFactory)(nil)

// GreyFrame returns a mid-grey yuv420p frame.
func GreyFrame(width, height int) *ports.Frame {
	cw, ch := (width+1)/2, (height+1)/2
	return &ports.Frame{
		Width:  width,
		Height: height,
		Format: ports.PixelFormatYUV420P,
		Planes: [][]byte{
			bytes.Repeat([]byte{126}, width*height),
			bytes.Repeat([]byte{128}, cw*ch),
			bytes.Repeat([]byte{128}, cw*ch),
		},
		Strides: []int{width, cw, cw},
	}
}

package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/user/framegrab/pkg/ports"
)

// Container is a mock implementation of ports.Container that replays a
// fixed packet list.
type Container struct {
	mu sync.Mutex

	Format      string
	DurationUs  int64
	Tags        ports.Metadata
	StreamList  []ports.Stream
	Chapters    int
	Packets     []ports.Packet
	ReadErrorAt int   // Return ReadError instead of the packet at this position (1-based)
	ReadError   error // Used with ReadErrorAt

	ReadPacketFunc func() (ports.Packet, error)
	CloseFunc      func() error

	next   int
	Reads  int
	Closed bool
}

func (m *Container) FormatName() string       { return m.Format }
func (m *Container) Duration() int64          { return m.DurationUs }
func (m *Container) Metadata() ports.Metadata { return m.Tags }
func (m *Container) Streams() []ports.Stream  { return m.StreamList }
func (m *Container) NumChapters() int         { return m.Chapters }

func (m *Container) ReadPacket() (ports.Packet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++

	if m.ReadPacketFunc != nil {
		return m.ReadPacketFunc()
	}
	if m.ReadErrorAt > 0 && m.Reads == m.ReadErrorAt {
		return ports.Packet{}, m.ReadError
	}
	if m.next >= len(m.Packets) {
		return ports.Packet{}, io.EOF
	}
	pkt := m.Packets[m.next]
	m.next++
	return pkt, nil
}

func (m *Container) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.Container = (*Container)(nil)

// ContainerOpener is a mock implementation of ports.ContainerOpener.
type ContainerOpener struct {
	mu sync.Mutex

	Container *Container
	OpenFunc  func(ctx context.Context, path string) (ports.Container, error)

	OpenedPaths []string
}

func (m *ContainerOpener) Open(ctx context.Context, path string) (ports.Container, error) {
	m.mu.Lock()
	m.OpenedPaths = append(m.OpenedPaths, path)
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, path)
	}
	if m.Container == nil {
		m.Container = &Container{}
	}
	return m.Container, nil
}

var _ ports.ContainerOpener = (*ContainerOpener)(nil)

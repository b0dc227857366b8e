package mocks

import (
	"image"
	"sync"

	"github.com/user/framegrab/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	ProbeJSON    []byte
	DecodedFrame image.Image
	ScaledFrame  image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{enabled: enabled}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveProbeJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProbeJSON = data
	return nil
}

func (m *DebugSink) SaveDecodedFrame(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DecodedFrame = img
	return nil
}

func (m *DebugSink) SaveScaledFrame(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScaledFrame = img
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                          { return false }
func (m *NullSink) SaveProbeJSON(data []byte) error        { return nil }
func (m *NullSink) SaveDecodedFrame(img image.Image) error { return nil }
func (m *NullSink) SaveScaledFrame(img image.Image) error  { return nil }

var _ ports.DebugSink = (*NullSink)(nil)

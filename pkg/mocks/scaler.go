package mocks

import (
	"sync"

	"github.com/user/framegrab/pkg/ports"
)

// Scaler is a mock implementation of ports.Scaler. By default it returns
// an opaque black RGBA frame of the configured destination size.
type Scaler struct {
	mu sync.Mutex

	Config  ports.ScalerConfig
	RunFunc func(src *ports.Frame) (*ports.Frame, error)

	Inputs []*ports.Frame
}

func (m *Scaler) Run(src *ports.Frame) (*ports.Frame, error) {
	m.mu.Lock()
	m.Inputs = append(m.Inputs, src)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(src)
	}

	w, h := m.Config.DstWidth, m.Config.DstHeight
	pix := make([]byte, w*h*4)
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}
	return &ports.Frame{
		Width:   w,
		Height:  h,
		Format:  ports.PixelFormatRGBA,
		Planes:  [][]byte{pix},
		Strides: []int{w * 4},
		PTS:     src.PTS,
	}, nil
}

var _ ports.Scaler = (*Scaler)(nil)

// ScalerFactory is a mock implementation of ports.ScalerFactory.
type ScalerFactory struct {
	mu sync.Mutex

	NewScalerFunc func(cfg ports.ScalerConfig) (ports.Scaler, error)

	Configs []ports.ScalerConfig
	Scalers []*Scaler
}

func (m *ScalerFactory) NewScaler(cfg ports.ScalerConfig) (ports.Scaler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Configs = append(m.Configs, cfg)

	if m.NewScalerFunc != nil {
		return m.NewScalerFunc(cfg)
	}
	s := &Scaler{Config: cfg}
	m.Scalers = append(m.Scalers, s)
	return s, nil
}

var _ ports.ScalerFactory = (*ScalerFactory)(nil)

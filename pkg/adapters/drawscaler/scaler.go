// Package drawscaler converts decoded frames to RGBA and resamples them with
// golang.org/x/image/draw.
package drawscaler

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/user/framegrab/pkg/ports"
)

var (
	// ErrUnsupportedConversion is returned for pixel formats the scaler
	// cannot read or write.
	ErrUnsupportedConversion = errors.New("drawscaler: unsupported conversion")

	// ErrInvalidDimensions is returned for non-positive frame sizes.
	ErrInvalidDimensions = errors.New("drawscaler: invalid dimensions")

	// ErrFrameMismatch is returned when a frame does not match the
	// configuration the scaler was built for.
	ErrFrameMismatch = errors.New("drawscaler: frame does not match scaler configuration")
)

// Factory implements ports.ScalerFactory.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewScaler creates a scaler for cfg.
func (f *Factory) NewScaler(cfg ports.ScalerConfig) (ports.Scaler, error) {
	return New(cfg)
}

// Scaler converts and resamples frames of one fixed shape.
type Scaler struct {
	cfg    ports.ScalerConfig
	interp draw.Interpolator
}

// New validates cfg and creates a scaler.
func New(cfg ports.ScalerConfig) (*Scaler, error) {
	if !isSupportedSource(cfg.SrcFormat) {
		return nil, fmt.Errorf("%w: source format %s", ErrUnsupportedConversion, cfg.SrcFormat)
	}
	if cfg.DstFormat != ports.PixelFormatRGBA {
		return nil, fmt.Errorf("%w: destination format %s", ErrUnsupportedConversion, cfg.DstFormat)
	}
	if cfg.SrcWidth <= 0 || cfg.SrcHeight <= 0 {
		return nil, fmt.Errorf("%w: source %dx%d", ErrInvalidDimensions, cfg.SrcWidth, cfg.SrcHeight)
	}
	if cfg.DstWidth <= 0 || cfg.DstHeight <= 0 {
		return nil, fmt.Errorf("%w: destination %dx%d", ErrInvalidDimensions, cfg.DstWidth, cfg.DstHeight)
	}

	return &Scaler{
		cfg:    cfg,
		interp: interpolator(cfg.Algorithm),
	}, nil
}

// Config returns the configuration of the scaler.
func (s *Scaler) Config() ports.ScalerConfig {
	return s.cfg
}

// Run converts src to RGBA at the destination size.
func (s *Scaler) Run(src *ports.Frame) (*ports.Frame, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil frame", ErrFrameMismatch)
	}
	if src.Format != s.cfg.SrcFormat {
		return nil, fmt.Errorf("%w: format %s, expected %s", ErrFrameMismatch, src.Format, s.cfg.SrcFormat)
	}
	if src.Width != s.cfg.SrcWidth || src.Height != s.cfg.SrcHeight {
		return nil, fmt.Errorf("%w: size %dx%d, expected %dx%d",
			ErrFrameMismatch, src.Width, src.Height, s.cfg.SrcWidth, s.cfg.SrcHeight)
	}

	rgba, err := toRGBA(src)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, s.cfg.DstWidth, s.cfg.DstHeight))
	s.interp.Scale(dst, dst.Bounds(), rgba, rgba.Bounds(), draw.Src, nil)

	return &ports.Frame{
		Width:   s.cfg.DstWidth,
		Height:  s.cfg.DstHeight,
		Format:  ports.PixelFormatRGBA,
		Planes:  [][]byte{dst.Pix},
		Strides: []int{dst.Stride},
		PTS:     src.PTS,
	}, nil
}

// FrameImage exposes a frame as an image.Image. RGBA frames share their
// pixel buffer; other formats are converted.
func FrameImage(frame *ports.Frame) (image.Image, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: nil frame", ErrFrameMismatch)
	}
	if !isSupportedSource(frame.Format) {
		return nil, fmt.Errorf("%w: format %s", ErrUnsupportedConversion, frame.Format)
	}
	return toRGBA(frame)
}

func interpolator(alg ports.ScaleAlgorithm) draw.Interpolator {
	switch alg {
	case ports.ScaleNearest:
		return draw.NearestNeighbor
	case ports.ScaleApproxBilinear:
		return draw.ApproxBiLinear
	case ports.ScaleCatmullRom:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

func isSupportedSource(format ports.PixelFormat) bool {
	switch format {
	case ports.PixelFormatYUV420P, ports.PixelFormatYUV422P, ports.PixelFormatYUV444P,
		ports.PixelFormatGray, ports.PixelFormatRGBA:
		return true
	default:
		return false
	}
}

// Ensure Scaler implements ports.Scaler
var _ ports.Scaler = (*Scaler)(nil)

// Ensure Factory implements ports.ScalerFactory
var _ ports.ScalerFactory = (*Factory)(nil)

package ports

// ScaleAlgorithm selects the resampling kernel.
type ScaleAlgorithm int

const (
	ScaleBilinear ScaleAlgorithm = iota
	ScaleNearest
	ScaleApproxBilinear
	ScaleCatmullRom
)

// String returns the string representation of the algorithm.
func (a ScaleAlgorithm) String() string {
	switch a {
	case ScaleBilinear:
		return "bilinear"
	case ScaleNearest:
		return "nearest"
	case ScaleApproxBilinear:
		return "approx-bilinear"
	case ScaleCatmullRom:
		return "catmull-rom"
	default:
		return "unknown"
	}
}

// ParseScaleAlgorithm parses an algorithm name. Unknown names map to bilinear.
func ParseScaleAlgorithm(s string) ScaleAlgorithm {
	switch s {
	case "nearest":
		return ScaleNearest
	case "approx-bilinear":
		return ScaleApproxBilinear
	case "catmull-rom":
		return ScaleCatmullRom
	default:
		return ScaleBilinear
	}
}

// ScalerConfig fixes the source and destination geometry of a scaler.
type ScalerConfig struct {
	SrcFormat PixelFormat
	SrcWidth  int
	SrcHeight int
	DstFormat PixelFormat
	DstWidth  int
	DstHeight int
	Algorithm ScaleAlgorithm
}

// Scaler converts pixel format and resamples in one call.
type Scaler interface {
	// Run converts src and returns a newly allocated destination frame.
	Run(src *Frame) (*Frame, error)
}

// ScalerFactory constructs scalers.
type ScalerFactory interface {
	NewScaler(cfg ScalerConfig) (Scaler, error)
}

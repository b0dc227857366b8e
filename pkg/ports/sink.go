package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveProbeJSON saves the container inspection result as JSON.
	SaveProbeJSON(data []byte) error

	// SaveDecodedFrame saves the first decoded frame at source resolution.
	SaveDecodedFrame(img image.Image) error

	// SaveScaledFrame saves the frame after scaling and conversion.
	SaveScaledFrame(img image.Image) error
}

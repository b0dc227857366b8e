package pipeline

import (
	"github.com/user/framegrab/pkg/ports"
)

// =============================================================================
// Inspect Stage Types
// =============================================================================

// InspectInput contains the opened container to describe.
type InspectInput struct {
	Path      string
	Container ports.Container
}

// ProbeTag is one metadata key/value pair.
type ProbeTag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProbeStream describes one stream of the container.
type ProbeStream struct {
	Index        int        `json:"index"`
	Type         string     `json:"type"`
	Codec        string     `json:"codec"`
	TimeBase     string     `json:"time_base"`
	AvgFrameRate string     `json:"avg_frame_rate"`
	Rate         string     `json:"rate"`
	BitRate      int64      `json:"bit_rate"`
	Width        int        `json:"width,omitempty"`
	Height       int        `json:"height,omitempty"`
	SampleRate   int        `json:"sample_rate,omitempty"`
	Channels     int        `json:"channels,omitempty"`
	Frames       int        `json:"frames"`
	Default      bool       `json:"default"`
	Metadata     []ProbeTag `json:"metadata,omitempty"`
}

// Probe is the inspection result of a container.
type Probe struct {
	Path        string        `json:"path"`
	Format      string        `json:"format"`
	DurationMs  int64         `json:"duration_ms"`
	NumStreams  int           `json:"num_streams"`
	NumChapters int           `json:"num_chapters"`
	Metadata    []ProbeTag    `json:"metadata,omitempty"`
	Streams     []ProbeStream `json:"streams"`
}

// InspectResult contains the inspection result.
type InspectResult struct {
	Probe Probe
}

// =============================================================================
// Selection Stage Types
// =============================================================================

// SelectInput contains the candidate streams.
type SelectInput struct {
	Streams []ports.Stream
	Kind    ports.MediaType
}

// SelectResult contains the chosen stream. Its index is the only stream
// index whose packets reach the decoder.
type SelectResult struct {
	Stream ports.Stream
}

// =============================================================================
// Extract Stage Types
// =============================================================================

// ExtractInput contains everything needed to pull the first frame.
type ExtractInput struct {
	Container   ports.Container
	Decoder     ports.VideoDecoder
	Scaler      ports.Scaler
	StreamIndex int

	// Flush sends end-of-stream to the decoder when input runs out before a
	// frame was produced.
	Flush bool
}

// ExtractResult contains the first decoded frame, if any.
type ExtractResult struct {
	// Found is false when input ended without a decoded frame.
	Found bool

	Decoded *ports.Frame // Source resolution, decoder pixel format
	Scaled  *ports.Frame // Destination resolution, RGBA

	PacketsRead      int
	PacketsSubmitted int
	Flushed          bool // Frame came out of the decoder after end-of-stream
}

// =============================================================================
// Export Stage Types
// =============================================================================

// DefaultOutputName is the file name of the thumbnail.
const DefaultOutputName = "output.jpg"

// ExportInput contains the scaled frame and its destination.
type ExportInput struct {
	Frame      *ports.Frame
	OutputDir  string
	OutputName string // Default: output.jpg
	Quality    int    // JPEG quality 1-100, 0 for default
}

// ExportResult describes the written file.
type ExportResult struct {
	Path   string
	Width  int
	Height int
}

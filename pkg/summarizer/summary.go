// Package summarizer provides summary generation for framegrab runs.
package summarizer

import "time"

// Summary contains all data collected during one run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Input container
	Input InputInfo

	// Selected video stream
	Stream StreamInfo

	// Packet loop results
	Decode DecodeInfo

	// Run configuration
	Settings Settings

	// Thumbnail details
	Output OutputInfo
}

// InputInfo describes the input file.
type InputInfo struct {
	Path        string
	Format      string
	DurationMs  int64
	NumStreams  int
	NumChapters int
}

// StreamInfo describes the selected stream.
type StreamInfo struct {
	Index  int
	Codec  string
	Width  int
	Height int
}

// DecodeInfo contains packet loop counters.
type DecodeInfo struct {
	PacketsRead      int
	PacketsSubmitted int
	Found            bool
	Flushed          bool
}

// Settings contains the run configuration.
type Settings struct {
	Algorithm string
	Quality   int
	Flush     bool
	Backend   string
}

// OutputInfo contains information about the written thumbnail.
type OutputInfo struct {
	Path     string
	Width    int
	Height   int
	FileSize int64
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets input information.
func (b *Builder) WithInput(input InputInfo) *Builder {
	b.summary.Input = input
	return b
}

// WithStream sets the selected stream.
func (b *Builder) WithStream(index int, codec string, width, height int) *Builder {
	b.summary.Stream = StreamInfo{
		Index:  index,
		Codec:  codec,
		Width:  width,
		Height: height,
	}
	return b
}

// WithDecode sets packet loop counters.
func (b *Builder) WithDecode(read, submitted int, found, flushed bool) *Builder {
	b.summary.Decode = DecodeInfo{
		PacketsRead:      read,
		PacketsSubmitted: submitted,
		Found:            found,
		Flushed:          flushed,
	}
	return b
}

// WithSettings sets run settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithOutput sets thumbnail information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	InputPath string

	// Output
	OutputDir  string
	OutputName string
	Quality    int

	// Scaling
	Algorithm ports.ScaleAlgorithm

	// Flush sends end-of-stream to the decoder when input runs out before a
	// frame was decoded.
	Flush bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		OutputName: pipeline.DefaultOutputName,
		Quality:    75,
		Algorithm:  ports.ScaleBilinear,
	}
}

// State is a step of the top-level run.
type State int

const (
	StateStart State = iota
	StateMetadataPrinted
	StateStreamSelected
	StateDecoderReady
	StateScalerReady
	StateReading
	StateScaled
	StateEncoded
	StateDone
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateMetadataPrinted:
		return "metadata-printed"
	case StateStreamSelected:
		return "stream-selected"
	case StateDecoderReady:
		return "decoder-ready"
	case StateScalerReady:
		return "scaler-ready"
	case StateReading:
		return "reading"
	case StateScaled:
		return "scaled"
	case StateEncoded:
		return "encoded"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	opener       ports.ContainerOpener
	decoders     ports.DecoderFactory
	scalers      ports.ScalerFactory
	inspectStage pipeline.Stage[pipeline.InspectInput, pipeline.InspectResult]
	selectStage  pipeline.Stage[pipeline.SelectInput, pipeline.SelectResult]
	extractStage pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult]
	exportStage  pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult]
	logger       ports.Logger
}

// New creates a new Orchestrator.
func New(
	opener ports.ContainerOpener,
	decoders ports.DecoderFactory,
	scalers ports.ScalerFactory,
	inspectStage pipeline.Stage[pipeline.InspectInput, pipeline.InspectResult],
	selectStage pipeline.Stage[pipeline.SelectInput, pipeline.SelectResult],
	extractStage pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult],
	exportStage pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult],
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		opener:       opener,
		decoders:     decoders,
		scalers:      scalers,
		inspectStage: inspectStage,
		selectStage:  selectStage,
		extractStage: extractStage,
		exportStage:  exportStage,
		logger:       logger,
	}
}

// Run executes the complete pipeline. The returned result records how far
// the run got, also when an error is returned.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	result := RunResult{
		State:     StateStart,
		InputPath: config.InputPath,
	}
	o.logger.Info("Starting pipeline")

	// 1. Open input and print metadata
	container, err := o.opener.Open(ctx, config.InputPath)
	if err != nil {
		o.logger.Error("Failed to open input: %s", err.Error())
		return result, fmt.Errorf("open input: %w", err)
	}
	defer container.Close()

	inspected, err := o.inspectStage.Execute(ctx, pipeline.InspectInput{
		Path:      config.InputPath,
		Container: container,
	})
	if err != nil {
		o.logger.Error("Failed to print metadata: %s", err.Error())
		return result, fmt.Errorf("inspect input: %w", err)
	}
	result.Probe = inspected.Probe
	result.State = StateMetadataPrinted
	o.logger.Info("Opened %s: %s, %d streams", config.InputPath, inspected.Probe.Format, inspected.Probe.NumStreams)

	// 2. Select the video stream
	selected, err := o.selectStage.Execute(ctx, pipeline.SelectInput{
		Streams: container.Streams(),
		Kind:    ports.MediaVideo,
	})
	if err != nil {
		o.logger.Error("Failed to select stream: %s", err.Error())
		return result, fmt.Errorf("select stream: %w", err)
	}
	stream := selected.Stream
	result.StreamIndex = stream.Index
	result.Codec = stream.Params.Codec
	result.State = StateStreamSelected
	o.logger.Info("Selected stream #%d (%s)", stream.Index, stream.Params.Codec)

	// 3. Decoder
	decoder, err := o.decoders.NewDecoder(stream.Params)
	if err != nil {
		o.logger.Error("Failed to create decoder: %s", err.Error())
		return result, fmt.Errorf("create decoder: %w", err)
	}
	defer decoder.Close()
	result.SourceWidth = decoder.Width()
	result.SourceHeight = decoder.Height()
	result.State = StateDecoderReady

	// 4. Scaler
	scaler, err := o.scalers.NewScaler(o.buildScalerConfig(config, decoder))
	if err != nil {
		o.logger.Error("Failed to create scaler: %s", err.Error())
		return result, fmt.Errorf("create scaler: %w", err)
	}
	result.State = StateScalerReady

	// 5. Packet loop
	result.State = StateReading
	o.logger.Info("Decoding first frame of %dx%d %s stream", decoder.Width(), decoder.Height(), decoder.PixelFormat())
	extracted, err := o.extractStage.Execute(ctx, pipeline.ExtractInput{
		Container:   container,
		Decoder:     decoder,
		Scaler:      scaler,
		StreamIndex: stream.Index,
		Flush:       config.Flush,
	})
	result.PacketsRead = extracted.PacketsRead
	result.PacketsSubmitted = extracted.PacketsSubmitted
	if err != nil {
		o.logger.Error("Failed to extract frame: %s", err.Error())
		return result, fmt.Errorf("extract frame: %w", err)
	}

	if !extracted.Found {
		o.logger.Warn("No frame decoded after %d packets, nothing written", extracted.PacketsRead)
		result.State = StateDone
		return result, nil
	}
	result.Found = true
	result.Flushed = extracted.Flushed
	result.OutputWidth = extracted.Scaled.Width
	result.OutputHeight = extracted.Scaled.Height
	result.State = StateScaled

	// 6. Write the thumbnail
	exported, err := o.exportStage.Execute(ctx, pipeline.ExportInput{
		Frame:      extracted.Scaled,
		OutputDir:  config.OutputDir,
		OutputName: config.OutputName,
		Quality:    config.Quality,
	})
	if err != nil {
		o.logger.Error("Failed to write output: %s", err.Error())
		return result, fmt.Errorf("export image: %w", err)
	}
	result.OutputPath = exported.Path
	result.State = StateEncoded
	o.logger.Info("Output saved to %s", exported.Path)

	result.State = StateDone
	o.logger.Info("Pipeline completed successfully")
	return result, nil
}

func (o *Orchestrator) buildScalerConfig(config Config, decoder ports.VideoDecoder) ports.ScalerConfig {
	return ports.ScalerConfig{
		SrcFormat: decoder.PixelFormat(),
		SrcWidth:  decoder.Width(),
		SrcHeight: decoder.Height(),
		DstFormat: ports.PixelFormatRGBA,
		DstWidth:  decoder.Width() / 2,
		DstHeight: decoder.Height() / 2,
		Algorithm: config.Algorithm,
	}
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	State State

	// Input information
	InputPath string
	Probe     pipeline.Probe

	// Selected stream
	StreamIndex  int
	Codec        ports.CodecID
	SourceWidth  int
	SourceHeight int

	// Packet loop
	PacketsRead      int
	PacketsSubmitted int
	Found            bool // False when input ended without a decoded frame
	Flushed          bool

	// Output information
	OutputPath   string
	OutputWidth  int
	OutputHeight int
}

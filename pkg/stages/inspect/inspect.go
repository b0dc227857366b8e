// Package inspect implements the container inspection stage.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// Stage describes a container and prints the report to a writer.
type Stage struct {
	out    io.Writer
	sink   ports.DebugSink
	logger ports.Logger
}

// NewStage creates a new inspect stage. The report is written to out.
func NewStage(out io.Writer, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		out:    out,
		sink:   sink,
		logger: logger.WithComponent("inspect"),
	}
}

// Execute builds the probe, prints it and saves it to the debug sink.
func (s *Stage) Execute(ctx context.Context, input pipeline.InspectInput) (pipeline.InspectResult, error) {
	result := pipeline.InspectResult{}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	probe := BuildProbe(input.Path, input.Container)
	s.logger.Debug("Container %s: %d streams, %d chapters", probe.Format, probe.NumStreams, probe.NumChapters)

	if err := WriteReport(s.out, probe); err != nil {
		return result, fmt.Errorf("print metadata: %w", err)
	}

	if s.sink.Enabled() {
		data, err := json.MarshalIndent(probe, "", "  ")
		if err == nil {
			err = s.sink.SaveProbeJSON(data)
		}
		if err != nil {
			s.logger.Warn("Failed to save debug output: %s", err.Error())
		}
	}

	result.Probe = probe
	return result, nil
}

// BuildProbe collects the metadata of an opened container.
func BuildProbe(path string, c ports.Container) pipeline.Probe {
	streams := c.Streams()

	probe := pipeline.Probe{
		Path:        path,
		Format:      c.FormatName(),
		DurationMs:  c.Duration() / 1000,
		NumStreams:  len(streams),
		NumChapters: c.NumChapters(),
		Metadata:    tags(c.Metadata()),
		Streams:     make([]pipeline.ProbeStream, 0, len(streams)),
	}

	for _, st := range streams {
		probe.Streams = append(probe.Streams, pipeline.ProbeStream{
			Index:        st.Index,
			Type:         st.Kind().String(),
			Codec:        string(st.Params.Codec),
			TimeBase:     st.TimeBase.String(),
			AvgFrameRate: st.AvgFrameRate.String(),
			Rate:         st.Rate().String(),
			BitRate:      st.BitRate(),
			Width:        st.Params.Width,
			Height:       st.Params.Height,
			SampleRate:   st.Params.SampleRate,
			Channels:     st.Params.Channels,
			Frames:       st.FrameCount,
			Default:      st.Default,
			Metadata:     tags(st.Metadata),
		})
	}

	return probe
}

func tags(md ports.Metadata) []pipeline.ProbeTag {
	if len(md) == 0 {
		return nil
	}
	out := make([]pipeline.ProbeTag, 0, len(md))
	for _, t := range md {
		out = append(out, pipeline.ProbeTag{Key: t.Key, Value: t.Value})
	}
	return out
}

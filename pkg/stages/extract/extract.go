// Package extract implements the packet loop that pulls the first decoded
// frame of the selected stream and scales it.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/framegrab/pkg/adapters/drawscaler"
	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// Stage feeds packets of one stream to a decoder until a frame comes out.
type Stage struct {
	sink   ports.DebugSink
	logger ports.Logger
}

// NewStage creates a new extract stage.
func NewStage(sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		sink:   sink,
		logger: logger.WithComponent("extract"),
	}
}

// Execute reads packets, submits those of input.StreamIndex and stops at the
// first decoded frame. Running out of input without a frame is not an
// error: the result has Found set to false.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExtractInput) (pipeline.ExtractResult, error) {
	result := pipeline.ExtractResult{}

	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		pkt, err := input.Container.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read packet: %w", err)
		}
		result.PacketsRead++

		if pkt.StreamIndex != input.StreamIndex {
			continue
		}

		if err := input.Decoder.SendPacket(pkt); err != nil {
			return result, fmt.Errorf("send packet %d: %w", result.PacketsRead, err)
		}
		result.PacketsSubmitted++

		frame, err := input.Decoder.ReceiveFrame(ctx)
		if errors.Is(err, ports.ErrFrameNotReady) {
			continue
		}
		if err != nil {
			return result, fmt.Errorf("receive frame: %w", err)
		}

		s.logger.Debug("Decoded first frame after %d packets", result.PacketsSubmitted)
		return s.finish(result, input.Scaler, frame)
	}

	s.logger.Debug("Input exhausted after %d packets", result.PacketsRead)
	if !input.Flush {
		return result, nil
	}

	s.logger.Debug("Flushing decoder")
	if err := input.Decoder.SendEOF(); err != nil {
		return result, fmt.Errorf("flush decoder: %w", err)
	}

	frame, err := input.Decoder.ReceiveFrame(ctx)
	if errors.Is(err, ports.ErrEndOfStream) || errors.Is(err, ports.ErrFrameNotReady) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("receive frame: %w", err)
	}

	result.Flushed = true
	return s.finish(result, input.Scaler, frame)
}

func (s *Stage) finish(result pipeline.ExtractResult, scaler ports.Scaler, frame *ports.Frame) (pipeline.ExtractResult, error) {
	scaled, err := scaler.Run(frame)
	if err != nil {
		return result, fmt.Errorf("scale frame: %w", err)
	}

	result.Found = true
	result.Decoded = frame
	result.Scaled = scaled

	if s.sink.Enabled() {
		s.saveDebug(frame, scaled)
	}

	return result, nil
}

func (s *Stage) saveDebug(decoded, scaled *ports.Frame) {
	if img, err := drawscaler.FrameImage(decoded); err != nil {
		s.logger.Warn("Failed to save debug output: %s", err.Error())
	} else if err := s.sink.SaveDecodedFrame(img); err != nil {
		s.logger.Warn("Failed to save debug output: %s", err.Error())
	}

	if img, err := drawscaler.FrameImage(scaled); err != nil {
		s.logger.Warn("Failed to save debug output: %s", err.Error())
	} else if err := s.sink.SaveScaledFrame(img); err != nil {
		s.logger.Warn("Failed to save debug output: %s", err.Error())
	}
}

// Package selection implements the best-stream selection stage.
package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// ErrStreamNotFound is returned when no stream of the requested kind exists.
var ErrStreamNotFound = errors.New("selection: stream not found")

// Stage picks the best stream of a media kind.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new selection stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("selection"),
	}
}

// Execute selects the best stream of input.Kind.
func (s *Stage) Execute(ctx context.Context, input pipeline.SelectInput) (pipeline.SelectResult, error) {
	result := pipeline.SelectResult{}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	stream, err := Best(input.Streams, input.Kind)
	if err != nil {
		return result, err
	}

	s.logger.Debug("Best %s stream: #%d", input.Kind, stream.Index)
	result.Stream = stream
	return result, nil
}

// Best returns the best stream of the given kind. Streams are ranked by
// default disposition, then pixel area (video) or channel count (audio),
// then frame count, then bit rate. Ties keep the earlier stream. Cover art
// (a single frame without duration) is chosen only when nothing else exists.
func Best(streams []ports.Stream, kind ports.MediaType) (ports.Stream, error) {
	var best ports.Stream
	var bestScore score
	found := false

	for _, st := range streams {
		if st.Kind() != kind {
			continue
		}
		sc := scoreOf(st)
		if !found || sc.better(bestScore) {
			best, bestScore, found = st, sc, true
		}
	}

	if !found {
		return ports.Stream{}, fmt.Errorf("%w: no %s stream", ErrStreamNotFound, kind)
	}
	return best, nil
}

type score struct {
	real    bool
	dflt    bool
	size    int64
	frames  int
	bitRate int64
}

func scoreOf(st ports.Stream) score {
	sc := score{
		real:    !isAttachedPicture(st),
		dflt:    st.Default,
		frames:  st.FrameCount,
		bitRate: st.BitRate(),
	}
	switch st.Kind() {
	case ports.MediaVideo:
		sc.size = int64(st.Params.Width) * int64(st.Params.Height)
	case ports.MediaAudio:
		sc.size = int64(st.Params.Channels)
	}
	return sc
}

func isAttachedPicture(st ports.Stream) bool {
	return st.Kind() == ports.MediaVideo && st.FrameCount == 1 && st.Duration == 0
}

// better reports whether a ranks strictly above b.
func (a score) better(b score) bool {
	if a.real != b.real {
		return a.real
	}
	if a.dflt != b.dflt {
		return a.dflt
	}
	if a.size != b.size {
		return a.size > b.size
	}
	if a.frames != b.frames {
		return a.frames > b.frames
	}
	return a.bitRate > b.bitRate
}

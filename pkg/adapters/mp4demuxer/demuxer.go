// Package mp4demuxer reads ISO-BMFF (MP4/MOV) containers using mp4ff.
// Both progressive files (moov + sample tables) and fragmented files
// (moof + trun) are supported.
package mp4demuxer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framegrab/pkg/ports"
)

var (
	// ErrUnrecognizedFormat is returned when the input is not an ISO-BMFF file.
	ErrUnrecognizedFormat = errors.New("mp4demuxer: unrecognized container format")

	// ErrClosed is returned when reading from a closed container.
	ErrClosed = errors.New("mp4demuxer: container closed")
)

// Opener implements ports.ContainerOpener for files on disk.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open opens the file at path for demuxing.
func (o *Opener) Open(ctx context.Context, path string) (ports.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path)
}

// Container is an opened MP4 file.
type Container struct {
	reader io.ReadSeeker
	closer io.Closer

	formatName string
	duration   int64
	metadata   ports.Metadata
	streams    []ports.Stream
	chapters   int

	index []packetRef
	next  int

	truncated bool
	closed    bool
}

// packetRef locates one sample. Progressive samples are read lazily from
// offset, fragmented samples are already in memory.
type packetRef struct {
	stream   int
	offset   int64
	size     uint32
	data     []byte
	dts      int64
	pts      int64
	duration int64
	keyframe bool
}

// Open opens the file at path and reads its headers.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	c, err := OpenReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	c.closer = f
	return c, nil
}

// OpenReader reads container headers from reader. The reader must stay
// valid until the container is closed; it is not closed by Close.
func OpenReader(reader io.ReadSeeker) (*Container, error) {
	mp4File, err := decode(reader)
	if err != nil {
		return nil, err
	}

	moov := mp4File.Moov
	if mp4File.IsFragmented() && mp4File.Init != nil && mp4File.Init.Moov != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil {
		return nil, fmt.Errorf("%w: no moov box found", ErrUnrecognizedFormat)
	}

	c := &Container{
		reader:     reader,
		formatName: formatName(mp4File),
		metadata:   containerMetadata(mp4File, moov),
	}

	// Describe tracks
	tracks := make([]*track, 0, len(moov.Traks))
	for i, trak := range moov.Traks {
		tracks = append(tracks, newTrack(i, trak))
	}

	// Build packet index
	if mp4File.IsFragmented() {
		if err := c.indexFragmented(mp4File, moov, tracks); err != nil {
			return nil, err
		}
	} else {
		if err := c.indexProgressive(tracks); err != nil {
			return nil, err
		}
	}

	for _, t := range tracks {
		c.streams = append(c.streams, t.stream())
		if t.isChapterTrack() {
			c.chapters += t.sampleCount
		}
	}
	c.duration = containerDuration(moov, tracks)

	return c, nil
}

// decode parses the box structure. Sample data of progressive files is left
// on disk; fragmented files are decoded fully because their samples are
// addressed relative to each fragment.
func decode(reader io.ReadSeeker) (*mp4.File, error) {
	mp4File, err := mp4.DecodeFile(reader, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err)
	}
	if !mp4File.IsFragmented() {
		return mp4File, nil
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}
	mp4File, err = mp4.DecodeFile(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err)
	}
	return mp4File, nil
}

// FormatName returns the short name of the container format.
func (c *Container) FormatName() string {
	return c.formatName
}

// Duration returns the total duration in microseconds.
func (c *Container) Duration() int64 {
	return c.duration
}

// Metadata returns container-level tags.
func (c *Container) Metadata() ports.Metadata {
	return c.metadata
}

// Streams returns all tracks as streams, in moov order.
func (c *Container) Streams() []ports.Stream {
	return c.streams
}

// NumChapters returns the number of QuickTime chapter entries.
func (c *Container) NumChapters() int {
	return c.chapters
}

// NumPackets returns the total number of packets in the demux index.
func (c *Container) NumPackets() int {
	return len(c.index)
}

// Truncated reports whether reading stopped early because sample data was
// missing from the file.
func (c *Container) Truncated() bool {
	return c.truncated
}

// ReadPacket returns the next packet in demux order, or io.EOF.
// A sample that extends past the end of the file ends the packet sequence.
func (c *Container) ReadPacket() (ports.Packet, error) {
	if c.closed {
		return ports.Packet{}, ErrClosed
	}
	if c.truncated || c.next >= len(c.index) {
		return ports.Packet{}, io.EOF
	}

	ref := c.index[c.next]
	c.next++

	data := ref.data
	if data == nil {
		var err error
		data, err = c.readSample(ref)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			c.truncated = true
			return ports.Packet{}, io.EOF
		}
		if err != nil {
			return ports.Packet{}, err
		}
	}

	return ports.Packet{
		StreamIndex: ref.stream,
		Data:        data,
		PTS:         ref.pts,
		DTS:         ref.dts,
		Duration:    ref.duration,
		Keyframe:    ref.keyframe,
	}, nil
}

func (c *Container) readSample(ref packetRef) ([]byte, error) {
	if _, err := c.reader.Seek(ref.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to sample: %w", err)
	}

	data := make([]byte, ref.size)
	if _, err := io.ReadFull(c.reader, data); err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	return data, nil
}

// Close releases the underlying file.
func (c *Container) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.index = nil
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// Ensure Container implements ports.Container
var _ ports.Container = (*Container)(nil)

// Ensure Opener implements ports.ContainerOpener
var _ ports.ContainerOpener = (*Opener)(nil)

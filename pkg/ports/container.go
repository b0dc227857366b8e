// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// Container abstracts an opened media file.
type Container interface {
	// FormatName returns the short name of the container format.
	FormatName() string

	// Duration returns the total duration in microseconds, 0 if unknown.
	Duration() int64

	// Metadata returns container-level tags.
	Metadata() Metadata

	// Streams returns all elementary streams in index order.
	Streams() []Stream

	// NumChapters returns the number of chapters.
	NumChapters() int

	// ReadPacket returns the next packet in demux order.
	// It returns io.EOF once all packets have been read.
	ReadPacket() (Packet, error)

	// Close releases the underlying file.
	Close() error
}

// ContainerOpener opens media files for demuxing.
type ContainerOpener interface {
	// Open opens the file at path and reads its headers.
	Open(ctx context.Context, path string) (Container, error)
}

package ports

import (
	"fmt"
)

// MediaType identifies the kind of an elementary stream.
type MediaType int

const (
	MediaUnknown MediaType = iota
	MediaVideo
	MediaAudio
	MediaSubtitle
	MediaData
)

// String returns the string representation of the media type.
func (m MediaType) String() string {
	switch m {
	case MediaVideo:
		return "video"
	case MediaAudio:
		return "audio"
	case MediaSubtitle:
		return "subtitle"
	case MediaData:
		return "data"
	default:
		return "unknown"
	}
}

// Rational is a fraction, used for time bases and frame rates.
type Rational struct {
	Num int64
	Den int64
}

// String formats the rational as "num/den".
func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Float64 returns the value of the fraction, or 0 when the denominator is 0.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// IsZero reports whether the rational is unset.
func (r Rational) IsZero() bool {
	return r.Num == 0 || r.Den == 0
}

// Reduce returns the fraction in lowest terms with a positive denominator.
func (r Rational) Reduce() Rational {
	if r.Den == 0 {
		return Rational{}
	}
	if r.Den < 0 {
		r.Num, r.Den = -r.Num, -r.Den
	}
	g := gcd(abs64(r.Num), r.Den)
	if g <= 1 {
		return r
	}
	return Rational{Num: r.Num / g, Den: r.Den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// CodecID identifies a codec independently of the container four-cc.
type CodecID string

const (
	CodecH264    CodecID = "h264"
	CodecHEVC    CodecID = "hevc"
	CodecAV1     CodecID = "av1"
	CodecVP9     CodecID = "vp9"
	CodecAAC     CodecID = "aac"
	CodecOpus    CodecID = "opus"
	CodecMovText CodecID = "mov_text"
	CodecUnknown CodecID = "unknown"
)

// PixelFormat describes the in-memory layout of a raw frame.
type PixelFormat int

const (
	PixelFormatNone PixelFormat = iota
	PixelFormatYUV420P
	PixelFormatYUV422P
	PixelFormatYUV444P
	PixelFormatGray
	PixelFormatRGBA
)

// String returns the ffmpeg name of the pixel format.
func (p PixelFormat) String() string {
	switch p {
	case PixelFormatYUV420P:
		return "yuv420p"
	case PixelFormatYUV422P:
		return "yuv422p"
	case PixelFormatYUV444P:
		return "yuv444p"
	case PixelFormatGray:
		return "gray"
	case PixelFormatRGBA:
		return "rgba"
	default:
		return "none"
	}
}

// ParsePixelFormat parses an ffmpeg pixel format name.
func ParsePixelFormat(s string) PixelFormat {
	switch s {
	case "yuv420p":
		return PixelFormatYUV420P
	case "yuv422p":
		return PixelFormatYUV422P
	case "yuv444p":
		return PixelFormatYUV444P
	case "gray":
		return PixelFormatGray
	case "rgba":
		return PixelFormatRGBA
	default:
		return PixelFormatNone
	}
}

// Tag is a single key/value metadata entry.
type Tag struct {
	Key   string
	Value string
}

// Metadata is an ordered list of tags, in container order.
type Metadata []Tag

// Get returns the value for key and whether it was present.
func (m Metadata) Get(key string) (string, bool) {
	for _, t := range m {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// CodecParameters describes how a stream is encoded.
type CodecParameters struct {
	MediaType MediaType
	Codec     CodecID
	FourCC    string // Sample entry type, e.g. "avc1"
	ExtraData []byte // Parameter sets in Annex B format (H.264 SPS/PPS)

	// Video
	Width       int
	Height      int
	PixelFormat PixelFormat

	// Audio
	SampleRate int
	Channels   int

	BitRate int64 // Average bit rate in bits/sec, 0 if unknown
}

// Stream describes one elementary stream of an opened container.
type Stream struct {
	Index         int
	TimeBase      Rational
	AvgFrameRate  Rational
	RealFrameRate Rational // Lowest frame rate that represents all timestamps
	Duration      int64    // In TimeBase units
	FrameCount    int
	Default       bool // Track is enabled / flagged default
	Metadata      Metadata
	Params        CodecParameters
}

// Kind returns the media type of the stream.
func (s Stream) Kind() MediaType {
	return s.Params.MediaType
}

// BitRate returns the average bit rate of the stream in bits/sec.
func (s Stream) BitRate() int64 {
	return s.Params.BitRate
}

// Rate returns the sample rate for audio streams and the real frame rate
// for everything else.
func (s Stream) Rate() Rational {
	if s.Params.MediaType == MediaAudio && s.Params.SampleRate > 0 {
		return Rational{Num: int64(s.Params.SampleRate), Den: 1}
	}
	return s.RealFrameRate
}

// Packet is one compressed unit read from a container.
type Packet struct {
	StreamIndex int
	Data        []byte
	PTS         int64 // In stream time base
	DTS         int64 // In stream time base
	Duration    int64 // In stream time base
	Keyframe    bool
}

// Frame is a raw, uncompressed video frame.
type Frame struct {
	Width   int
	Height  int
	Format  PixelFormat
	Planes  [][]byte
	Strides []int
	PTS     int64
}

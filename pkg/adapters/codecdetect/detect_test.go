package codecdetect

import (
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framegrab/pkg/ports"
)

func TestCodecFromFourCC(t *testing.T) {
	tests := []struct {
		fourCC string
		want   ports.CodecID
	}{
		{"avc1", ports.CodecH264},
		{"avc3", ports.CodecH264},
		{"hvc1", ports.CodecHEVC},
		{"av01", ports.CodecAV1},
		{"mp4a", ports.CodecAAC},
		{"tx3g", ports.CodecMovText},
		{"xxxx", ports.CodecUnknown},
	}

	for _, tt := range tests {
		if got := CodecFromFourCC(tt.fourCC); got != tt.want {
			t.Errorf("CodecFromFourCC(%q) = %s, want %s", tt.fourCC, got, tt.want)
		}
	}
}

func TestMediaTypeFromHandler(t *testing.T) {
	if MediaTypeFromHandler("vide") != ports.MediaVideo {
		t.Error("vide should be video")
	}
	if MediaTypeFromHandler("soun") != ports.MediaAudio {
		t.Error("soun should be audio")
	}
	if MediaTypeFromHandler("text") != ports.MediaSubtitle {
		t.Error("text should be subtitle")
	}
	if MediaTypeFromHandler("meta") != ports.MediaData {
		t.Error("meta should be data")
	}
}

func TestDetectFromTrack_NoMedia(t *testing.T) {
	mediaType, codec, fourCC := DetectFromTrack(&mp4.TrakBox{})
	if mediaType != ports.MediaUnknown || codec != ports.CodecUnknown || fourCC != "" {
		t.Errorf("unexpected result: %v %s %q", mediaType, codec, fourCC)
	}
}

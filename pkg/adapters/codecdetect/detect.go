// Package codecdetect maps ISO-BMFF track descriptions to codec identifiers.
package codecdetect

import (
	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framegrab/pkg/ports"
)

// MediaTypeFromHandler maps an hdlr handler type to a media type.
func MediaTypeFromHandler(handlerType string) ports.MediaType {
	switch handlerType {
	case "vide":
		return ports.MediaVideo
	case "soun":
		return ports.MediaAudio
	case "subt", "sbtl", "text", "clcp":
		return ports.MediaSubtitle
	case "":
		return ports.MediaUnknown
	default:
		return ports.MediaData
	}
}

// CodecFromFourCC maps a sample entry type to a codec identifier.
func CodecFromFourCC(fourCC string) ports.CodecID {
	switch fourCC {
	case "avc1", "avc3":
		return ports.CodecH264
	case "hvc1", "hev1":
		return ports.CodecHEVC
	case "av01":
		return ports.CodecAV1
	case "vp09":
		return ports.CodecVP9
	case "mp4a":
		return ports.CodecAAC
	case "Opus":
		return ports.CodecOpus
	case "tx3g", "text":
		return ports.CodecMovText
	default:
		return ports.CodecUnknown
	}
}

// DetectFromTrack returns the media type, codec and sample entry four-cc of
// a track. Tracks without a sample description report CodecUnknown.
func DetectFromTrack(trak *mp4.TrakBox) (ports.MediaType, ports.CodecID, string) {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil {
		return ports.MediaUnknown, ports.CodecUnknown, ""
	}

	mediaType := MediaTypeFromHandler(trak.Mdia.Hdlr.HandlerType)

	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return mediaType, ports.CodecUnknown, ""
	}

	children := trak.Mdia.Minf.Stbl.Stsd.Children
	if len(children) == 0 {
		return mediaType, ports.CodecUnknown, ""
	}

	// Only the first sample description is used
	fourCC := children[0].Type()
	return mediaType, CodecFromFourCC(fourCC), fourCC
}

package mp4demuxer

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/Eyevinn/mp4ff/aac"
	"github.com/Eyevinn/mp4ff/mp4"
)

// Parameter sets of a 1280x720 H.264 stream and a 960x540 HEVC stream.
const (
	avcSPS  = "67640020accac05005bb0169e0000003002000000c9c4c000432380008647c12401cb1c31380"
	avcPPS  = "68b5df20"
	hevcVPS = "40010c01ffff022000000300b0000003000003007b18b024"
	hevcSPS = "420101022000000300b0000003000003007ba0078200887db6718b92448053888892cf24a69272c9124922dc91aa48fca223ff000100016a02020201"
	hevcPPS = "4401c0252f053240"
)

// Fixture layout shared by the built files: audio is track 1 (stream 0),
// video is track 2 (stream 1).
const (
	audioTimescale = 48000
	audioDur       = 1024
	audioSize      = 4

	videoTimescale = 90000
	videoDur       = 3000
	videoSize      = 10
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("decode hex: %v", err)
	}
	return b
}

// audioSample and videoSample return recognisable payloads so tests can
// check which sample a packet carries.
func audioSample(n int) []byte { return bytes.Repeat([]byte{byte(0xA0 + n)}, audioSize) }
func videoSample(n int) []byte { return bytes.Repeat([]byte{byte(0x10 + n)}, videoSize) }

// newInit returns an init segment with an AAC track followed by an H.264
// track.
func newInit(t *testing.T) *mp4.InitSegment {
	t.Helper()

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(audioTimescale, "audio", "eng")
	init.AddEmptyTrack(videoTimescale, "video", "und")

	if err := init.Moov.Traks[0].SetAACDescriptor(aac.AAClc, audioTimescale); err != nil {
		t.Fatalf("set aac descriptor: %v", err)
	}
	sps, pps := mustHex(t, avcSPS), mustHex(t, avcPPS)
	if err := init.Moov.Traks[1].SetAVCDescriptor("avc1", [][]byte{sps}, [][]byte{pps}, true); err != nil {
		t.Fatalf("set avc descriptor: %v", err)
	}
	return init
}

// progressiveMP4 builds a non-fragmented file whose chunks alternate
// between the tracks, video first: V(2) A(3) V(2) A(3) V(2) A(3).
// Video samples 1 and 5 are sync samples.
func progressiveMP4(t *testing.T) []byte {
	t.Helper()

	const chunks = 3
	const audioPerChunk, videoPerChunk = 3, 2

	init := newInit(t)
	audio := init.Moov.Traks[0].Mdia.Minf.Stbl
	video := init.Moov.Traks[1].Mdia.Minf.Stbl

	fillSampleTable(t, audio, chunks*audioPerChunk, audioDur, audioSize, audioPerChunk, chunks)
	fillSampleTable(t, video, chunks*videoPerChunk, videoDur, videoSize, videoPerChunk, chunks)
	video.AddChild(&mp4.StssBox{SampleNumber: []uint32{1, 5}})

	// Chunk offsets do not change the moov size
	var head bytes.Buffer
	if err := init.Encode(&head); err != nil {
		t.Fatalf("encode moov: %v", err)
	}
	base := uint32(head.Len()) + 8 // mdat header

	var payload []byte
	for c := 0; c < chunks; c++ {
		video.Stco.ChunkOffset[c] = base + uint32(len(payload))
		for i := 0; i < videoPerChunk; i++ {
			payload = append(payload, videoSample(c*videoPerChunk+i)...)
		}
		audio.Stco.ChunkOffset[c] = base + uint32(len(payload))
		for i := 0; i < audioPerChunk; i++ {
			payload = append(payload, audioSample(c*audioPerChunk+i)...)
		}
	}

	var out bytes.Buffer
	if err := init.Encode(&out); err != nil {
		t.Fatalf("encode moov: %v", err)
	}
	mdat := &mp4.MdatBox{}
	mdat.SetData(payload)
	if err := mdat.Encode(&out); err != nil {
		t.Fatalf("encode mdat: %v", err)
	}
	return out.Bytes()
}

func fillSampleTable(t *testing.T, stbl *mp4.StblBox, count int, dur, size, perChunk uint32, chunks int) {
	t.Helper()

	stbl.Stts.SampleCount = []uint32{uint32(count)}
	stbl.Stts.SampleTimeDelta = []uint32{dur}

	stbl.Stsz.SampleNumber = uint32(count)
	stbl.Stsz.SampleSize = make([]uint32, count)
	for i := range stbl.Stsz.SampleSize {
		stbl.Stsz.SampleSize[i] = size
	}

	if err := stbl.Stsc.AddEntry(1, perChunk, 1); err != nil {
		t.Fatalf("add stsc entry: %v", err)
	}
	stbl.Stco.ChunkOffset = make([]uint32, chunks)
}

// fragmentedMP4 builds a fragmented file with two fragments that each hold
// a traf per track. Both trafs are listed audio first, but the second
// fragment stores the video samples first in its mdat.
func fragmentedMP4(t *testing.T) []byte {
	t.Helper()

	const perTrack = 3

	var out bytes.Buffer
	if err := newInit(t).Encode(&out); err != nil {
		t.Fatalf("encode init: %v", err)
	}

	for seq := 1; seq <= 2; seq++ {
		frag, err := mp4.CreateMultiTrackFragment(uint32(seq), []uint32{1, 2})
		if err != nil {
			t.Fatalf("create fragment: %v", err)
		}

		addAudio := func() {
			for i := 0; i < perTrack; i++ {
				n := (seq-1)*perTrack + i
				s := mp4.FullSample{
					Sample:     mp4.NewSample(mp4.SyncSampleFlags, audioDur, audioSize, 0),
					DecodeTime: uint64(n * audioDur),
					Data:       audioSample(n),
				}
				if err := frag.AddFullSampleToTrack(s, 1); err != nil {
					t.Fatalf("add audio sample: %v", err)
				}
			}
		}
		addVideo := func() {
			for i := 0; i < perTrack; i++ {
				n := (seq-1)*perTrack + i
				flags := mp4.NonSyncSampleFlags
				if i == 0 {
					flags = mp4.SyncSampleFlags
				}
				s := mp4.FullSample{
					Sample:     mp4.NewSample(flags, videoDur, videoSize, 0),
					DecodeTime: uint64(n * videoDur),
					Data:       videoSample(n),
				}
				if err := frag.AddFullSampleToTrack(s, 2); err != nil {
					t.Fatalf("add video sample: %v", err)
				}
			}
		}

		if seq == 1 {
			addAudio()
			addVideo()
		} else {
			addVideo()
			addAudio()
		}

		if err := frag.Encode(&out); err != nil {
			t.Fatalf("encode fragment: %v", err)
		}
	}
	return out.Bytes()
}

// hevcInit builds an init segment with a single HEVC track.
func hevcInit(t *testing.T) []byte {
	t.Helper()

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(videoTimescale, "video", "und")
	vps, sps, pps := mustHex(t, hevcVPS), mustHex(t, hevcSPS), mustHex(t, hevcPPS)
	if err := init.Moov.Trak.SetHEVCDescriptor("hvc1", [][]byte{vps}, [][]byte{sps}, [][]byte{pps}, nil, true); err != nil {
		t.Fatalf("set hevc descriptor: %v", err)
	}

	var out bytes.Buffer
	if err := init.Encode(&out); err != nil {
		t.Fatalf("encode init: %v", err)
	}
	return out.Bytes()
}

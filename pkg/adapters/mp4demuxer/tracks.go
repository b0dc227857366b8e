package mp4demuxer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Eyevinn/mp4ff/hevc"
	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framegrab/pkg/adapters/codecdetect"
	"github.com/user/framegrab/pkg/ports"
)

const (
	// tkhd flag: track_enabled
	tkhdEnabled = 0x000001

	// Sample flags: sample_is_non_sync_sample
	sampleIsNonSync = 0x00010000
)

// mp4Epoch is the reference time of mvhd/tkhd timestamps.
var mp4Epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

// track accumulates everything known about one trak while indexing.
type track struct {
	index       int
	trak        *mp4.TrakBox
	trackID     uint32
	timescale   uint32
	handlerType string
	enabled     bool
	mediaDur    uint64 // From mdhd, in timescale units

	params   ports.CodecParameters
	metadata ports.Metadata

	sampleCount int
	totalBytes  int64
	sampleDur   uint64 // Sum of sample durations
	firstDelta  uint32
}

func newTrack(index int, trak *mp4.TrakBox) *track {
	t := &track{
		index:     index,
		trak:      trak,
		timescale: 1000,
	}

	if trak.Tkhd != nil {
		t.trackID = trak.Tkhd.TrackID
		t.enabled = trak.Tkhd.Flags&tkhdEnabled != 0
	}

	if trak.Mdia != nil {
		if mdhd := trak.Mdia.Mdhd; mdhd != nil {
			if mdhd.Timescale != 0 {
				t.timescale = mdhd.Timescale
			}
			t.mediaDur = mdhd.Duration
			if lang := mdhd.GetLanguage(); lang != "" {
				t.metadata = append(t.metadata, ports.Tag{Key: "language", Value: lang})
			}
		}
		if hdlr := trak.Mdia.Hdlr; hdlr != nil {
			t.handlerType = hdlr.HandlerType
			if name := strings.TrimRight(hdlr.Name, "\x00"); name != "" {
				t.metadata = append(t.metadata, ports.Tag{Key: "handler_name", Value: name})
			}
		}
	}

	t.params = codecParameters(trak)
	return t
}

// codecParameters reads the first sample description of a track.
func codecParameters(trak *mp4.TrakBox) ports.CodecParameters {
	mediaType, codec, fourCC := codecdetect.DetectFromTrack(trak)
	params := ports.CodecParameters{
		MediaType: mediaType,
		Codec:     codec,
		FourCC:    fourCC,
	}

	stbl := sampleTable(trak)
	if stbl == nil || stbl.Stsd == nil || len(stbl.Stsd.Children) == 0 {
		return params
	}

	switch entry := stbl.Stsd.Children[0].(type) {
	case *mp4.VisualSampleEntryBox:
		params.Width = int(entry.Width)
		params.Height = int(entry.Height)
		params.PixelFormat = ports.PixelFormatYUV420P
		switch {
		case entry.AvcC != nil:
			params.ExtraData = annexB(entry.AvcC.SPSnalus, entry.AvcC.PPSnalus)
		case entry.HvcC != nil:
			params.ExtraData = annexB(
				entry.HvcC.GetNalusForType(hevc.NALU_VPS),
				entry.HvcC.GetNalusForType(hevc.NALU_SPS),
				entry.HvcC.GetNalusForType(hevc.NALU_PPS),
			)
		}
	case *mp4.AudioSampleEntryBox:
		params.SampleRate = int(entry.SampleRate)
		params.Channels = int(entry.ChannelCount)
	}

	// Fall back to the presentation size of the track header
	if mediaType == ports.MediaVideo && (params.Width == 0 || params.Height == 0) && trak.Tkhd != nil {
		params.Width = int(trak.Tkhd.Width >> 16)
		params.Height = int(trak.Tkhd.Height >> 16)
	}

	return params
}

// annexB joins parameter set NAL units (SPS/PPS, or VPS/SPS/PPS for HEVC)
// with start codes.
func annexB(groups ...[][]byte) []byte {
	var out []byte
	for _, nalus := range groups {
		for _, nalu := range nalus {
			out = append(out, 0, 0, 0, 1)
			out = append(out, nalu...)
		}
	}
	return out
}

func sampleTable(trak *mp4.TrakBox) *mp4.StblBox {
	if trak.Mdia == nil || trak.Mdia.Minf == nil {
		return nil
	}
	return trak.Mdia.Minf.Stbl
}

func (t *track) addSample(size uint32, dur uint32) {
	t.sampleCount++
	t.totalBytes += int64(size)
	t.sampleDur += uint64(dur)
	if t.firstDelta == 0 {
		t.firstDelta = dur
	}
}

// duration returns the track duration in timescale units.
func (t *track) duration() uint64 {
	if t.mediaDur > 0 {
		return t.mediaDur
	}
	return t.sampleDur
}

// isChapterTrack reports whether the track is a QuickTime chapter track.
// Chapter tracks are text tracks that are not enabled for playback.
func (t *track) isChapterTrack() bool {
	return t.handlerType == "text" && !t.enabled
}

func (t *track) stream() ports.Stream {
	dur := t.duration()
	ts := int64(t.timescale)

	s := ports.Stream{
		Index:      t.index,
		TimeBase:   ports.Rational{Num: 1, Den: ts},
		Duration:   int64(dur),
		FrameCount: t.sampleCount,
		Default:    t.enabled,
		Metadata:   t.metadata,
		Params:     t.params,
	}

	if t.params.MediaType == ports.MediaVideo {
		if dur > 0 && t.sampleCount > 0 {
			s.AvgFrameRate = ports.Rational{Num: int64(t.sampleCount) * ts, Den: int64(dur)}.Reduce()
		}
		if t.firstDelta > 0 {
			s.RealFrameRate = ports.Rational{Num: ts, Den: int64(t.firstDelta)}.Reduce()
		}
	}

	if dur > 0 {
		s.Params.BitRate = t.totalBytes * 8 * ts / int64(dur)
	}

	return s
}

// indexProgressive lists every sample of every track and orders them by
// file offset, which is the order a sequential reader encounters them.
func (c *Container) indexProgressive(tracks []*track) error {
	for _, t := range tracks {
		stbl := sampleTable(t.trak)
		if stbl == nil || stbl.Stsz == nil {
			continue
		}

		// Build sync sample set (keyframes)
		syncSamples := make(map[uint32]bool)
		if stbl.Stss != nil {
			for _, sampleNr := range stbl.Stss.SampleNumber {
				syncSamples[sampleNr] = true
			}
		}

		sampleCount := stbl.Stsz.SampleNumber
		for sampleNr := uint32(1); sampleNr <= sampleCount; sampleNr++ {
			offset, err := sampleOffset(stbl, sampleNr)
			if err != nil {
				return fmt.Errorf("stream %d sample %d: %w", t.index, sampleNr, err)
			}
			size := stbl.Stsz.GetSampleSize(int(sampleNr))

			var decodeTime uint64
			var dur uint32
			if stbl.Stts != nil {
				decodeTime, dur = stbl.Stts.GetDecodeTime(sampleNr)
			}

			c.index = append(c.index, packetRef{
				stream:   t.index,
				offset:   int64(offset),
				size:     size,
				dts:      int64(decodeTime),
				pts:      int64(decodeTime),
				duration: int64(dur),
				keyframe: syncSamples[sampleNr] || len(syncSamples) == 0,
			})
			t.addSample(size, dur)
		}
	}

	sort.SliceStable(c.index, func(i, j int) bool {
		return c.index[i].offset < c.index[j].offset
	})
	return nil
}

// sampleOffset returns the absolute file offset of a sample.
func sampleOffset(stbl *mp4.StblBox, sampleNr uint32) (uint64, error) {
	if stbl.Stsc == nil || stbl.Stsz == nil {
		return 0, fmt.Errorf("missing stsc or stsz box")
	}

	// Get chunk number and first sample in chunk
	chunkNr, firstSampleInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(sampleNr))
	if err != nil {
		return 0, fmt.Errorf("get chunk nr: %w", err)
	}

	// Get chunk offset
	var chunkOffset uint64
	if stbl.Stco != nil {
		chunkOffset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return 0, fmt.Errorf("get chunk offset: %w", err)
		}
	} else if stbl.Co64 != nil {
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return 0, fmt.Errorf("chunk nr out of range")
		}
		chunkOffset = stbl.Co64.ChunkOffset[chunkNr-1]
	} else {
		return 0, fmt.Errorf("no stco or co64 box")
	}

	// Samples before this one in the same chunk
	offset := chunkOffset
	for s := uint32(firstSampleInChunk); s < sampleNr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}
	return offset, nil
}

// indexFragmented lists samples fragment by fragment. Within a fragment
// every traf is read and samples are ordered by their position in the file.
func (c *Container) indexFragmented(mp4File *mp4.File, moov *mp4.MoovBox, tracks []*track) error {
	byID := make(map[uint32]*track, len(tracks))
	for _, t := range tracks {
		byID[t.trackID] = t
	}

	trexs := make(map[uint32]*mp4.TrexBox)
	if moov.Mvex != nil {
		for _, trex := range moov.Mvex.Trexs {
			trexs[trex.TrackID] = trex
		}
	}

	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil || len(frag.Moof.Trafs) == 0 {
				continue
			}

			var refs []packetRef
			for _, traf := range frag.Moof.Trafs {
				trackID := traf.Tfhd.TrackID
				t, ok := byID[trackID]
				if !ok {
					continue
				}

				// GetFullSamples selects the traf by the trex track ID
				trex := trexs[trackID]
				if trex == nil {
					trex = &mp4.TrexBox{TrackID: trackID}
				}
				samples, err := frag.GetFullSamples(trex)
				if err != nil {
					return fmt.Errorf("stream %d: get samples: %w", t.index, err)
				}

				offsets := trafSampleOffsets(frag.Moof, traf)
				for i, sample := range samples {
					var offset int64
					if i < len(offsets) {
						offset = offsets[i]
					}
					dts := int64(sample.DecodeTime)
					refs = append(refs, packetRef{
						stream:   t.index,
						offset:   offset,
						data:     sample.Data,
						size:     uint32(len(sample.Data)),
						dts:      dts,
						pts:      dts + int64(sample.CompositionTimeOffset),
						duration: int64(sample.Dur),
						keyframe: sample.Flags&sampleIsNonSync == 0,
					})
					t.addSample(uint32(len(sample.Data)), sample.Dur)
				}
			}

			sort.SliceStable(refs, func(i, j int) bool {
				return refs[i].offset < refs[j].offset
			})
			c.index = append(c.index, refs...)
		}
	}

	return nil
}

// trafSampleOffsets returns the absolute file offset of every sample of a
// traf, in trun order. Sample sizes must already carry trex/tfhd defaults.
func trafSampleOffsets(moof *mp4.MoofBox, traf *mp4.TrafBox) []int64 {
	base := int64(moof.StartPos)
	if traf.Tfhd.HasBaseDataOffset() {
		base = int64(traf.Tfhd.BaseDataOffset)
	}

	var offsets []int64
	for _, trun := range traf.Truns {
		pos := base
		if trun.HasDataOffset() {
			pos += int64(trun.DataOffset)
		}
		for _, s := range trun.Samples {
			offsets = append(offsets, pos)
			pos += int64(s.Size)
		}
	}
	return offsets
}

// containerMetadata returns the tags ffmpeg reports for ISO-BMFF files.
func containerMetadata(mp4File *mp4.File, moov *mp4.MoovBox) ports.Metadata {
	var md ports.Metadata

	if ftyp := mp4File.Ftyp; ftyp != nil {
		md = append(md,
			ports.Tag{Key: "major_brand", Value: ftyp.MajorBrand()},
			ports.Tag{Key: "minor_version", Value: strconv.FormatUint(uint64(ftyp.MinorVersion()), 10)},
			ports.Tag{Key: "compatible_brands", Value: strings.Join(ftyp.CompatibleBrands(), "")},
		)
	}

	if moov.Mvhd != nil && moov.Mvhd.CreationTime != 0 {
		md = append(md, ports.Tag{Key: "creation_time", Value: formatTime(moov.Mvhd.CreationTime)})
	}

	return md
}

// formatTime formats seconds since 1904-01-01 the way ffmpeg prints
// creation_time.
func formatTime(secs uint64) string {
	return mp4Epoch.Add(time.Duration(secs) * time.Second).Format("2006-01-02T15:04:05.000000Z")
}

func formatName(mp4File *mp4.File) string {
	if mp4File.Ftyp != nil && mp4File.Ftyp.MajorBrand() == "qt  " {
		return "mov"
	}
	return "mp4"
}

// containerDuration returns the duration in microseconds, preferring mvhd
// and falling back to the longest track.
func containerDuration(moov *mp4.MoovBox, tracks []*track) int64 {
	if mvhd := moov.Mvhd; mvhd != nil && mvhd.Timescale > 0 && mvhd.Duration > 0 {
		return int64(mvhd.Duration * 1_000_000 / uint64(mvhd.Timescale))
	}

	var longest int64
	for _, t := range tracks {
		us := int64(t.duration() * 1_000_000 / uint64(t.timescale))
		if us > longest {
			longest = us
		}
	}
	return longest
}

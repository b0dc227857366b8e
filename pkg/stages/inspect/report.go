package inspect

import (
	"bufio"
	"fmt"
	"io"

	"github.com/user/framegrab/pkg/pipeline"
)

// WriteReport prints a probe in the human-readable report format:
//
//	<tab>key: value            container metadata
//	Duration: Nms
//	#Streams: N
//	#Chapters: N
//	Stream #i
//	<tab>t = 1/N, fps = N/D, rate = N/D
//	<tab>bit rate = N
//	<tab><tab>key: value       stream metadata
func WriteReport(w io.Writer, probe pipeline.Probe) error {
	bw := bufio.NewWriter(w)

	for _, t := range probe.Metadata {
		fmt.Fprintf(bw, "\t%s: %s\n", t.Key, t.Value)
	}

	fmt.Fprintf(bw, "Duration: %dms\n", probe.DurationMs)
	fmt.Fprintf(bw, "#Streams: %d\n", probe.NumStreams)
	fmt.Fprintf(bw, "#Chapters: %d\n", probe.NumChapters)

	for _, s := range probe.Streams {
		fmt.Fprintf(bw, "Stream #%d\n", s.Index)
		fmt.Fprintf(bw, "\tt = %s, fps = %s, rate = %s\n", s.TimeBase, s.AvgFrameRate, s.Rate)
		fmt.Fprintf(bw, "\tbit rate = %d\n", s.BitRate)
		for _, t := range s.Metadata {
			fmt.Fprintf(bw, "\t\t%s: %s\n", t.Key, t.Value)
		}
	}

	return bw.Flush()
}

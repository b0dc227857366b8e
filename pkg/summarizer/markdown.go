package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate headings and labels.
func WithTranslator(translate func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = translate
	}
}

// WithVersion sets the program version printed in the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Frame Grab Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## %s\n\n", t("Input"))
	f.header(&b)
	f.row(&b, t("Path"), s.Input.Path)
	f.row(&b, t("Format"), s.Input.Format)
	f.row(&b, t("Duration"), fmt.Sprintf("%d ms", s.Input.DurationMs))
	f.row(&b, t("Streams"), fmt.Sprint(s.Input.NumStreams))
	f.row(&b, t("Chapters"), fmt.Sprint(s.Input.NumChapters))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Video Stream"))
	f.header(&b)
	f.row(&b, t("Index"), fmt.Sprintf("#%d", s.Stream.Index))
	f.row(&b, t("Codec"), s.Stream.Codec)
	f.row(&b, t("Size"), fmt.Sprintf("%dx%d", s.Stream.Width, s.Stream.Height))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Decoding"))
	f.header(&b)
	f.row(&b, t("Packets Read"), fmt.Sprint(s.Decode.PacketsRead))
	f.row(&b, t("Packets Submitted"), fmt.Sprint(s.Decode.PacketsSubmitted))
	f.row(&b, t("Frame Found"), f.yesNo(s.Decode.Found))
	if s.Decode.Flushed {
		f.row(&b, t("Flushed"), f.yesNo(true))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	f.header(&b)
	f.row(&b, t("Algorithm"), s.Settings.Algorithm)
	f.row(&b, t("Quality"), fmt.Sprint(s.Settings.Quality))
	f.row(&b, t("Flush"), f.yesNo(s.Settings.Flush))
	if s.Settings.Backend != "" {
		f.row(&b, t("Backend"), s.Settings.Backend)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Output"))
	if s.Output.Path == "" {
		fmt.Fprintf(&b, "%s\n", t("No frame was decoded; no thumbnail was written."))
	} else {
		f.header(&b)
		f.row(&b, t("Path"), s.Output.Path)
		f.row(&b, t("Size"), fmt.Sprintf("%dx%d", s.Output.Width, s.Output.Height))
		if s.Output.FileSize > 0 {
			f.row(&b, t("File Size"), formatBytes(s.Output.FileSize))
		}
	}

	if f.version != "" {
		fmt.Fprintf(&b, "\n---\n\nframegrab %s\n", f.version)
	}

	return b.String()
}

func (f *MarkdownFormatter) header(b *strings.Builder) {
	fmt.Fprintf(b, "| %s | %s |\n|---|---|\n", f.translate("Item"), f.translate("Value"))
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", label, value)
}

func (f *MarkdownFormatter) yesNo(v bool) string {
	if v {
		return f.translate("Yes")
	}
	return f.translate("No")
}

// formatBytes formats a byte count with binary units.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 2; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMG"[exp])
}

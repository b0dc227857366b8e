// Package main provides the CLI entry point for framegrab.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framegrab/pkg/adapters/drawscaler"
	"github.com/user/framegrab/pkg/adapters/filesink"
	"github.com/user/framegrab/pkg/adapters/ggimage"
	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/adapters/mp4demuxer"
	"github.com/user/framegrab/pkg/adapters/nullsink"
	"github.com/user/framegrab/pkg/adapters/osfilesystem"
	"github.com/user/framegrab/pkg/adapters/smartdecoder"
	"github.com/user/framegrab/pkg/config"
	"github.com/user/framegrab/pkg/orchestrator"
	"github.com/user/framegrab/pkg/ports"
	"github.com/user/framegrab/pkg/stages/export"
	"github.com/user/framegrab/pkg/stages/extract"
	"github.com/user/framegrab/pkg/stages/inspect"
	"github.com/user/framegrab/pkg/stages/selection"
	"github.com/user/framegrab/pkg/summarizer"
)

var version = "dev"

// Exit statuses
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks command line errors.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)

	err := app.Run(args)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "%s\n", err)
		fmt.Fprintf(stderr, "%s: framegrab [options] <input-path> <output-directory>\n", l10n.T("Usage"))
		return exitUsage
	default:
		fmt.Fprintf(stderr, "%s: %s\n", l10n.T("Error"), err)
		return exitError
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:            "framegrab",
		Usage:           l10n.T("Extract the first video frame as a half-size JPEG thumbnail"),
		UsageText:       "framegrab [options] <input-path> <output-directory>",
		Version:         version,
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		Flags:           flags(),
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return fmt.Errorf("%w: %v", errUsage, err)
		},
		Action: func(c *cli.Context) error {
			return runGrab(c, stdout, stderr)
		},
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		// Configuration
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.T("YAML configuration file"),
			Category: l10n.T("Configuration"),
		},

		// Output
		&cli.IntFlag{
			Name:     "quality",
			Aliases:  []string{"q"},
			Usage:    l10n.T("JPEG quality (1-100, default: 75)"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "output-name",
			Usage:    l10n.T("Thumbnail file name inside the output directory (default: output.jpg)"),
			Category: l10n.T("Output"),
		},

		// Decoding and scaling
		&cli.StringFlag{
			Name:     "algorithm",
			Usage:    l10n.T("Scaling algorithm (bilinear, nearest, approx-bilinear, catmull-rom)"),
			Category: l10n.T("Decoding and Scaling"),
		},
		&cli.BoolFlag{
			Name:     "flush",
			Usage:    l10n.T("Flush the decoder when input ends before a frame was decoded"),
			Category: l10n.T("Decoding and Scaling"),
		},
		&cli.StringFlag{
			Name:     "ffmpeg-path",
			Usage:    l10n.T("Path to ffmpeg executable (falls back to FFMPEG_PATH env, then PATH)"),
			Category: l10n.T("Decoding and Scaling"),
		},

		// Debug
		&cli.BoolFlag{
			Name:     "debug",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Enable debug output"),
			Category: l10n.T("Debug"),
		},
		&cli.StringFlag{
			Name:     "debug-dir",
			Usage:    l10n.T("Directory for debug output"),
			Category: l10n.T("Debug"),
		},
		&cli.StringFlag{
			Name:     "summary",
			Usage:    l10n.T("Output execution summary to file (Markdown format)"),
			Category: l10n.T("Debug"),
		},

		// Logging
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T("Logging"),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"Q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T("Logging"),
		},
	}
}

// runGrab is the main action. Arguments and configuration are checked
// before the decoder toolchain is initialised or any file is opened.
func runGrab(c *cli.Context, stdout, stderr io.Writer) error {
	if c.NArg() != 2 {
		return fmt.Errorf("%w: %s", errUsage, l10n.T("input path and output directory are required"))
	}

	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	cfg.InputPath = c.Args().Get(0)
	cfg.OutputDir = c.Args().Get(1)

	// Create logger
	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsoleTo(ports.ParseLogLevel(cfg.LogLevel), stderr, stderr)
	}

	// One-time decoder toolchain setup
	decoders, err := smartdecoder.Init(smartdecoder.Options{FFmpegPath: cfg.FFmpegPath})
	if err != nil {
		log.Error("Failed to initialise decoder: %s", err.Error())
		return fmt.Errorf("initialise decoder: %w", err)
	}
	log.Debug("Using ffmpeg at %s", decoders.FFmpegPath())

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	images := ggimage.New()

	var sink ports.DebugSink
	if cfg.Debug {
		sink = filesink.New(cfg.DebugDir, fs, images)
	} else {
		sink = nullsink.New()
	}

	orch := orchestrator.New(
		mp4demuxer.NewOpener(),
		decoders,
		drawscaler.NewFactory(),
		inspect.NewStage(stdout, sink, log),
		selection.NewStage(log),
		extract.NewStage(sink, log),
		export.NewStage(images, fs, log),
		log,
	)

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig())
	if err != nil {
		return err
	}

	if cfg.Summary != "" {
		writeSummary(cfg, result, fs, log)
	}
	return nil
}

// buildConfig loads the optional config file and applies flag overrides.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("%w: %v", errUsage, err)
		}
		cfg = loaded
	}

	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}
	if c.IsSet("output-name") {
		cfg.OutputName = c.String("output-name")
	}
	if c.IsSet("algorithm") {
		cfg.Algorithm = c.String("algorithm")
	}
	if c.IsSet("flush") {
		cfg.Flush = c.Bool("flush")
	}
	if c.IsSet("ffmpeg-path") {
		cfg.FFmpegPath = c.String("ffmpeg-path")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("summary") {
		cfg.Summary = c.String("summary")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %v", errUsage, err)
	}
	return cfg, nil
}

func writeSummary(cfg config.Config, result orchestrator.RunResult, fs ports.FileSystem, log ports.Logger) {
	output := summarizer.OutputInfo{
		Path:   result.OutputPath,
		Width:  result.OutputWidth,
		Height: result.OutputHeight,
	}
	if result.OutputPath != "" {
		if info, err := os.Stat(result.OutputPath); err == nil {
			output.FileSize = info.Size()
		}
	}

	summary := summarizer.NewBuilder().
		WithInput(summarizer.InputInfo{
			Path:        result.InputPath,
			Format:      result.Probe.Format,
			DurationMs:  result.Probe.DurationMs,
			NumStreams:  result.Probe.NumStreams,
			NumChapters: result.Probe.NumChapters,
		}).
		WithStream(result.StreamIndex, string(result.Codec), result.SourceWidth, result.SourceHeight).
		WithDecode(result.PacketsRead, result.PacketsSubmitted, result.Found, result.Flushed).
		WithSettings(summarizer.Settings{
			Algorithm: cfg.Algorithm,
			Quality:   cfg.Quality,
			Flush:     cfg.Flush,
			Backend:   string(smartdecoder.BackendFFmpeg),
		}).
		WithOutput(output).
		Build()

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(func(key string) string { return l10n.T(key) }),
		summarizer.WithVersion(version),
	)
	if err := summarizer.NewWriter(formatter, fs).Write(cfg.Summary, summary); err != nil {
		log.Warn("Failed to write summary: %s", err.Error())
		return
	}
	log.Info("Summary saved to %s", cfg.Summary)
}

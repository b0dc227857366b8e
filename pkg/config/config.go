// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/framegrab/pkg/orchestrator"
	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid value")

// Algorithms lists the accepted scaling algorithm names.
var Algorithms = []string{"bilinear", "nearest", "approx-bilinear", "catmull-rom"}

// LogLevels lists the accepted log level names.
var LogLevels = []string{"debug", "info", "warn", "error", "quiet"}

// Config represents the full configuration for framegrab.
type Config struct {
	// Input/Output (positional arguments, never read from file)
	InputPath string `yaml:"-"`
	OutputDir string `yaml:"-"`

	// Output
	OutputName string `yaml:"output_name"`
	Quality    int    `yaml:"quality"`

	// Processing
	Algorithm  string `yaml:"algorithm"`
	Flush      bool   `yaml:"flush"`
	FFmpegPath string `yaml:"ffmpeg_path"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`

	// Summary
	Summary string `yaml:"summary"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OutputName: pipeline.DefaultOutputName,
		Quality:    75,
		Algorithm:  "bilinear",
		LogLevel:   "info",
		DebugDir:   "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("%w: quality %d (must be 1-100)", ErrInvalidConfig, c.Quality)
	}
	if !contains(Algorithms, c.Algorithm) {
		return fmt.Errorf("%w: algorithm %q", ErrInvalidConfig, c.Algorithm)
	}
	if !contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.OutputName == "" {
		return fmt.Errorf("%w: empty output name", ErrInvalidConfig)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		InputPath:  c.InputPath,
		OutputDir:  c.OutputDir,
		OutputName: c.OutputName,
		Quality:    c.Quality,
		Algorithm:  ports.ParseScaleAlgorithm(c.Algorithm),
		Flush:      c.Flush,
	}
}

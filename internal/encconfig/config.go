/*
DESCRIPTION
  config.go defines the encoder binary's Config, parsed from the flag set
  documented by the encoder's CLI surface: input/output paths, color mode,
  dither method, matrix size, error multiplier, frame dimensions, and
  per-stream compression mode. Follows revid/config's shape (exported
  field struct plus a Validate method that rejects nonsensical
  combinations) rather than revid's table-driven Variables
  machinery, since this config has no netsender-delivered runtime updates
  to support.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package encconfig holds the ansi-encode command's configuration and its
// command-line flag parsing.
package encconfig

import (
	"flag"
	"fmt"

	"github.com/kore-signet/ansi-three/container"
	"github.com/kore-signet/ansi-three/internal/dither"
	"github.com/kore-signet/ansi-three/internal/pipeline"
)

// Defaults for flags the caller leaves unset.
const (
	DefaultMultiplier = 0.09
)

// Config holds one encode run's parameters.
type Config struct {
	Input  string
	Output string

	// Subtitles is an optional .srt file encoded as a second stream
	// alongside the video. Not part of spec.md's flag list; added so the
	// reference CLI can exercise the subtitle pipeline end to end.
	Subtitles string

	// InputFormat selects how Input is read: "raw" for a headerless
	// interleaved-RGB24 file, or "images" to treat Input as a glob pattern
	// matching a numbered PNG/JPEG/GIF frame dump.
	InputFormat string

	ColorMode    container.ColorMode
	DitherMethod pipeline.DitherMethod
	MatrixSize   dither.MatrixSize
	Multiplier   float32

	Width, Height int

	CompressionMode container.CompressionMode
}

// Validate rejects a Config that can't produce a container: missing
// paths, non-positive dimensions, or an unrecognized input format. It
// does not check the enum-typed fields; ParseFlags rejects unrecognized
// enum flag values before they reach a Config.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("encconfig: --input is required")
	}
	if c.Output == "" {
		return fmt.Errorf("encconfig: --output is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("encconfig: --width and --height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.InputFormat != "raw" && c.InputFormat != "images" {
		return fmt.Errorf("encconfig: unrecognized --input-format %q", c.InputFormat)
	}
	return nil
}

// ParseFlags parses args (typically os.Args[1:]) into a validated Config.
func ParseFlags(name string, args []string) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	input := fs.String("input", "", "path to the raw input video, or a glob pattern when --input-format=images")
	inputFormat := fs.String("input-format", "raw", "input kind: raw (headerless RGB24) or images (numbered PNG/JPEG/GIF frame dump)")
	output := fs.String("output", "", "path to write the encoded container to")
	subtitles := fs.String("subtitles", "", "optional path to a .srt subtitle file to encode alongside the video")
	colorMode := fs.String("color-mode", "full", "color mode: full or 8bit")
	ditherMethod := fs.String("dither-method", "floyd-steinberg", "8bit dither method: floyd-steinberg or pattern")
	matrixSize := fs.String("matrix-size", "four", "pattern dither Bayer matrix size: two, four, or eight")
	multiplier := fs.Float64("multiplier", DefaultMultiplier, "pattern dither error multiplier")
	width := fs.Int("width", 0, "input frame width in pixels")
	height := fs.Int("height", 0, "input frame height in pixels")
	compressionMode := fs.String("compression-mode", "none", "packet compression: none, zstd, or lz4")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Input:       *input,
		InputFormat: *inputFormat,
		Output:      *output,
		Subtitles:   *subtitles,
		Multiplier:  float32(*multiplier),
		Width:       *width,
		Height:      *height,
	}

	switch *colorMode {
	case "full":
		cfg.ColorMode = container.ColorFull
	case "8bit":
		cfg.ColorMode = container.ColorEightBit
	default:
		return nil, fmt.Errorf("encconfig: unrecognized --color-mode %q", *colorMode)
	}

	switch *ditherMethod {
	case "floyd-steinberg":
		cfg.DitherMethod = pipeline.DitherFloydSteinberg
	case "pattern":
		cfg.DitherMethod = pipeline.DitherPattern
	default:
		return nil, fmt.Errorf("encconfig: unrecognized --dither-method %q", *ditherMethod)
	}

	switch *matrixSize {
	case "two":
		cfg.MatrixSize = dither.Bayer2x2
	case "four":
		cfg.MatrixSize = dither.Bayer4x4
	case "eight":
		cfg.MatrixSize = dither.Bayer8x8
	default:
		return nil, fmt.Errorf("encconfig: unrecognized --matrix-size %q", *matrixSize)
	}

	switch *compressionMode {
	case "none":
		cfg.CompressionMode = container.CompressionNone
	case "zstd":
		cfg.CompressionMode = container.CompressionZstd
	case "lz4":
		cfg.CompressionMode = container.CompressionLZ4
	default:
		return nil, fmt.Errorf("encconfig: unrecognized --compression-mode %q", *compressionMode)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package encconfig

import (
	"testing"

	"github.com/kore-signet/ansi-three/container"
	"github.com/kore-signet/ansi-three/internal/dither"
	"github.com/kore-signet/ansi-three/internal/pipeline"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := ParseFlags("ansi-encode", []string{
		"--input", "in.raw",
		"--output", "out.a3",
		"--width", "192",
		"--height", "108",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	if cfg.ColorMode != container.ColorFull {
		t.Errorf("ColorMode = %v, want ColorFull", cfg.ColorMode)
	}
	if cfg.DitherMethod != pipeline.DitherFloydSteinberg {
		t.Errorf("DitherMethod = %v, want DitherFloydSteinberg", cfg.DitherMethod)
	}
	if cfg.MatrixSize != dither.Bayer4x4 {
		t.Errorf("MatrixSize = %v, want Bayer4x4", cfg.MatrixSize)
	}
	if cfg.Multiplier != DefaultMultiplier {
		t.Errorf("Multiplier = %v, want %v", cfg.Multiplier, DefaultMultiplier)
	}
	if cfg.CompressionMode != container.CompressionNone {
		t.Errorf("CompressionMode = %v, want CompressionNone", cfg.CompressionMode)
	}
	if cfg.InputFormat != "raw" {
		t.Errorf("InputFormat = %q, want %q", cfg.InputFormat, "raw")
	}
}

func TestParseFlagsAcceptsImagesInputFormat(t *testing.T) {
	cfg, err := ParseFlags("ansi-encode", []string{
		"--input", "frames/*.png",
		"--output", "out.a3",
		"--width", "192",
		"--height", "108",
		"--input-format", "images",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.InputFormat != "images" {
		t.Errorf("InputFormat = %q, want %q", cfg.InputFormat, "images")
	}
}

func TestParseFlagsRejectsUnknownInputFormat(t *testing.T) {
	_, err := ParseFlags("ansi-encode", []string{
		"--input", "in.raw", "--output", "out.a3", "--width", "1", "--height", "1",
		"--input-format", "bogus",
	})
	if err == nil {
		t.Fatal("expected an error for an unrecognized --input-format")
	}
}

func TestParseFlagsOverridesEnums(t *testing.T) {
	cfg, err := ParseFlags("ansi-encode", []string{
		"--input", "in.raw",
		"--output", "out.a3",
		"--width", "192",
		"--height", "108",
		"--color-mode", "8bit",
		"--dither-method", "pattern",
		"--matrix-size", "eight",
		"--multiplier", "0.25",
		"--compression-mode", "zstd",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	if cfg.ColorMode != container.ColorEightBit {
		t.Errorf("ColorMode = %v, want ColorEightBit", cfg.ColorMode)
	}
	if cfg.DitherMethod != pipeline.DitherPattern {
		t.Errorf("DitherMethod = %v, want DitherPattern", cfg.DitherMethod)
	}
	if cfg.MatrixSize != dither.Bayer8x8 {
		t.Errorf("MatrixSize = %v, want Bayer8x8", cfg.MatrixSize)
	}
	if cfg.Multiplier != 0.25 {
		t.Errorf("Multiplier = %v, want 0.25", cfg.Multiplier)
	}
	if cfg.CompressionMode != container.CompressionZstd {
		t.Errorf("CompressionMode = %v, want CompressionZstd", cfg.CompressionMode)
	}
}

func TestParseFlagsRejectsUnknownEnum(t *testing.T) {
	_, err := ParseFlags("ansi-encode", []string{
		"--input", "in.raw",
		"--output", "out.a3",
		"--width", "192",
		"--height", "108",
		"--color-mode", "bogus",
	})
	if err == nil {
		t.Fatal("expected an error for an unrecognized --color-mode")
	}
}

func TestParseFlagsRequiresPaths(t *testing.T) {
	_, err := ParseFlags("ansi-encode", []string{"--width", "1", "--height", "1"})
	if err == nil {
		t.Fatal("expected an error when --input/--output are missing")
	}
}

func TestParseFlagsRejectsNonPositiveDimensions(t *testing.T) {
	_, err := ParseFlags("ansi-encode", []string{
		"--input", "in.raw", "--output", "out.a3", "--width", "0", "--height", "10",
	})
	if err == nil {
		t.Fatal("expected an error for a non-positive width")
	}
}

package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kore-signet/ansi-three/container"
	"github.com/kore-signet/ansi-three/internal/codecproc"
	"github.com/kore-signet/ansi-three/internal/dither"
	"github.com/kore-signet/ansi-three/internal/palette"
)

func solidVideoFrame(c Pixel, w, h int) Frame {
	px := make([]Pixel, w*h)
	for i := range px {
		px[i] = c
	}
	return Frame{
		Kind:           container.DataVideo,
		TimestampMicro: 0,
		DurationMicro:  33_333,
		Video:          VideoFrame{Width: w, Height: h, Pixels: px},
	}
}

// TestEightBitFloydSteinbergScenario pins spec scenario #1's emitted-ANSI half:
// solid-color frame produces exactly one fg/bg 256-color SGR pair when run
// through the EightBit/FloydSteinberg strategy.
func TestEightBitFloydSteinbergScenario(t *testing.T) {
	palette.Init()
	enc := NewVideoEncoder(VideoEncoderConfig{
		ColorMode: container.ColorEightBit,
		Dither:    DitherFloydSteinberg,
		Metric:    palette.CIE76,
		Width:     4, Height: 4,
	})

	frame := solidVideoFrame(Pixel{0xE5, 0x39, 0x35}, 4, 4)
	pkt, err := enc.Encode(frame)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out := string(pkt.Data)
	if strings.Count(out, "38;5;") != 1 {
		t.Errorf("expected exactly one 38;5; SGR, got %d in %q", strings.Count(out, "38;5;"), out)
	}
	if strings.Count(out, "48;5;") != 1 {
		t.Errorf("expected exactly one 48;5; SGR, got %d in %q", strings.Count(out, "48;5;"), out)
	}
}

func TestEightBitPatternScenario(t *testing.T) {
	palette.Init()
	enc := NewVideoEncoder(VideoEncoderConfig{
		ColorMode:  container.ColorEightBit,
		Dither:     DitherPattern,
		MatrixSize: dither.Bayer4x4,
		Multiplier: 0.09,
		Metric:     palette.CIE76,
		Width:      4, Height: 4,
	})

	frame := solidVideoFrame(Pixel{10, 200, 30}, 4, 4)
	pkt, err := enc.Encode(frame)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(pkt.Data) == 0 {
		t.Fatal("expected non-empty payload")
	}
}

func TestFull24BitDirectEmit(t *testing.T) {
	enc := NewVideoEncoder(VideoEncoderConfig{ColorMode: container.ColorFull, Width: 2, Height: 2})
	frame := solidVideoFrame(Pixel{1, 2, 3}, 2, 2)

	pkt, err := enc.Encode(frame)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Contains(pkt.Data, []byte("38;2;1;2;3")) {
		t.Errorf("expected 24-bit fg SGR for (1,2,3) in %q", pkt.Data)
	}
}

func TestPipelineRunAppliesProcessors(t *testing.T) {
	enc := NewVideoEncoder(VideoEncoderConfig{ColorMode: container.ColorFull, Width: 2, Height: 2})
	frame := solidVideoFrame(Pixel{9, 9, 9}, 2, 2)

	p, err := NewPipeline(3, enc)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	pkt, err := p.Run(frame)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pkt.Stream != 3 {
		t.Errorf("pkt.Stream = %d, want 3", pkt.Stream)
	}
}

type noopProcessor struct{}

func (noopProcessor) Process(pkt *container.Packet) error { return nil }

func TestNewPipelineRejectsTooManyProcessors(t *testing.T) {
	enc := NewVideoEncoder(VideoEncoderConfig{ColorMode: container.ColorFull})

	procs := make([]codecproc.PostProcessor, MaxPostProcessors+1)
	for i := range procs {
		procs[i] = noopProcessor{}
	}

	_, err := NewPipeline(0, enc, procs...)
	if err != container.ErrParameterOutOfRange {
		t.Fatalf("error = %v, want ErrParameterOutOfRange", err)
	}
}

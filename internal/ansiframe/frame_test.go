package ansiframe

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/kore-signet/ansi-three/internal/palette"
)

// TestUniformFrameEmitsSingleSGRPair pins spec scenario #1: a uniform
// single-color frame should emit exactly one fg and one bg SGR pair, with
// every other cell suppressed.
func TestUniformFrameEmitsSingleSGRPair(t *testing.T) {
	const w, h = 4, 4
	c := palette.RGB{10, 20, 30}
	px := make([]palette.RGB, w*h)
	for i := range px {
		px[i] = c
	}

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := EmitFrame(bw, RGB24Source{Pixels: px, Width: w, Height: h}, w, h); err != nil {
		t.Fatalf("EmitFrame: %v", err)
	}
	bw.Flush()

	out := buf.String()
	fgCount := strings.Count(out, "\x1b[38;2;10;20;30m")
	bgCount := strings.Count(out, "\x1b[48;2;10;20;30m")
	if fgCount != 1 {
		t.Errorf("fg SGR count = %d, want 1", fgCount)
	}
	if bgCount != 1 {
		t.Errorf("bg SGR count = %d, want 1", bgCount)
	}

	glyphCount := strings.Count(out, upperHalfBlock)
	if glyphCount != w*h/2 {
		t.Errorf("glyph count = %d, want %d", glyphCount, w*h/2)
	}

	rowPairs := strings.Count(out, endOfRowPair)
	if rowPairs != h/2 {
		t.Errorf("row-pair terminator count = %d, want %d", rowPairs, h/2)
	}
}

func TestOddHeightDropsTrailingRow(t *testing.T) {
	const w, h = 2, 3
	px := make([]palette.RGB, w*h)
	for i := range px {
		px[i] = palette.RGB{1, 2, 3}
	}

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := EmitFrame(bw, RGB24Source{Pixels: px, Width: w, Height: h}, w, h); err != nil {
		t.Fatalf("EmitFrame: %v", err)
	}
	bw.Flush()

	rowPairs := strings.Count(buf.String(), endOfRowPair)
	if rowPairs != 1 {
		t.Errorf("row-pair count = %d, want 1 (trailing odd row dropped)", rowPairs)
	}
}

func TestIndexedSourceUsesPrecomputedCodes(t *testing.T) {
	palette.Init()
	const w, h = 2, 2
	idx := []uint8{5, 5, 5, 5}

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := EmitFrame(bw, IndexedSource{Indices: idx, Width: w, Height: h}, w, h); err != nil {
		t.Fatalf("EmitFrame: %v", err)
	}
	bw.Flush()

	out := buf.String()
	if !strings.Contains(out, palette.FGCodes[5]) {
		t.Errorf("expected output to contain precomputed FG code for index 5")
	}
	if !strings.Contains(out, palette.BGCodes[5]) {
		t.Errorf("expected output to contain precomputed BG code for index 5")
	}
}

func TestChangingColorsEmitNewSGR(t *testing.T) {
	const w, h = 2, 2
	px := []palette.RGB{
		{1, 1, 1}, {2, 2, 2},
		{3, 3, 3}, {4, 4, 4},
	}

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := EmitFrame(bw, RGB24Source{Pixels: px, Width: w, Height: h}, w, h); err != nil {
		t.Fatalf("EmitFrame: %v", err)
	}
	bw.Flush()

	out := buf.String()
	for _, code := range []string{
		"\x1b[38;2;1;1;1m", "\x1b[48;2;3;3;3m",
		"\x1b[38;2;2;2;2m", "\x1b[48;2;4;4;4m",
	} {
		if !strings.Contains(out, code) {
			t.Errorf("expected output to contain %q", code)
		}
	}
}

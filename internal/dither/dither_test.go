package dither

import (
	"testing"

	"github.com/kore-signet/ansi-three/internal/palette"
)

func solidFrame(c palette.RGB, width, height int) []palette.RGB {
	px := make([]palette.RGB, width*height)
	for i := range px {
		px[i] = c
	}
	return px
}

func TestFloydSteinbergUniformFrameIsUniformIndex(t *testing.T) {
	palette.Init()
	q := palette.NewQuantizer(palette.CIE76)

	const w, h = 16, 16
	px := solidFrame(palette.PALETTE[42], w, h)
	dst := make([]uint8, w*h)

	FloydSteinberg(q, px, w, h, dst)

	for i, idx := range dst {
		if idx != 42 {
			t.Fatalf("pixel %d: index = %d, want 42 (exact palette color diffuses zero error)", i, idx)
		}
	}
}

func TestMatrixSizeStringNames(t *testing.T) {
	cases := map[MatrixSize]string{Bayer2x2: "two", Bayer4x4: "four", Bayer8x8: "eight"}
	for size, want := range cases {
		if got := size.String(); got != want {
			t.Errorf("MatrixSize(%d).String() = %q, want %q", size, got, want)
		}
	}
}

func TestBayer4x4MatchesKnownMatrix(t *testing.T) {
	want := [16]int{
		0, 8, 2, 10,
		12, 4, 14, 6,
		3, 11, 1, 9,
		15, 7, 13, 5,
	}
	if bayer4x4 != want {
		t.Fatalf("bayer4x4 = %v, want %v", bayer4x4, want)
	}
}

func TestBayer8x8IsPermutationOf64(t *testing.T) {
	seen := make(map[int]bool, 64)
	for _, v := range bayer8x8 {
		if v < 0 || v > 63 {
			t.Fatalf("bayer8x8 value out of range: %d", v)
		}
		if seen[v] {
			t.Fatalf("bayer8x8 value %d repeated", v)
		}
		seen[v] = true
	}
}

func TestPatternUniformFrameIsUniformIndex(t *testing.T) {
	palette.Init()
	q := palette.NewQuantizer(palette.CIE76)

	const w, h = 9, 9
	px := solidFrame(palette.PALETTE[200], w, h)
	dst := make([]uint8, w*h)

	for _, size := range []MatrixSize{Bayer2x2, Bayer4x4, Bayer8x8} {
		if err := Pattern(q, px, w, h, size, 0.09, dst); err != nil {
			t.Fatalf("Pattern(%v) error: %v", size, err)
		}
		for i, idx := range dst {
			if idx != 200 {
				t.Fatalf("matrix %v: pixel %d index = %d, want 200", size, i, idx)
			}
		}
	}
}

// TestPattern4x4QuantizesNearGrayInput runs 4x4 pattern dithering over a
// uniform frame of a near-gray color and checks that it completes and
// writes quantized indices.
func TestPattern4x4QuantizesNearGrayInput(t *testing.T) {
	palette.Init()
	q := palette.NewQuantizer(palette.CIE76)

	const w, h = 4, 4
	px := make([]palette.RGB, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Gray-ramp entry 244 is (128,128,128); blue sits 2 above it.
			px[y*w+x] = palette.RGB{128, 128, 130}
		}
	}
	dst := make([]uint8, w*h)
	if err := Pattern(q, px, w, h, Bayer4x4, 0.09, dst); err != nil {
		t.Fatalf("Pattern error: %v", err)
	}

	distinct := map[uint8]bool{}
	for _, idx := range dst {
		distinct[idx] = true
	}
	if len(distinct) == 0 {
		t.Fatal("expected at least one quantized index")
	}
}

// TestPatternZeroMultiplierDegeneratesToNearest pins the concrete scenario:
// with multiplier 0.0 every candidate nudge is a no-op, so all n candidates
// collapse to the same palette entry and the Bayer threshold pick at
// (x,y)=(3,1) -- position 6 in the 4x4 matrix -- makes no difference to the
// chosen index.
func TestPatternZeroMultiplierDegeneratesToNearest(t *testing.T) {
	palette.Init()
	q := palette.NewQuantizer(palette.CIE76)

	const w, h = 4, 2
	px := make([]palette.RGB, w*h)
	for i := range px {
		px[i] = palette.RGB{77, 140, 201}
	}
	dst := make([]uint8, w*h)

	if err := Pattern(q, px, w, h, Bayer4x4, 0.0, dst); err != nil {
		t.Fatalf("Pattern error: %v", err)
	}

	want := q.Nearest(px[0])
	if got := bayer4x4[(1%4)*4+(3%4)]; got != 6 {
		t.Fatalf("bayer4x4 threshold at (3,1) = %d, want 6", got)
	}
	if got := dst[1*w+3]; got != want {
		t.Errorf("dst at (3,1) = %d, want %d (nearest-palette index)", got, want)
	}
}

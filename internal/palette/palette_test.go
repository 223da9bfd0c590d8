package palette

import "testing"

func TestPaletteReverseIsBijective(t *testing.T) {
	Init()

	seen := make(map[RGB]uint8, Size)
	for i := 0; i < Size; i++ {
		c := PALETTE[i]
		if prev, ok := seen[c]; ok {
			t.Fatalf("palette entries %d and %d both map to %v", prev, i, c)
		}
		seen[c] = uint8(i)

		idx, ok := ReversePalette[c]
		if !ok {
			t.Fatalf("ReversePalette missing entry for palette color %v (index %d)", c, i)
		}
		if idx != uint8(i) {
			t.Errorf("ReversePalette[%v] = %d, want %d", c, idx, i)
		}
	}
}

func TestXterm216CubeLevels(t *testing.T) {
	// Index 16 is the cube's (0,0,0) corner: pure black.
	if got := xterm216ToRGB(16); got != (RGB{0, 0, 0}) {
		t.Errorf("xterm216ToRGB(16) = %v, want black", got)
	}
	// Index 231 is the cube's (5,5,5) corner: pure white.
	if got := xterm216ToRGB(231); got != (RGB{255, 255, 255}) {
		t.Errorf("xterm216ToRGB(231) = %v, want white", got)
	}
}

func TestGrayRampEndpoints(t *testing.T) {
	if got := grayRampToRGB(232); got != (RGB{8, 8, 8}) {
		t.Errorf("grayRampToRGB(232) = %v, want {8,8,8}", got)
	}
	if got := grayRampToRGB(255); got != (RGB{238, 238, 238}) {
		t.Errorf("grayRampToRGB(255) = %v, want {238,238,238}", got)
	}
}

func TestSetANSIThemeRebuildsTheme(t *testing.T) {
	t.Cleanup(func() { SetANSITheme(vgaColors) })

	custom := vgaColors
	custom[1] = RGB{200, 10, 10}
	SetANSITheme(custom)

	if PALETTE[1] != custom[1] {
		t.Fatalf("PALETTE[1] = %v after SetANSITheme, want %v", PALETTE[1], custom[1])
	}
	if idx, ok := ReversePalette[custom[1]]; !ok || idx != 1 {
		t.Fatalf("ReversePalette not rebuilt for new theme color: got (%d,%v)", idx, ok)
	}
}

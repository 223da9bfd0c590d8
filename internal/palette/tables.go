/*
DESCRIPTION
  tables.go builds the fixed 256-entry ANSI palette and its derived lookup
  tables (Lab, CAM02-UCS, FG/BG escape strings, the RGB->index reverse map).

  The original implementation (kore-signet/ansi-three, Rust) generates these
  as compile-time constants in a cargo build.rs script, querying the
  connected terminal's theme for indices 0-15 and falling back to a VGA
  default. Go has no build-time codegen step wired into `go build` by
  default, so per spec.md's own design note these are computed once, at
  process start, into package-level read-only tables.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package palette builds the fixed 256-color ANSI palette used by the
// container's 8-bit video mode, its perceptual distance tables, and the
// quantizer that maps arbitrary RGB pixels onto it.
package palette

import (
	"fmt"
	"sync"
)

// Size is the fixed palette size: 16 ANSI theme colors, a 6x6x6 color
// cube, and a 24-step gray ramp.
const Size = 256

// RGB is a packed 8-bit-per-channel color triple.
type RGB [3]uint8

// vgaColors is the fallback ANSI 0-15 theme used when no terminal theme has
// been supplied via SetANSITheme. These are the traditional VGA text-mode
// palette values.
var vgaColors = [16]RGB{
	{0, 0, 0}, {170, 0, 0}, {0, 170, 0}, {170, 85, 0},
	{0, 0, 170}, {170, 0, 170}, {0, 170, 170}, {170, 170, 170},
	{85, 85, 85}, {255, 85, 85}, {85, 255, 85}, {255, 255, 85},
	{85, 85, 255}, {255, 85, 255}, {85, 255, 255}, {255, 255, 255},
}

var (
	buildOnce sync.Once

	// PALETTE is the fixed 256-entry RGB palette.
	PALETTE [Size]RGB

	// LabPalette holds the CIE L*a*b* (D65) coordinates of each palette
	// entry, flattened to four lanes per entry (the fourth lane is always
	// zero) so both the scalar and batched distance paths share layout.
	LabPalette [Size][4]float64

	// JabPalette holds the CAM02-UCS J'/a'/b' coordinates of each palette
	// entry, same four-lane layout as LabPalette.
	JabPalette [Size][4]float64

	// FGCodes and BGCodes are precomputed SGR strings for 256-color mode.
	FGCodes [Size]string
	BGCodes [Size]string

	// ReversePalette maps an exact RGB value back to its palette index.
	// Every entry generated into PALETTE is unique by construction, so
	// this map is total over the palette's image.
	ReversePalette = map[RGB]uint8{}
)

// SetANSITheme overrides the 16 ANSI theme colors used for palette indices
// 0-15 and rebuilds all derived tables. Querying the terminal's actual
// theme requires raw-mode I/O (an OSC 4 query/response round trip), which
// spec.md explicitly leaves to the external terminal-raw-mode collaborator;
// callers that have already done that query pass the result here. Safe to
// call before the first call to Init/PALETTE access; not safe to call
// concurrently with quantization.
func SetANSITheme(colors [16]RGB) {
	vgaColors = colors
	build()
}

// Init forces the palette tables to be built using the fallback VGA theme
// if SetANSITheme has not already been called. It is idempotent; the first
// caller (whichever of Init or SetANSITheme runs first) wins.
func Init() { buildOnce.Do(build) }

func init() { Init() }

// xterm216ToRGB converts a 6x6x6 cube index (16..231) to RGB using the
// standard xterm conversion: 0 stays 0, other levels are 55+40*v, giving
// the six levels {0, 95, 135, 175, 215, 255}.
func xterm216ToRGB(idx uint8) RGB {
	b := idx - 16
	r := b / 36
	b -= r * 36
	g := b / 6
	b -= g * 6

	conv := func(v uint8) uint8 {
		if v == 0 {
			return 0
		}
		return 55 + 40*v
	}
	return RGB{conv(r), conv(g), conv(b)}
}

// grayRampToRGB converts a gray-ramp index (232..255) to RGB: 24 steps of
// 8 + 10*i.
func grayRampToRGB(idx uint8) RGB {
	i := idx - 232
	level := 8 + 10*i
	return RGB{level, level, level}
}

func build() {
	ReversePalette = make(map[RGB]uint8, Size)

	for i := 0; i < Size; i++ {
		idx := uint8(i)
		var c RGB
		switch {
		case idx <= 15:
			c = vgaColors[idx]
		case idx <= 231:
			c = xterm216ToRGB(idx)
		default:
			c = grayRampToRGB(idx)
		}

		PALETTE[i] = c
		ReversePalette[c] = idx

		l, a, bb := rgbToLab(c)
		LabPalette[i] = [4]float64{l, a, bb, 0}

		j, ja, jb := rgbToJab(c)
		JabPalette[i] = [4]float64{j, ja, jb, 0}

		FGCodes[i] = fmt.Sprintf("\x1b[38;5;%dm", idx)
		BGCodes[i] = fmt.Sprintf("\x1b[48;5;%dm", idx)
	}
}

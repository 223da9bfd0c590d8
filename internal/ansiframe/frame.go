/*
DESCRIPTION
  frame.go emits ANSI escape sequences for a raster frame using the
  two-rows-per-character half-block trick: each terminal cell renders the
  upper row's color as foreground and the lower row's color as background
  against the U+2580 upper-half-block glyph. Consecutive cells that repeat
  the previous cell's foreground or background omit the redundant SGR.

  Ports img2ansi/src/lib.rs's AnsiPixel/ToAnsi traits.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ansiframe renders raster frames to ANSI terminal byte streams
// using the half-block glyph, in both 24-bit true-color and 256-color
// palette-indexed modes.
package ansiframe

import (
	"bufio"
	"fmt"

	"github.com/kore-signet/ansi-three/internal/palette"
)

// upperHalfBlock is U+2580 UPPER HALF BLOCK.
const upperHalfBlock = "▀"

// endOfRowPair is CSI 1 E: cursor to the beginning of the line one below
// the current line, used instead of a bare newline so the emitter never
// depends on the terminal's auto-wrap / scroll-region behavior.
const endOfRowPair = "\x1b[1E"

// Pixel is satisfied by both true-color and palette-indexed frame buffers.
// The emitter compares each returned Color by value with the previous one
// to decide whether a new SGR code has to be written.
type Pixel interface {
	// At returns the pixel value at (x, y) as a comparable Color carrying
	// its precomputed foreground and background SGR strings.
	At(x, y int) Color
}

// Color is an opaque, comparable pixel color used for change-suppression
// bookkeeping: two Color values are the same color iff they compare equal.
type Color struct {
	key   [3]uint8
	sgrFG string
	sgrBG string
}

// RGB24Source wraps a packed RGB raster for full 24-bit emission.
type RGB24Source struct {
	Pixels        []palette.RGB
	Width, Height int
}

func (s RGB24Source) At(x, y int) Color {
	c := s.Pixels[y*s.Width+x]
	return Color{
		key:   [3]uint8(c),
		sgrFG: fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c[0], c[1], c[2]),
		sgrBG: fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c[0], c[1], c[2]),
	}
}

// IndexedSource wraps a palette-indexed raster for 256-color emission,
// using the precomputed FGCodes/BGCodes tables rather than formatting a
// new SGR string per pixel.
type IndexedSource struct {
	Indices       []uint8
	Width, Height int
}

func (s IndexedSource) At(x, y int) Color {
	idx := s.Indices[y*s.Width+x]
	c := palette.PALETTE[idx]
	return Color{
		key:   [3]uint8{c[0], c[1], c[2]},
		sgrFG: palette.FGCodes[idx],
		sgrBG: palette.BGCodes[idx],
	}
}

// EmitFrame writes the half-block rendering of src to w. Rows are consumed
// two at a time starting at y=0; if height is odd, the final unpaired row
// is dropped by design, matching spec behavior rather than padding with a
// synthetic row. Suppression state (the previously emitted foreground and
// background) resets at the start of every call, since each frame is
// rendered independently with the screen's prior contents unknown to the
// emitter (a full repaint is assumed; cursor positioning is the caller's
// responsibility before the first EmitFrame of a session).
func EmitFrame(w *bufio.Writer, src Pixel, width, height int) error {
	var lastFG, lastBG Color
	haveFG, haveBG := false, false

	for y := 0; y+1 < height; y += 2 {
		for x := 0; x < width; x++ {
			upper := src.At(x, y)
			lower := src.At(x, y+1)

			if !haveFG || upper.key != lastFG.key {
				if _, err := w.WriteString(upper.sgrFG); err != nil {
					return err
				}
				lastFG = upper
				haveFG = true
			}
			if !haveBG || lower.key != lastBG.key {
				if _, err := w.WriteString(lower.sgrBG); err != nil {
					return err
				}
				lastBG = lower
				haveBG = true
			}
			if _, err := w.WriteString(upperHalfBlock); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(endOfRowPair); err != nil {
			return err
		}
	}
	return nil
}

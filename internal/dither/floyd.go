/*
DESCRIPTION
  floyd.go implements Floyd-Steinberg error-diffusion dithering of a
  true-color frame onto the fixed ANSI palette. It ports
  colorful/src/floyd_steinberg.rs's serial diffusion loop:
  quantization error at each pixel is spread to its unprocessed neighbors
  (7/16 east, 3/16 south-west, 5/16 south, 1/16 south-east) before they are
  themselves quantized.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dither implements the two frame-dithering engines (serial
// error-diffusion and parallel ordered/pattern dithering) used to map a
// true-color frame onto the fixed 256-color ANSI palette before encoding.
package dither

import "github.com/kore-signet/ansi-three/internal/palette"

// errPixel carries per-channel accumulated quantization error at working
// precision; it is intentionally wider than uint8 so repeated diffusion
// doesn't clip prematurely.
type errPixel struct {
	r, g, b int32
}

func clamp8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// FloydSteinberg quantizes the width*height RGB frame in px against q,
// diffusing each pixel's quantization error to its right, lower-left,
// lower, and lower-right neighbors, and writes one palette index per pixel
// into dst. px is only read; accumulated error is kept in a separate
// per-call buffer.
func FloydSteinberg(q *palette.Quantizer, px []palette.RGB, width, height int, dst []uint8) {
	if len(px) != width*height || len(dst) != width*height {
		panic("dither: FloydSteinberg dimension mismatch")
	}

	acc := make([]errPixel, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			e := acc[i]

			orig := px[i]
			adjusted := palette.RGB{
				clamp8(int32(orig[0]) + e.r),
				clamp8(int32(orig[1]) + e.g),
				clamp8(int32(orig[2]) + e.b),
			}

			idx := q.Nearest(adjusted)
			dst[i] = idx
			chosen := palette.PALETTE[idx]

			qerr := errPixel{
				r: int32(adjusted[0]) - int32(chosen[0]),
				g: int32(adjusted[1]) - int32(chosen[1]),
				b: int32(adjusted[2]) - int32(chosen[2]),
			}

			if x+1 < width {
				diffuse(acc, i+1, qerr, 7, 16)
			}
			if y+1 < height {
				if x > 0 {
					diffuse(acc, i+width-1, qerr, 3, 16)
				}
				diffuse(acc, i+width, qerr, 5, 16)
				if x+1 < width {
					diffuse(acc, i+width+1, qerr, 1, 16)
				}
			}
		}
	}
}

func diffuse(acc []errPixel, i int, e errPixel, num, den int32) {
	acc[i].r += e.r * num / den
	acc[i].g += e.g * num / den
	acc[i].b += e.b * num / den
}

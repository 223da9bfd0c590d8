/*
DESCRIPTION
  pattern.go implements Knoll (pattern) dithering: for each pixel, generate
  N candidates by nudging the source color with a running error
  accumulator scaled by multiplier, quantize and sort the candidates by
  BT.601 luma, and pick the candidate indexed by the pixel's position in a
  Bayer threshold matrix. The accumulator is unsigned and saturating in
  both directions (matching the original's u8 err_acc), so error only
  ever pulls a candidate up, never down. Unlike Floyd-Steinberg, every
  pixel is independent of its neighbors, so rows are dithered concurrently
  across a worker pool.

  Ports colorful/src/pattern_dithering.rs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dither

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/kore-signet/ansi-three/internal/palette"
)

// MatrixSize selects a Bayer threshold matrix size, which in turn sets how
// many candidate colors Knoll dithering generates per pixel (size*size).
type MatrixSize uint8

const (
	Bayer2x2 MatrixSize = iota
	Bayer4x4
	Bayer8x8
)

// String names the matrix size. two/four/eight, not the matrix's bit
// dimension, matching how the original reports it on the CLI.
func (m MatrixSize) String() string {
	switch m {
	case Bayer2x2:
		return "two"
	case Bayer4x4:
		return "four"
	case Bayer8x8:
		return "eight"
	default:
		return "unknown"
	}
}

func (m MatrixSize) dim() int {
	switch m {
	case Bayer2x2:
		return 2
	case Bayer4x4:
		return 4
	default:
		return 8
	}
}

func (m MatrixSize) matrix() []int {
	switch m {
	case Bayer2x2:
		return bayer2x2[:]
	case Bayer4x4:
		return bayer4x4[:]
	default:
		return bayer8x8[:]
	}
}

var bayer2x2 = [4]int{0, 2, 3, 1}

var bayer4x4 = [16]int{
	0, 8, 2, 10,
	12, 4, 14, 6,
	3, 11, 1, 9,
	15, 7, 13, 5,
}

// bayer8x8 is the fixed 8x8 Bayer matrix literal from the original source
// (not recursively derived from bayer4x4 -- its quadrant layout doesn't
// match the naive recursive expansion, so the literal is kept verbatim).
var bayer8x8 = [64]int{
	0, 48, 12, 60, 3, 51, 15, 63,
	32, 16, 44, 28, 35, 19, 47, 31,
	8, 56, 4, 52, 11, 59, 7, 55,
	40, 24, 36, 20, 43, 27, 39, 23,
	2, 50, 14, 62, 1, 49, 13, 61,
	34, 18, 46, 30, 33, 17, 45, 29,
	10, 58, 6, 54, 9, 57, 5, 53,
	42, 26, 38, 22, 41, 25, 37, 21,
}

func luma601(c palette.RGB) int32 {
	return 299*int32(c[0]) + 587*int32(c[1]) + 114*int32(c[2])
}

// Pattern quantizes width*height RGB pixels in px using Knoll/ordered
// dithering at the given matrix size, writing one palette index per pixel
// into dst. multiplier scales the running error accumulator between
// candidates (0 disables error feedback entirely, so every candidate is
// the nearest palette color and the result is plain nearest-color
// quantization). Rows are partitioned across a bounded worker pool since
// each pixel's candidate generation is independent of its neighbors.
func Pattern(q *palette.Quantizer, px []palette.RGB, width, height int, size MatrixSize, multiplier float32, dst []uint8) error {
	if len(px) != width*height || len(dst) != width*height {
		panic("dither: Pattern dimension mismatch")
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}
	if workers < 1 {
		workers = 1
	}
	rowsPerWorker := (height + workers - 1) / workers

	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		y0 := w * rowsPerWorker
		y1 := y0 + rowsPerWorker
		if y1 > height {
			y1 = height
		}
		if y0 >= y1 {
			continue
		}
		g.Go(func() error {
			ditherRows(q, px, width, y0, y1, size, multiplier, dst)
			return nil
		})
	}
	return g.Wait()
}

// satSubU8 and satAddU8 mirror Rust's u8::saturating_sub/saturating_add:
// the accumulator never goes negative and never wraps past 255.
func satSubU8(a, b uint8) uint8 {
	if a < b {
		return 0
	}
	return a - b
}

func satAddU8(a, b uint8) uint8 {
	s := int32(a) + int32(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

func ditherRows(q *palette.Quantizer, px []palette.RGB, width, y0, y1 int, size MatrixSize, multiplier float32, dst []uint8) {
	dim := size.dim()
	mat := size.matrix()
	n := dim * dim

	candidates := make([]palette.RGB, n)
	candIdx := make([]uint8, n)
	order := make([]int, n)

	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			orig := px[i]

			var errAcc [3]uint8
			for c := 0; c < n; c++ {
				nudged := palette.RGB{
					nudgeChannel(orig[0], errAcc[0], multiplier),
					nudgeChannel(orig[1], errAcc[1], multiplier),
					nudgeChannel(orig[2], errAcc[2], multiplier),
				}
				idx := q.Nearest(nudged)
				chosen := palette.PALETTE[idx]
				candidates[c] = chosen
				candIdx[c] = idx
				order[c] = c

				errAcc[0] = satAddU8(errAcc[0], satSubU8(orig[0], chosen[0]))
				errAcc[1] = satAddU8(errAcc[1], satSubU8(orig[1], chosen[1]))
				errAcc[2] = satAddU8(errAcc[2], satSubU8(orig[2], chosen[2]))
			}

			sort.SliceStable(order, func(a, b int) bool {
				return luma601(candidates[order[a]]) < luma601(candidates[order[b]])
			})

			threshold := mat[(y%dim)*dim+(x%dim)]
			dst[i] = candIdx[order[threshold]]
		}
	}
}

// nudgeChannel reproduces `(color + err_acc*multiplier).clamp(0,255) as u8`:
// the cast to u8 in the original truncates toward zero rather than
// rounding, so the clamp happens in float space before the int conversion.
func nudgeChannel(color, errAcc uint8, multiplier float32) uint8 {
	v := float32(color) + float32(errAcc)*multiplier
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

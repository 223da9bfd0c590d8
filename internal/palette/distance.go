/*
DESCRIPTION
  distance.go implements the three perceptual distance metrics used to
  quantize arbitrary RGB pixels onto the fixed 256-color palette: CIE76
  (plain Lab Euclidean distance), CIE94 (weighted Lab distance), and
  CAM02-UCS (Euclidean distance in the UCS-compressed CIECAM02 space built
  by cam02.go). Ports colorful/src/palette.rs's `NearestColor` trait family.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package palette

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Metric selects the perceptual color-distance function a Quantizer uses.
type Metric int

const (
	// CIE76 is plain Euclidean distance in CIE L*a*b*.
	CIE76 Metric = iota
	// CIE94 is the graphic-arts-weighted CIE L*a*b* distance.
	CIE94
	// CAM02UCS is Euclidean distance in CIECAM02-UCS J'a'b' space.
	CAM02UCS
)

// Quantizer maps an arbitrary 24-bit RGB pixel onto the nearest of the 256
// fixed palette entries under a chosen perceptual metric. Nearest and
// BatchNearest only read the palette tables and never write to the
// Quantizer (neither touches its scratch field), so a single Quantizer may
// be shared across goroutines.
type Quantizer struct {
	metric Metric
	table  *[Size][4]float64
	scratch mat.VecDense
}

// NewQuantizer builds a Quantizer for the given metric. palette.Init (or
// SetANSITheme) must have run first; both arrange for that via init().
func NewQuantizer(metric Metric) *Quantizer {
	q := &Quantizer{metric: metric}
	switch metric {
	case CAM02UCS:
		q.table = &JabPalette
	default:
		q.table = &LabPalette
	}
	q.scratch = *mat.NewVecDense(3, nil)
	return q
}

// Nearest returns the palette index closest to c under the Quantizer's
// metric. An exact RGB match always short-circuits to ReversePalette,
// regardless of metric, since zero distance is zero distance.
func (q *Quantizer) Nearest(c RGB) uint8 {
	if idx, ok := ReversePalette[c]; ok {
		return idx
	}

	switch q.metric {
	case CIE76:
		l, a, b := rgbToLab(c)
		return q.nearestLab(l, a, b, cie76Dist)
	case CIE94:
		l, a, b := rgbToLab(c)
		return q.nearestLab(l, a, b, cie94Dist)
	default:
		j, a, b := rgbToJab(c)
		return q.nearestLab(j, a, b, cie76Dist)
	}
}

type distFunc func(l1, a1, b1, l2, a2, b2 float64) float64

func (q *Quantizer) nearestLab(l, a, b float64, dist distFunc) uint8 {
	best := uint8(0)
	bestDist := math.Inf(1)
	for i := 0; i < Size; i++ {
		e := q.table[i]
		d := dist(l, a, b, e[0], e[1], e[2])
		if d < bestDist {
			bestDist = d
			best = uint8(i)
		}
	}
	return best
}

func cie76Dist(l1, a1, b1, l2, a2, b2 float64) float64 {
	dl := l1 - l2
	da := a1 - a2
	db := b1 - b2
	return dl*dl + da*da + db*db
}

// cie94Dist implements the graphic-arts weighted CIE94 formula with the
// standard kL=kC=kH=1, K1=0.045, K2=0.015 constants, comparing the squared
// distance (monotonic with the square root used by the textbook formula,
// and cheaper: Nearest only needs relative ordering).
func cie94Dist(l1, a1, b1, l2, a2, b2 float64) float64 {
	const k1, k2 = 0.045, 0.015

	dl := l1 - l2
	c1 := math.Hypot(a1, b1)
	c2 := math.Hypot(a2, b2)
	dc := c1 - c2

	da := a1 - a2
	db := b1 - b2
	dhSq := da*da + db*db - dc*dc
	if dhSq < 0 {
		dhSq = 0
	}

	sl := 1.0
	sc := 1 + k1*c1
	sh := 1 + k2*c1

	tl := dl / sl
	tc := dc / sc
	th := math.Sqrt(dhSq) / sh

	return tl*tl + tc*tc + th*th
}

// BatchNearest quantizes every pixel in px (packed RGB, row-major) against
// the Quantizer's palette, writing one index per pixel into dst. For CIE76
// and CAM02-UCS, both plain Euclidean, it computes each pixel's dot
// products with all palette entries as one gonum matrix-vector multiply;
// CIE94 is not plain Euclidean and uses the same scalar per-candidate loop
// as Nearest.
func (q *Quantizer) BatchNearest(px []RGB, dst []uint8) {
	if len(dst) < len(px) {
		panic("palette: BatchNearest dst shorter than px")
	}

	// Precompute the palette as a 256x3 matrix once per call; for CIE76 the
	// nearest-neighbor search reduces to ||p - e||^2 = ||p||^2 - 2 p.e +
	// ||e||^2, letting gonum's VecDense.MulVec do the O(256*3) dot-product
	// term as a single matrix-vector multiply per pixel.
	paletteMat := mat.NewDense(Size, 3, nil)
	for i := 0; i < Size; i++ {
		e := q.table[i]
		paletteMat.Set(i, 0, e[0])
		paletteMat.Set(i, 1, e[1])
		paletteMat.Set(i, 2, e[2])
	}
	eNormSq := make([]float64, Size)
	for i := 0; i < Size; i++ {
		e := q.table[i]
		eNormSq[i] = e[0]*e[0] + e[1]*e[1] + e[2]*e[2]
	}

	pvec := mat.NewVecDense(3, nil)
	dots := mat.NewVecDense(Size, nil)

	for i, c := range px {
		if idx, ok := ReversePalette[c]; ok {
			dst[i] = idx
			continue
		}

		var l, a, b float64
		if q.metric == CAM02UCS {
			l, a, b = rgbToJab(c)
		} else {
			l, a, b = rgbToLab(c)
		}

		if q.metric == CIE94 {
			dst[i] = q.nearestLab(l, a, b, cie94Dist)
			continue
		}

		pvec.SetVec(0, l)
		pvec.SetVec(1, a)
		pvec.SetVec(2, b)
		dots.MulVec(paletteMat, pvec)

		pNormSq := l*l + a*a + b*b
		best := uint8(0)
		bestDist := math.Inf(1)
		for j := 0; j < Size; j++ {
			d := pNormSq - 2*dots.AtVec(j) + eNormSq[j]
			if d < bestDist {
				bestDist = d
				best = uint8(j)
			}
		}
		dst[i] = best
	}
}

/*
DESCRIPTION
  cam02.go implements the forward CIECAM02 appearance model and its
  CAM02-UCS (Luo et al. 2006) uniform-space compression, under a fixed
  "average surround, D65, sRGB-typical viewing" condition. This mirrors the
  kasi_kule crate's role in the original implementation
  (colorful/build.rs: `Jab::<UCS>::from(rgb)`).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package palette

import "math"

// Viewing condition constants for "average" surround under typical sRGB
// display viewing (the same defaults most CIECAM02 implementations use
// for an uncalibrated monitor): La=64 cd/m^2, Yb=20 (20% gray background).
const (
	camLa = 64.0
	camYb = 20.0
	camF  = 1.0
	camC  = 0.69
	camNc = 1.0
)

// CAT02 chromatic adaptation matrix and its use in deriving the
// Hunt-Pointer-Estevez transform, per Moroney et al. 2002.
var mCAT02 = [3][3]float64{
	{0.7328, 0.4296, -0.1624},
	{-0.7036, 1.6975, 0.0061},
	{0.0030, 0.0136, 0.9834},
}

var mHPEFromCAT02 = [3][3]float64{
	{0.7409792, 0.2180250, 0.0410058},
	{0.2853532, 0.6242014, 0.0904454},
	{-0.0096280, -0.0056980, 1.0153256},
}

func matVec(m [3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

type camViewingConditions struct {
	FL, Nbb, Ncb, z, n, D float64
	Aw                    float64
}

func adaptingConditions(xw, yw, zw float64) camViewingConditions {
	k := 1 / (5*camLa + 1)
	fl := 0.2*math.Pow(k, 4)*(5*camLa) + 0.1*math.Pow(1-math.Pow(k, 4), 2)*math.Cbrt(5*camLa)

	n := camYb / yw
	nbb := 0.725 * math.Pow(1/n, 0.2)
	z := 1.48 + math.Sqrt(n)
	d := camF * (1 - (1/3.6)*math.Exp((-camLa-42)/92))
	if d < 0 {
		d = 0
	} else if d > 1 {
		d = 1
	}

	vc := camViewingConditions{FL: fl, Nbb: nbb, Ncb: nbb, z: z, n: n, D: d}

	rgbw := matVec(mCAT02, [3]float64{xw, yw, zw})
	rgbcw := [3]float64{
		((yw*d/rgbw[0])+(1-d)) * rgbw[0],
		((yw*d/rgbw[1])+(1-d)) * rgbw[1],
		((yw*d/rgbw[2])+(1-d)) * rgbw[2],
	}
	hpeW := matVec(mHPEFromCAT02, rgbcw)
	adaptedW := [3]float64{
		adapt(hpeW[0], fl),
		adapt(hpeW[1], fl),
		adapt(hpeW[2], fl),
	}
	aw := (2*adaptedW[0] + adaptedW[1] + adaptedW[2]/20 - 0.305) * nbb
	vc.Aw = aw
	return vc
}

var d65VC = adaptingConditions(whiteX, whiteY, whiteZ)

func adapt(c, fl float64) float64 {
	t := math.Pow(fl*c/100, 0.42)
	return 400*t/(t+27.13) + 0.1
}

// rgbToJab converts an 8-bit sRGB triple to CAM02-UCS J'/a'/b' coordinates
// under the package's fixed D65/average-surround viewing condition.
func rgbToJab(c RGB) (jp, ap, bp float64) {
	x, y, z := rgbToXYZ(c)
	vc := d65VC

	rgb := matVec(mCAT02, [3]float64{x, y, z})
	rgbw := matVec(mCAT02, [3]float64{whiteX, whiteY, whiteZ})
	rgbc := [3]float64{
		((whiteY*vc.D/rgbw[0])+(1-vc.D)) * rgb[0],
		((whiteY*vc.D/rgbw[1])+(1-vc.D)) * rgb[1],
		((whiteY*vc.D/rgbw[2])+(1-vc.D)) * rgb[2],
	}
	hpe := matVec(mHPEFromCAT02, rgbc)

	adapted := [3]float64{adapt(hpe[0], vc.FL), adapt(hpe[1], vc.FL), adapt(hpe[2], vc.FL)}

	a := adapted[0] - 12*adapted[1]/11 + adapted[2]/11
	b := (adapted[0] + adapted[1] - 2*adapted[2]) / 9

	h := math.Atan2(b, a)
	if h < 0 {
		h += 2 * math.Pi
	}

	achromatic := (2*adapted[0] + adapted[1] + adapted[2]/20 - 0.305) * vc.Nbb

	J := 100 * math.Pow(achromatic/vc.Aw, camC*vc.z)

	et := 0.25 * (math.Cos(h+2) + 3.8)
	t := (50000.0 / 13.0 * camNc * vc.Ncb * et * math.Hypot(a, b)) /
		(adapted[0] + adapted[1] + 21*adapted[2]/20)

	C := math.Pow(t, 0.9) * math.Sqrt(J/100) * math.Pow(1.64-math.Pow(0.29, vc.n), 0.73)
	M := C * math.Pow(vc.FL, 0.25)

	const c1, c2 = 0.007, 0.0228
	jp = (1 + 100*c1) * J / (1 + c1*J)
	mp := math.Log(1+c2*M) / c2
	ap = mp * math.Cos(h)
	bp = mp * math.Sin(h)
	return
}

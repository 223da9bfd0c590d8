package palette

import "math"

// D65 reference white, 2-degree observer, normalized to Y=100.
const (
	whiteX = 95.047
	whiteY = 100.0
	whiteZ = 108.883
)

func srgbChannelToLinear(c float64) float64 {
	c /= 255.0
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// rgbToXYZ converts an 8-bit sRGB triple to CIE XYZ (D65, Y normalized to
// 100) using the standard sRGB primaries matrix.
func rgbToXYZ(c RGB) (x, y, z float64) {
	r := srgbChannelToLinear(float64(c[0]))
	g := srgbChannelToLinear(float64(c[1]))
	b := srgbChannelToLinear(float64(c[2]))

	x = (r*0.4124564 + g*0.3575761 + b*0.1804375) * 100
	y = (r*0.2126729 + g*0.7151522 + b*0.0721750) * 100
	z = (r*0.0193339 + g*0.1191920 + b*0.9503041) * 100
	return
}

func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

// rgbToLab converts an 8-bit sRGB triple to CIE L*a*b* (D65).
func rgbToLab(c RGB) (l, a, b float64) {
	x, y, z := rgbToXYZ(c)

	fx := labF(x / whiteX)
	fy := labF(y / whiteY)
	fz := labF(z / whiteZ)

	l = 116*fy - 16
	a = 500 * (fx - fy)
	b = 200 * (fy - fz)
	return
}

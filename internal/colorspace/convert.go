package colorspace

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Convert maps an 8-bit RGB triple into the given space.
//
// The function is total: any byte triple produces a finite coordinate. Lab
// conversions use go-colorful with the D65 or D50 reference white; Oklab and
// its cylindrical form Oklch use the closed-form transform over linearized
// sRGB; YCbCr uses the BT.601 full-range matrix.
func Convert(r, g, b uint8, space Space) Coord {
	switch space {
	case RGB:
		return Coord{float64(r), float64(g), float64(b)}
	case LabD65:
		l, a, bb := toColorful(r, g, b).LabWhiteRef(colorful.D65)
		return Coord{l, a, bb}
	case LabD50:
		l, a, bb := toColorful(r, g, b).LabWhiteRef(colorful.D50)
		return Coord{l, a, bb}
	case Oklab:
		return oklab(r, g, b)
	case Oklch:
		lab := oklab(r, g, b)
		c := math.Hypot(lab[1], lab[2])
		h := math.Atan2(lab[2], lab[1])
		return Coord{lab[0], c, h}
	case YCbCr:
		return ycbcr(r, g, b)
	case HSL:
		h, s, l := toColorful(r, g, b).Hsl()
		return Coord{h * math.Pi / 180, s, l}
	}
	// Unknown spaces fall back to RGB rather than panicking; matching still
	// produces a legal (if unintended) result.
	return Coord{float64(r), float64(g), float64(b)}
}

// Luma returns the BT.601 luma of an RGB triple on the 0-1 scale. The
// variable-coefficient diffuser keys its weights off this value.
func Luma(r, g, b float64) float64 {
	return (0.299*r + 0.587*g + 0.114*b) / 255
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}
}

// oklab implements the reference Oklab transform. go-colorful does not ship
// Oklab, so the matrix form is spelled out here.
func oklab(r8, g8, b8 uint8) Coord {
	r, g, b := toColorful(r8, g8, b8).LinearRgb()

	l := 0.4122214708*r + 0.5363325363*g + 0.0514459929*b
	m := 0.2119034982*r + 0.6806995451*g + 0.1073969566*b
	s := 0.0883024619*r + 0.2817188376*g + 0.6299787005*b

	lc := math.Cbrt(l)
	mc := math.Cbrt(m)
	sc := math.Cbrt(s)

	return Coord{
		0.2104542553*lc + 0.7936177850*mc - 0.0040720468*sc,
		1.9779984951*lc - 2.4285922050*mc + 0.4505937099*sc,
		0.0259040371*lc + 0.7827717662*mc - 0.8086757660*sc,
	}
}

// ycbcr applies the BT.601 full-range matrix. Cb and Cr come out centered at
// zero, which keeps the distance function a plain component difference.
func ycbcr(r8, g8, b8 uint8) Coord {
	r := float64(r8) / 255
	g := float64(g8) / 255
	b := float64(b8) / 255

	y := 0.299*r + 0.587*g + 0.114*b
	cb := -0.168736*r - 0.331264*g + 0.5*b
	cr := 0.5*r - 0.418688*g - 0.081312*b
	return Coord{y, cb, cr}
}

package colorspace

import "math"

// DefaultLuminanceWeight leaves the lightness term unscaled.
const DefaultLuminanceWeight = 1.0

// Distance returns the squared perceptual distance between two coordinates in
// the given space.
//
// For linear spaces this is squared Euclidean distance. For hue-bearing
// spaces (HSL, Oklch) the hue axis contributes a circular difference wrapped
// to [-pi, pi], weighted by the average saturation (HSL) or chroma (Oklch) of
// the two colors, so that hue disagreement between near-gray colors counts
// for little.
//
// lumWeight multiplies only the lightness term: L for the Lab variants,
// Oklab and Oklch, Y for YCbCr, L for HSL. RGB has no lightness axis and
// ignores the weight.
//
// Distance is symmetric: Distance(a, b, ...) == Distance(b, a, ...).
func Distance(a, b Coord, space Space, lumWeight float64) float64 {
	switch space {
	case RGB:
		dr := a[0] - b[0]
		dg := a[1] - b[1]
		db := a[2] - b[2]
		return dr*dr + dg*dg + db*db
	case HSL:
		dh := wrapAngle(a[0] - b[0])
		sat := (a[1] + b[1]) / 2
		dhw := dh * sat
		ds := a[1] - b[1]
		dl := a[2] - b[2]
		return dhw*dhw + ds*ds + lumWeight*dl*dl
	case Oklch:
		dh := wrapAngle(a[2] - b[2])
		chroma := (a[1] + b[1]) / 2
		dhw := dh * chroma
		dc := a[1] - b[1]
		dl := a[0] - b[0]
		return lumWeight*dl*dl + dc*dc + dhw*dhw
	default:
		// LabD65, LabD50, Oklab, YCbCr: lightness first, chrominance after.
		dl := a[0] - b[0]
		d1 := a[1] - b[1]
		d2 := a[2] - b[2]
		return lumWeight*dl*dl + d1*d1 + d2*d2
	}
}

// FidelityDistance returns the full (non-squared) CIEDE2000 difference
// between two 8-bit RGB triples.
//
// This metric exists for final fidelity scoring of a completed conversion. It
// must never be used inside per-pixel matching loops; use Distance there.
func FidelityDistance(r1, g1, b1, r2, g2, b2 uint8) float64 {
	c1 := toColorful(r1, g1, b1)
	c2 := toColorful(r2, g2, b2)
	return c1.DistanceCIEDE2000(c2)
}

// wrapAngle normalizes an angle difference into [-pi, pi].
func wrapAngle(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

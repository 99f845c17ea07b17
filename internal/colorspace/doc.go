// Package colorspace provides RGB-to-perceptual color conversions and the
// distance functions used by palette matching.
//
// All conversions are pure functions of an 8-bit-per-channel RGB triple. No
// validation is performed; out-of-range inputs are clamped implicitly by the
// arithmetic. Coordinates are represented as a [3]float64 whose meaning
// depends on the space:
//   - RGB: components on the 0-255 scale
//   - LabD65, LabD50: L, a, b (L normalized to 0-1)
//   - Oklab: L, a, b
//   - Oklch: L, C, h (h in radians)
//   - YCbCr: Y, Cb, Cr on the 0-1 scale (Cb/Cr centered at 0)
//   - HSL: h (radians), S, L
//
// # Distance Semantics
//
// Distance returns a squared Euclidean distance in linear spaces. Hue-bearing
// spaces (HSL, Oklch) replace the first-axis difference with a circular hue
// difference wrapped to [-pi, pi] and weighted by the average saturation or
// chroma of the two colors. A configurable luminance weight multiplies only
// the lightness term of spaces that have one.
//
// FidelityDistance computes full (non-squared) CIEDE2000 and exists for final
// perceptual-fidelity scoring only. It is deliberately kept out of per-pixel
// matching loops; it is roughly an order of magnitude slower than the squared
// metrics.
//
// # Thread Safety
//
// Every function in this package is stateless and safe for concurrent use.
package colorspace

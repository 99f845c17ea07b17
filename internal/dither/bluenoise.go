package dither

import "math"

// blueNoise returns a deterministic value in [0, 1) for a pixel coordinate
// whose spatial spectrum approximates blue noise. It is the interleaved
// gradient construction: cheap, closed-form, and free of visible tiling,
// which also makes it directly expressible in shader arithmetic.
func blueNoise(x, y int) float64 {
	v := 52.9829189 * frac(0.06711056*float64(x)+0.00583715*float64(y))
	return frac(v)
}

// BlueNoiseBias converts the noise value into a signed additive color bias
// scaled by strength (in 0-255 channel units). The bias is centered so the
// expected value over the plane is zero.
func BlueNoiseBias(x, y int, strength float64) float64 {
	return (blueNoise(x, y) - 0.5) * strength
}

func frac(v float64) float64 {
	return v - math.Floor(v)
}

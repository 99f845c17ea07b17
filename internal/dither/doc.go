// Package dither implements the dithering algorithm family: fixed-kernel and
// variable-coefficient error diffusion, ordered threshold matrices, a
// procedural blue-noise bias, and Hilbert-curve traversal with a decaying
// error queue.
//
// The package deliberately knows nothing about palettes. Every algorithm
// operates on float pixel buffers and emits pure decisions or biases; the
// engine combines them with nearest-entry matching.
//
// # Buffer Layout
//
// Pixel buffers are flat []float64 slices holding one RGB triple per pixel in
// row-major order: the triple for (x, y) starts at 3*(y*width+x). Components
// may leave the 0-255 range while error is in flight; clamping happens at
// match time, not here.
//
// # Scan Order
//
// Processing order is a correctness requirement. Fixed kernels diffuse
// forward and below only and assume strict raster order. The
// variable-coefficient diffuser requires serpentine scanning with its offsets
// mirrored to the scan direction. Hilbert diffusion follows the generated
// curve order exactly.
package dither

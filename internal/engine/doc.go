// Package engine converts a raster image into per-pixel palette assignments.
//
// The engine combines nearest-entry matching over a built palette with one of
// the dithering algorithms, producing a quantized image, a parallel array of
// per-pixel (group, tone) assignments, and a grid of 128x128 sections
// carrying per-group pixel counts. Raster methods run one full-image causal
// pass; column methods delegate each column to the solver package, strictly
// left to right.
//
// Output is bit-for-bit reproducible for identical input and settings unless
// the explicitly non-deterministic seed option is enabled.
//
// # Cancellation and Progress
//
// A running pass is not preemptible: cancellation is checked by the
// orchestration layer between phases, never inside the pixel loops. Progress
// is reported through an optional callback with monotonically non-decreasing
// values in 0..1 at coarse granularity; a final call at exactly 1 is
// guaranteed.
package engine

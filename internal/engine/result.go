package engine

import (
	"image"

	"github.com/ironsheep/relief-mapper/internal/palette"
)

// Assignment is the engine's sole per-pixel output unit: the source group and
// tone class a pixel resolved to. A zero Assignment (empty GroupID) marks a
// pixel excluded by transparency handling.
type Assignment struct {
	GroupID string
	Tone    palette.Tone
}

// Result is the complete output of one conversion.
type Result struct {
	// Image holds the quantized colors at the input dimensions. Excluded
	// pixels are fully transparent.
	Image *image.NRGBA
	// Assignments is row-major, one per pixel, parallel to the image.
	Assignments []Assignment
	// Sections carries per-group pixel counts in 128x128 tiles.
	Sections *SectionGrid
	// Report is the perceptual-fidelity summary; see Report.
	Report Report
	// Digest is a 64-bit hash of the quantized pixel data, stable across
	// runs for identical input and settings.
	Digest uint64
}

func newResult(w, h int) *Result {
	return &Result{
		Image:       image.NewNRGBA(image.Rect(0, 0, w, h)),
		Assignments: make([]Assignment, w*h),
		Sections:    NewSectionGrid(w, h),
	}
}

package engine

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// edgeMask runs the edge-preservation pre-pass: a per-pixel mask of strong
// luminance edges. Diffusing passes skip masked pixels as error targets, so
// quantization noise does not bleed across contours.
//
// The pre-pass requires per-pixel branching in the diffusion loop, which is
// why its presence disqualifies a request from accelerated execution.
func edgeMask(img *image.NRGBA, threshold float64) []bool {
	edges := effect.EdgeDetection(img, 1.0)
	b := edges.Bounds()
	w, h := b.Dx(), b.Dy()
	limit := threshold * 255

	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := edges.PixOffset(b.Min.X+x, b.Min.Y+y)
			lum := 0.299*float64(edges.Pix[o]) +
				0.587*float64(edges.Pix[o+1]) +
				0.114*float64(edges.Pix[o+2])
			mask[y*w+x] = lum > limit
		}
	}
	return mask
}

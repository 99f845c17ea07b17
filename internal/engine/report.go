package engine

import (
	"image"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/relief-mapper/internal/colorspace"
)

// Report summarizes the perceptual fidelity of a conversion: CIEDE2000
// differences between the source and the quantized output, over the pixels
// that received an assignment.
type Report struct {
	MeanError float64
	StdDev    float64
	MaxError  float64
	Pixels    int
}

// finalize fills the fidelity report and the output digest. This is the only
// place CIEDE2000 runs; matching loops never use it.
func (e *Engine) finalize(src *image.NRGBA, res *Result) {
	b := res.Image.Rect
	w, h := b.Dx(), b.Dy()

	diffs := make([]float64, 0, w*h)
	maxErr := 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if res.Assignments[y*w+x].GroupID == "" {
				continue
			}
			so := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			oo := res.Image.PixOffset(x, y)
			d := colorspace.FidelityDistance(
				src.Pix[so], src.Pix[so+1], src.Pix[so+2],
				res.Image.Pix[oo], res.Image.Pix[oo+1], res.Image.Pix[oo+2],
			)
			diffs = append(diffs, d)
			if d > maxErr {
				maxErr = d
			}
		}
	}

	if len(diffs) > 0 {
		mean, std := stat.MeanStdDev(diffs, nil)
		res.Report = Report{MeanError: mean, StdDev: std, MaxError: maxErr, Pixels: len(diffs)}
	}
	res.Digest = xxhash.Sum64(res.Image.Pix)
}

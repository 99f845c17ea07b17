package engine

import (
	"github.com/ironsheep/relief-mapper/internal/dither"
	"github.com/ironsheep/relief-mapper/internal/palette"
)

// progressStride is how many rows (or columns) pass between progress
// callbacks; the contract is coarse, irregular granularity.
const progressStride = 16

// passPointwise runs any stateless per-pixel decision rule in raster order.
func (e *Engine) passPointwise(pb *PixelBuffer, res *Result, m *palette.Matcher,
	p *progressTracker, pick func(x, y int, r, g, b float64) *palette.Entry) {

	for y := 0; y < pb.H; y++ {
		for x := 0; x < pb.W; x++ {
			if pb.Skip[y*pb.W+x] {
				continue
			}
			r, g, b := pb.At(x, y)
			e.commit(res, x, y, pick(x, y, r, g, b))
		}
		if y%progressStride == 0 {
			p.report(mainSpan(float64(y) / float64(pb.H)))
		}
	}
}

// passKernel is fixed-kernel error diffusion: strict raster order, the
// quantization error of each pixel spread forward and below through the
// kernel table. Taps falling off the image or onto masked pixels are dropped.
func (e *Engine) passKernel(pb *PixelBuffer, res *Result, m *palette.Matcher,
	mask []bool, p *progressTracker) {

	k := e.res.kernel
	for y := 0; y < pb.H; y++ {
		for x := 0; x < pb.W; x++ {
			if pb.Skip[y*pb.W+x] {
				continue
			}
			r, g, b := pb.At(x, y)
			entry := m.Nearest(r, g, b)
			e.commit(res, x, y, entry)
			k.Diffuse(pb.Px, pb.W, pb.H, x, y,
				r-float64(entry.RGB[0]), g-float64(entry.RGB[1]), b-float64(entry.RGB[2]), mask)
		}
		if y%progressStride == 0 {
			p.report(mainSpan(float64(y) / float64(pb.H)))
		}
	}
}

// passVariable is the variable-coefficient diffuser: serpentine scanning with
// per-pixel weights derived from the pixel's distance to mid-gray, diffusion
// offsets mirrored to the scan direction.
func (e *Engine) passVariable(pb *PixelBuffer, res *Result, m *palette.Matcher,
	mask []bool, p *progressTracker) {

	for y := 0; y < pb.H; y++ {
		dir := 1
		x0 := 0
		if y%2 == 1 {
			dir = -1
			x0 = pb.W - 1
		}
		for x := x0; x >= 0 && x < pb.W; x += dir {
			if pb.Skip[y*pb.W+x] {
				continue
			}
			r, g, b := pb.At(x, y)
			entry := m.Nearest(r, g, b)
			e.commit(res, x, y, entry)

			vw := dither.VariableWeights(luma01(r, g, b))
			dither.DiffuseVariable(pb.Px, pb.W, pb.H, x, y,
				r-float64(entry.RGB[0]), g-float64(entry.RGB[1]), b-float64(entry.RGB[2]),
				vw, dir, mask)
		}
		if y%progressStride == 0 {
			p.report(mainSpan(float64(y) / float64(pb.H)))
		}
	}
}

// passHilbert walks the Hilbert curve over the image, carrying the decaying
// error queue. Skipped pixels neither consume nor contribute error.
func (e *Engine) passHilbert(pb *PixelBuffer, res *Result, m *palette.Matcher, p *progressTracker) {
	pts := dither.HilbertPoints(pb.W, pb.H)
	q := dither.NewErrorQueue(dither.DefaultQueueDepth, dither.DefaultQueueRatio)

	for i, pt := range pts {
		if pb.Skip[pt.Y*pb.W+pt.X] {
			continue
		}
		ar, ag, ab := q.Accumulated()
		r, g, b := pb.At(pt.X, pt.Y)
		entry := m.Nearest(r+ar, g+ag, b+ab)
		e.commit(res, pt.X, pt.Y, entry)
		q.Push(r+ar-float64(entry.RGB[0]), g+ag-float64(entry.RGB[1]), b+ab-float64(entry.RGB[2]))

		if i%(progressStride*64) == 0 {
			p.report(mainSpan(float64(i) / float64(len(pts))))
		}
	}
}

package dither

import (
	"image"
	"math"
)

// HilbertPoints generates the Hilbert curve over the smallest power-of-two
// square enclosing a w by h image, dropping points outside the image while
// preserving curve order. The returned slice visits every pixel exactly once.
func HilbertPoints(w, h int) []image.Point {
	side := 1
	for side < w || side < h {
		side <<= 1
	}
	pts := make([]image.Point, 0, w*h)
	for d := 0; d < side*side; d++ {
		x, y := hilbertD2XY(side, d)
		if x < w && y < h {
			pts = append(pts, image.Point{X: x, Y: y})
		}
	}
	return pts
}

// hilbertD2XY converts a distance along the curve to coordinates on an
// n-by-n grid (n a power of two). Standard quadrant-rotation walk.
func hilbertD2XY(n, d int) (int, int) {
	x, y := 0, 0
	t := d
	for s := 1; s < n; s *= 2 {
		rx := 1 & (t / 2)
		ry := 1 & (t ^ rx)
		// Rotate the quadrant accumulated so far.
		if ry == 0 {
			if rx == 1 {
				x = s - 1 - x
				y = s - 1 - y
			}
			x, y = y, x
		}
		x += s * rx
		y += s * ry
		t /= 4
	}
	return x, y
}

// ErrorQueue is the fixed-depth, exponentially decaying error store used by
// Hilbert-curve diffusion. Slot 0 is the newest error and carries weight 1;
// the oldest slot carries weight 1/ratio, with exponential decay between.
// Pushing drops the oldest entry.
type ErrorQueue struct {
	depth   int
	ratio   float64
	weights []float64
	errs    [][3]float64
}

// DefaultQueueDepth and DefaultQueueRatio reproduce the reference queue: 16
// entries, newest weighted 16 times the oldest.
const (
	DefaultQueueDepth = 16
	DefaultQueueRatio = 16.0
)

// NewErrorQueue creates a queue of the given depth and newest-to-oldest
// weight ratio. Depth must be at least 1; ratio at least 1.
func NewErrorQueue(depth int, ratio float64) *ErrorQueue {
	if depth < 1 {
		depth = 1
	}
	if ratio < 1 {
		ratio = 1
	}
	q := &ErrorQueue{
		depth:   depth,
		ratio:   ratio,
		weights: make([]float64, depth),
		errs:    make([][3]float64, depth),
	}
	for i := range q.weights {
		if depth == 1 {
			q.weights[i] = 1
			continue
		}
		// weight(age) = ratio^(-age/(depth-1)): 1 at the head, 1/ratio at
		// the tail.
		q.weights[i] = math.Pow(ratio, -float64(i)/float64(depth-1))
	}
	return q
}

// Accumulated returns the weighted sum of the queued errors, the bias to add
// to the next pixel before matching.
func (q *ErrorQueue) Accumulated() (r, g, b float64) {
	for i, e := range q.errs {
		w := q.weights[i]
		r += e[0] * w
		g += e[1] * w
		b += e[2] * w
	}
	return r, g, b
}

// Push records the newest quantization error at the queue head, dropping the
// oldest entry.
func (q *ErrorQueue) Push(r, g, b float64) {
	copy(q.errs[1:], q.errs[:q.depth-1])
	q.errs[0] = [3]float64{r, g, b}
}

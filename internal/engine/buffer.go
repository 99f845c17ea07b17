package engine

import (
	"image"
)

// PixelBuffer is the mutable working copy of an image: one float RGB triple
// per pixel, row-major, plus a per-pixel skip mask for pixels excluded by
// transparency handling.
//
// A buffer is exclusively owned by one engine invocation. Components drift
// outside 0-255 while diffused error is in flight; they are clamped at match
// time.
type PixelBuffer struct {
	W, H int
	Px   []float64 // 3*(y*W+x) is the red component of (x, y)
	Skip []bool    // true: pixel excluded from matching and output
}

// NewPixelBuffer builds a working buffer from an 8-bit RGBA image according
// to the transparency settings.
//
// Pixels with alpha below the threshold are either marked skipped
// (TransparencySkip) or composited over the background color
// (TransparencyFill). Partially transparent pixels at or above the threshold
// are composited over the background as well, so the matched color is what a
// viewer would see.
func NewPixelBuffer(img *image.NRGBA, s Settings) *PixelBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pb := &PixelBuffer{
		W:    w,
		H:    h,
		Px:   make([]float64, 3*w*h),
		Skip: make([]bool, w*h),
	}

	bg := [3]float64{float64(s.Background[0]), float64(s.Background[1]), float64(s.Background[2])}
	for y := 0; y < h; y++ {
		row := img.Pix[(y+b.Min.Y-img.Rect.Min.Y)*img.Stride:]
		for x := 0; x < w; x++ {
			o := (x + b.Min.X - img.Rect.Min.X) * 4
			r := float64(row[o])
			g := float64(row[o+1])
			bl := float64(row[o+2])
			a := row[o+3]

			i := y*w + x
			if a < s.AlphaThreshold {
				if s.Transparency == TransparencySkip {
					pb.Skip[i] = true
					// Keep the background color in place so column solves
					// see a defined value.
					pb.Px[3*i], pb.Px[3*i+1], pb.Px[3*i+2] = bg[0], bg[1], bg[2]
					continue
				}
			}
			if a < 255 {
				af := float64(a) / 255
				r = r*af + bg[0]*(1-af)
				g = g*af + bg[1]*(1-af)
				bl = bl*af + bg[2]*(1-af)
			}
			pb.Px[3*i], pb.Px[3*i+1], pb.Px[3*i+2] = r, g, bl
		}
	}
	return pb
}

// Clone returns an independent copy; passes mutate buffers in place, so
// backends that may retry need a pristine copy.
func (pb *PixelBuffer) Clone() *PixelBuffer {
	cp := &PixelBuffer{
		W:    pb.W,
		H:    pb.H,
		Px:   make([]float64, len(pb.Px)),
		Skip: make([]bool, len(pb.Skip)),
	}
	copy(cp.Px, pb.Px)
	copy(cp.Skip, pb.Skip)
	return cp
}

// At returns the current RGB triple at (x, y).
func (pb *PixelBuffer) At(x, y int) (float64, float64, float64) {
	i := 3 * (y*pb.W + x)
	return pb.Px[i], pb.Px[i+1], pb.Px[i+2]
}

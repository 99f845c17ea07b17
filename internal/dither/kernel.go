package dither

import "fmt"

// Tap is one target of an error-diffusion kernel: an offset from the current
// pixel and the weight of the error share it receives.
type Tap struct {
	DX, DY int
	Weight float64
}

// Kernel is a fixed error-diffusion weight table. All taps point forward in
// scan order (same row to the right, or rows below), so a single causal
// raster pass suffices.
//
// Taps falling outside the image are skipped without renormalizing the
// remainder; the lost error mass at borders is an accepted approximation of
// the reference behavior and must not be "fixed".
type Kernel struct {
	Name    string
	Taps    []Tap
	Divisor float64
}

// Named diffusion kernels.
var (
	FloydSteinberg = Kernel{
		Name: "floyd-steinberg",
		Taps: []Tap{{1, 0, 7}, {-1, 1, 3}, {0, 1, 5}, {1, 1, 1}},
		Divisor: 16,
	}
	JarvisJudiceNinke = Kernel{
		Name: "jarvis-judice-ninke",
		Taps: []Tap{
			{1, 0, 7}, {2, 0, 5},
			{-2, 1, 3}, {-1, 1, 5}, {0, 1, 7}, {1, 1, 5}, {2, 1, 3},
			{-2, 2, 1}, {-1, 2, 3}, {0, 2, 5}, {1, 2, 3}, {2, 2, 1},
		},
		Divisor: 48,
	}
	Stucki = Kernel{
		Name: "stucki",
		Taps: []Tap{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
			{-2, 2, 1}, {-1, 2, 2}, {0, 2, 4}, {1, 2, 2}, {2, 2, 1},
		},
		Divisor: 42,
	}
	Atkinson = Kernel{
		Name: "atkinson",
		Taps: []Tap{
			{1, 0, 1}, {2, 0, 1},
			{-1, 1, 1}, {0, 1, 1}, {1, 1, 1},
			{0, 2, 1},
		},
		// Atkinson deliberately diffuses only 6/8 of the error.
		Divisor: 8,
	}
	Burkes = Kernel{
		Name: "burkes",
		Taps: []Tap{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
		},
		Divisor: 32,
	}
	Sierra = Kernel{
		Name: "sierra",
		Taps: []Tap{
			{1, 0, 5}, {2, 0, 3},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 5}, {1, 1, 4}, {2, 1, 2},
			{-1, 2, 2}, {0, 2, 3}, {1, 2, 2},
		},
		Divisor: 32,
	}
	TwoRowSierra = Kernel{
		Name: "two-row-sierra",
		Taps: []Tap{
			{1, 0, 4}, {2, 0, 3},
			{-2, 1, 1}, {-1, 1, 2}, {0, 1, 3}, {1, 1, 2}, {2, 1, 1},
		},
		Divisor: 16,
	}
	SierraLite = Kernel{
		Name: "sierra-lite",
		Taps: []Tap{{1, 0, 2}, {-1, 1, 1}, {0, 1, 1}},
		Divisor: 4,
	}
)

var kernels = []Kernel{
	FloydSteinberg, JarvisJudiceNinke, Stucki, Atkinson,
	Burkes, Sierra, TwoRowSierra, SierraLite,
}

// Kernels returns every named kernel in registration order.
func Kernels() []Kernel {
	out := make([]Kernel, len(kernels))
	copy(out, kernels)
	return out
}

// KernelByName looks up a kernel by its registered name.
func KernelByName(name string) (Kernel, error) {
	for _, k := range kernels {
		if k.Name == name {
			return k, nil
		}
	}
	return Kernel{}, fmt.Errorf("unknown diffusion kernel %q", name)
}

// Diffuse spreads a quantization error from (x, y) into the buffer according
// to the kernel. Out-of-bounds taps are skipped. mask, when non-nil, marks
// pixels that must not receive error (the edge-preservation pre-pass); masked
// taps are skipped exactly like out-of-bounds ones.
func (k Kernel) Diffuse(px []float64, w, h, x, y int, er, eg, eb float64, mask []bool) {
	for _, t := range k.Taps {
		tx, ty := x+t.DX, y+t.DY
		if tx < 0 || tx >= w || ty < 0 || ty >= h {
			continue
		}
		if mask != nil && mask[ty*w+tx] {
			continue
		}
		f := t.Weight / k.Divisor
		i := 3 * (ty*w + tx)
		px[i] += er * f
		px[i+1] += eg * f
		px[i+2] += eb * f
	}
}

package dither

import "math"

// VarWeights are the three diffusion weights of the variable-coefficient
// diffuser, already normalized to sum to 1. Forward is the tap ahead in scan
// direction, DiagBehind the next-row tap behind the scan direction, Below the
// tap directly underneath.
type VarWeights struct {
	Forward    float64
	DiagBehind float64
	Below      float64
}

// VariableWeights recomputes the three weights for a pixel from its luma
// (0-1). The split is a smooth function of the distance from mid-gray: near
// mid-gray the error spreads evenly across the three taps, toward either
// extreme it is pushed increasingly forward, which keeps highlight and shadow
// texture directional the way the variable-coefficient family does.
func VariableWeights(luma float64) VarWeights {
	t := math.Abs(luma-0.5) * 2
	if t > 1 {
		t = 1
	}
	wf := 2 + 5*t
	wd := 3 - t
	wb := 5 - 3*t
	sum := wf + wd + wb
	return VarWeights{Forward: wf / sum, DiagBehind: wd / sum, Below: wb / sum}
}

// DiffuseVariable spreads an error from (x, y) using per-pixel weights.
// dir is +1 when the row is scanned left to right and -1 when right to left;
// the forward and diagonal-behind offsets mirror with it. mask semantics
// match Kernel.Diffuse.
func DiffuseVariable(px []float64, w, h, x, y int, er, eg, eb float64, vw VarWeights, dir int, mask []bool) {
	add := func(tx, ty int, f float64) {
		if tx < 0 || tx >= w || ty < 0 || ty >= h {
			return
		}
		if mask != nil && mask[ty*w+tx] {
			return
		}
		i := 3 * (ty*w + tx)
		px[i] += er * f
		px[i+1] += eg * f
		px[i+2] += eb * f
	}
	add(x+dir, y, vw.Forward)
	add(x-dir, y+1, vw.DiagBehind)
	add(x, y+1, vw.Below)
}

package dither

import (
	"math"
	"testing"
)

func TestKernel_WeightsConserved(t *testing.T) {
	for _, k := range Kernels() {
		if k.Name == Atkinson.Name {
			continue // Atkinson intentionally diffuses 6/8
		}
		sum := 0.0
		for _, tap := range k.Taps {
			sum += tap.Weight
		}
		if math.Abs(sum/k.Divisor-1.0) > 1e-12 {
			t.Errorf("%s: weight sum/divisor = %g, want 1.0", k.Name, sum/k.Divisor)
		}
	}
}

func TestKernel_TapsCausal(t *testing.T) {
	// All taps must point forward or below; a backward tap would require
	// revisiting finished pixels.
	for _, k := range Kernels() {
		for _, tap := range k.Taps {
			if tap.DY < 0 || (tap.DY == 0 && tap.DX <= 0) {
				t.Errorf("%s: non-causal tap (%d,%d)", k.Name, tap.DX, tap.DY)
			}
		}
	}
}

func TestKernel_Diffuse(t *testing.T) {
	const w, h = 4, 4
	px := make([]float64, 3*w*h)
	FloydSteinberg.Diffuse(px, w, h, 1, 1, 16, 0, 0, nil)

	// 7/16 forward, 3/16 below-left, 5/16 below, 1/16 below-right.
	checks := map[[2]int]float64{
		{2, 1}: 7, {0, 2}: 3, {1, 2}: 5, {2, 2}: 1,
	}
	for pos, want := range checks {
		got := px[3*(pos[1]*w+pos[0])]
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("tap at (%d,%d): got %g, want %g", pos[0], pos[1], got, want)
		}
	}
}

func TestKernel_DiffuseBorderDropsError(t *testing.T) {
	// At the right edge the forward taps fall outside and their error mass
	// is dropped, not renormalized.
	const w, h = 2, 2
	px := make([]float64, 3*w*h)
	FloydSteinberg.Diffuse(px, w, h, 1, 1, 16, 16, 16, nil)
	total := 0.0
	for _, v := range px {
		total += v
	}
	if total != 0 {
		t.Errorf("bottom-right pixel: diffused %g error units, want 0 (all taps clipped)", total)
	}
}

func TestKernel_DiffuseMask(t *testing.T) {
	const w, h = 4, 4
	px := make([]float64, 3*w*h)
	mask := make([]bool, w*h)
	mask[1*w+2] = true // block the forward tap
	FloydSteinberg.Diffuse(px, w, h, 1, 1, 16, 0, 0, mask)
	if px[3*(1*w+2)] != 0 {
		t.Error("masked pixel received diffused error")
	}
	if px[3*(2*w+1)] == 0 {
		t.Error("unmasked pixel received no error")
	}
}

func TestKernelByName(t *testing.T) {
	k, err := KernelByName("stucki")
	if err != nil || k.Name != "stucki" {
		t.Errorf("KernelByName(stucki): got %v, %v", k.Name, err)
	}
	if _, err := KernelByName("nope"); err == nil {
		t.Error("KernelByName(nope): expected error")
	}
}

func TestVariableWeights(t *testing.T) {
	for _, luma := range []float64{0, 0.25, 0.5, 0.75, 1} {
		vw := VariableWeights(luma)
		sum := vw.Forward + vw.DiagBehind + vw.Below
		if math.Abs(sum-1.0) > 1e-12 {
			t.Errorf("luma %g: weights sum to %g, want 1", luma, sum)
		}
		if vw.Forward <= 0 || vw.DiagBehind <= 0 || vw.Below <= 0 {
			t.Errorf("luma %g: non-positive weight %+v", luma, vw)
		}
	}

	// Extremes push more error forward than mid-gray does.
	mid := VariableWeights(0.5)
	dark := VariableWeights(0.0)
	if dark.Forward <= mid.Forward {
		t.Errorf("forward weight at extreme (%g) should exceed mid-gray (%g)", dark.Forward, mid.Forward)
	}
	// Symmetric around mid-gray.
	if VariableWeights(0.2) != VariableWeights(0.8) {
		t.Error("weights not symmetric around mid-gray")
	}
}

func TestDiffuseVariable_Mirrored(t *testing.T) {
	const w, h = 3, 2
	vw := VariableWeights(0.5)

	ltr := make([]float64, 3*w*h)
	DiffuseVariable(ltr, w, h, 1, 0, 1, 0, 0, vw, +1, nil)
	rtl := make([]float64, 3*w*h)
	DiffuseVariable(rtl, w, h, 1, 0, 1, 0, 0, vw, -1, nil)

	if ltr[3*(0*w+2)] != vw.Forward {
		t.Error("ltr: forward tap not at x+1")
	}
	if rtl[3*(0*w+0)] != vw.Forward {
		t.Error("rtl: forward tap not at x-1")
	}
	if ltr[3*(1*w+0)] != vw.DiagBehind || rtl[3*(1*w+2)] != vw.DiagBehind {
		t.Error("diagonal-behind tap not mirrored with scan direction")
	}
}

func TestBayer_RanksComplete(t *testing.T) {
	for _, n := range []int{2, 4, 8} {
		m, err := Bayer(n)
		if err != nil {
			t.Fatalf("Bayer(%d): %v", n, err)
		}
		seen := make(map[int]bool)
		for _, row := range m.Rank {
			for _, r := range row {
				if r < 1 || r > n*n || seen[r] {
					t.Fatalf("Bayer(%d): bad or duplicate rank %d", n, r)
				}
				seen[r] = true
			}
		}
	}
	if _, err := Bayer(3); err == nil {
		t.Error("Bayer(3): expected error")
	}
}

func TestBayer2_Classic(t *testing.T) {
	m, _ := Bayer(2)
	want := [][]int{{1, 3}, {4, 2}}
	for y := range want {
		for x := range want[y] {
			if m.Rank[y][x] != want[y][x] {
				t.Errorf("bayer2[%d][%d] = %d, want %d", y, x, m.Rank[y][x], want[y][x])
			}
		}
	}
}

func TestClusterDot_RanksComplete(t *testing.T) {
	for _, n := range []int{6, 14} {
		m, err := ClusterDot(n)
		if err != nil {
			t.Fatalf("ClusterDot(%d): %v", n, err)
		}
		seen := make(map[int]bool)
		for _, row := range m.Rank {
			for _, r := range row {
				if r < 1 || r > n*n || seen[r] {
					t.Fatalf("ClusterDot(%d): bad or duplicate rank %d", n, r)
				}
				seen[r] = true
			}
		}
	}
}

func TestMatrix_SelectConcreteCase(t *testing.T) {
	// dist1=4, dist2=16, rank=10, n=4: 4*17 = 68 <= 16*10 = 160, so the
	// nearest entry wins.
	m := Matrix{Name: "fixed", N: 4, Rank: [][]int{
		{10, 10, 10, 10},
		{10, 10, 10, 10},
		{10, 10, 10, 10},
		{10, 10, 10, 10},
	}}
	if !m.Select(4, 16, 0, 0) {
		t.Error("concrete ordered case: expected the first (nearest) entry")
	}
	// Flip the rank low enough and the second entry wins: 4*17 > 16*4.
	m.Rank[0][0] = 4
	if m.Select(4, 16, 0, 0) {
		t.Error("low rank case: expected the second entry")
	}
}

func TestBlueNoise_RangeAndDeterminism(t *testing.T) {
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := blueNoise(x, y)
			if v < 0 || v >= 1 {
				t.Fatalf("blueNoise(%d,%d) = %g outside [0,1)", x, y, v)
			}
			if v != blueNoise(x, y) {
				t.Fatalf("blueNoise(%d,%d) not deterministic", x, y)
			}
		}
	}
	// Neighbors should rarely agree; a handful of inversions is the point.
	if blueNoise(0, 0) == blueNoise(1, 0) {
		t.Error("adjacent noise values identical")
	}
}

func TestHilbertPoints_CoversImage(t *testing.T) {
	tests := []struct{ w, h int }{{4, 4}, {5, 3}, {1, 7}, {13, 9}}
	for _, tt := range tests {
		pts := HilbertPoints(tt.w, tt.h)
		if len(pts) != tt.w*tt.h {
			t.Errorf("%dx%d: got %d points, want %d", tt.w, tt.h, len(pts), tt.w*tt.h)
			continue
		}
		seen := make(map[[2]int]bool)
		for _, p := range pts {
			if p.X < 0 || p.X >= tt.w || p.Y < 0 || p.Y >= tt.h {
				t.Fatalf("%dx%d: point %v out of bounds", tt.w, tt.h, p)
			}
			key := [2]int{p.X, p.Y}
			if seen[key] {
				t.Fatalf("%dx%d: point %v visited twice", tt.w, tt.h, p)
			}
			seen[key] = true
		}
	}
}

func TestHilbertPoints_AdjacentSteps(t *testing.T) {
	// On a full power-of-two square the curve moves one pixel at a time.
	pts := HilbertPoints(8, 8)
	for i := 1; i < len(pts); i++ {
		dx := pts[i].X - pts[i-1].X
		dy := pts[i].Y - pts[i-1].Y
		if dx*dx+dy*dy != 1 {
			t.Fatalf("step %d: %v -> %v is not a unit move", i, pts[i-1], pts[i])
		}
	}
}

func TestErrorQueue(t *testing.T) {
	q := NewErrorQueue(4, 8)

	q.Push(8, 0, 0)
	r, _, _ := q.Accumulated()
	if math.Abs(r-8) > 1e-12 {
		t.Errorf("newest error weight: got %g, want 8 (weight 1)", r)
	}

	// Age the error to the tail: weight decays to 1/ratio.
	q.Push(0, 0, 0)
	q.Push(0, 0, 0)
	q.Push(0, 0, 0)
	r, _, _ = q.Accumulated()
	if math.Abs(r-1) > 1e-9 {
		t.Errorf("oldest error weight: got %g, want 1 (weight 1/8 of 8)", r)
	}

	// One more push drops it entirely.
	q.Push(0, 0, 0)
	r, _, _ = q.Accumulated()
	if r != 0 {
		t.Errorf("dropped error still contributes %g", r)
	}
}

func TestMethod_Classification(t *testing.T) {
	tests := []struct {
		m         Method
		perColumn bool
		stateless bool
	}{
		{NoDither, false, true},
		{FixedKernel, false, false},
		{VariableKernel, false, false},
		{Ordered, false, true},
		{BlueNoise, false, true},
		{CurveHilbert, false, false},
		{ColumnNone, true, false},
		{ColumnPattern, true, false},
		{ColumnDiffuse, true, false},
	}
	for _, tt := range tests {
		if tt.m.PerColumn() != tt.perColumn {
			t.Errorf("%s.PerColumn() = %v, want %v", tt.m, tt.m.PerColumn(), tt.perColumn)
		}
		if tt.m.Stateless() != tt.stateless {
			t.Errorf("%s.Stateless() = %v, want %v", tt.m, tt.m.Stateless(), tt.stateless)
		}
		parsed, err := ParseMethod(tt.m.String())
		if err != nil || parsed != tt.m {
			t.Errorf("ParseMethod(%q) = %v, %v", tt.m.String(), parsed, err)
		}
	}
}

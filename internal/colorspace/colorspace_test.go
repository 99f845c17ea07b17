package colorspace

import (
	"math"
	"math/rand"
	"testing"
)

var allSpaces = []Space{RGB, LabD65, LabD50, Oklab, Oklch, YCbCr, HSL}

func TestConvert_RGBPassthrough(t *testing.T) {
	c := Convert(10, 200, 30, RGB)
	if c[0] != 10 || c[1] != 200 || c[2] != 30 {
		t.Errorf("RGB passthrough: got %v, want {10 200 30}", c)
	}
}

func TestConvert_KnownValues(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		space   Space
		want    Coord
		tol     float64
	}{
		// Oklab reference values from the published transform.
		{"white oklab", 255, 255, 255, Oklab, Coord{1, 0, 0}, 1e-3},
		{"black oklab", 0, 0, 0, Oklab, Coord{0, 0, 0}, 1e-6},
		// BT.601 full-range luma.
		{"white ycbcr", 255, 255, 255, YCbCr, Coord{1, 0, 0}, 1e-6},
		{"black ycbcr", 0, 0, 0, YCbCr, Coord{0, 0, 0}, 1e-6},
		// Pure green hue in HSL is 120 degrees.
		{"green hsl", 0, 255, 0, HSL, Coord{120 * math.Pi / 180, 1, 0.5}, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.r, tt.g, tt.b, tt.space)
			for i := 0; i < 3; i++ {
				if math.Abs(got[i]-tt.want[i]) > tt.tol {
					t.Errorf("component %d: got %g, want %g (tol %g)", i, got[i], tt.want[i], tt.tol)
				}
			}
		})
	}
}

func TestConvert_GrayHasNoChroma(t *testing.T) {
	for _, gray := range []uint8{0, 64, 128, 200, 255} {
		lab := Convert(gray, gray, gray, Oklab)
		if math.Abs(lab[1]) > 1e-6 || math.Abs(lab[2]) > 1e-6 {
			t.Errorf("gray %d: oklab a/b = %g/%g, want ~0", gray, lab[1], lab[2])
		}
		yc := Convert(gray, gray, gray, YCbCr)
		if math.Abs(yc[1]) > 1e-6 || math.Abs(yc[2]) > 1e-6 {
			t.Errorf("gray %d: cb/cr = %g/%g, want ~0", gray, yc[1], yc[2])
		}
	}
}

func TestDistance_Symmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, space := range allSpaces {
		for i := 0; i < 50; i++ {
			a := Convert(uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), space)
			b := Convert(uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), space)
			d1 := Distance(a, b, space, DefaultLuminanceWeight)
			d2 := Distance(b, a, space, DefaultLuminanceWeight)
			if d1 != d2 {
				t.Fatalf("%s: distance not symmetric: %g vs %g", space, d1, d2)
			}
		}
	}
}

func TestDistance_IdentityIsZero(t *testing.T) {
	for _, space := range allSpaces {
		c := Convert(17, 99, 201, space)
		if d := Distance(c, c, space, DefaultLuminanceWeight); d != 0 {
			t.Errorf("%s: self-distance = %g, want 0", space, d)
		}
	}
}

func TestDistance_LuminanceWeight(t *testing.T) {
	// Two colors differing only in lightness: doubling the weight must
	// exactly double the Lab distance.
	a := Convert(50, 50, 50, LabD65)
	b := Convert(200, 200, 200, LabD65)
	d1 := Distance(a, b, LabD65, 1.0)
	d2 := Distance(a, b, LabD65, 2.0)
	if math.Abs(d2-2*d1) > 1e-9*d1 {
		t.Errorf("weight scaling: got %g, want %g", d2, 2*d1)
	}
}

func TestDistance_HueWrap(t *testing.T) {
	// Hues just either side of the wrap point must be near, not far.
	near := Distance(Coord{0.1, 1, 0.5}, Coord{2*math.Pi - 0.1, 1, 0.5}, HSL, 1.0)
	far := Distance(Coord{0.1, 1, 0.5}, Coord{math.Pi, 1, 0.5}, HSL, 1.0)
	if near >= far {
		t.Errorf("wrapped hue distance %g should be below opposite-hue distance %g", near, far)
	}
}

func TestDistance_GrayHueIrrelevant(t *testing.T) {
	// Saturation-weighted hue: fully desaturated colors ignore hue entirely.
	d := Distance(Coord{0, 0, 0.5}, Coord{math.Pi, 0, 0.5}, HSL, 1.0)
	if d != 0 {
		t.Errorf("desaturated hue distance = %g, want 0", d)
	}
}

func TestFidelityDistance(t *testing.T) {
	if d := FidelityDistance(10, 20, 30, 10, 20, 30); d != 0 {
		t.Errorf("identical colors: CIEDE2000 = %g, want 0", d)
	}
	small := FidelityDistance(100, 100, 100, 102, 102, 102)
	large := FidelityDistance(0, 0, 0, 255, 255, 255)
	if small >= large {
		t.Errorf("CIEDE2000 ordering: near pair %g should be below black/white %g", small, large)
	}
}

func TestParseSpace_RoundTrip(t *testing.T) {
	for _, space := range allSpaces {
		got, err := ParseSpace(space.String())
		if err != nil {
			t.Fatalf("ParseSpace(%q): %v", space.String(), err)
		}
		if got != space {
			t.Errorf("round trip %q: got %v, want %v", space.String(), got, space)
		}
	}
	if _, err := ParseSpace("cmyk"); err == nil {
		t.Error("ParseSpace(cmyk): expected error, got nil")
	}
}

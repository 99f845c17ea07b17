package engine

import (
	"fmt"

	"github.com/ironsheep/relief-mapper/internal/colorspace"
	"github.com/ironsheep/relief-mapper/internal/dither"
)

// TransparencyMode selects what happens to pixels whose alpha falls below the
// threshold.
type TransparencyMode int

const (
	// TransparencySkip excludes the pixel from matching; it stays
	// transparent in the output and receives no assignment.
	TransparencySkip TransparencyMode = iota
	// TransparencyFill composites the pixel over the background color and
	// matches it like any other.
	TransparencyFill
)

// Settings is the full per-conversion configuration.
type Settings struct {
	Space     colorspace.Space
	LumWeight float64

	Method     dither.Method
	KernelName string // FixedKernel variants
	MatrixName string // Ordered and ColumnPattern variants
	NoiseLevel float64 // BlueNoise bias strength in channel units

	// Column solver knobs.
	MaxHeight     int
	Reference     bool
	ClampGamut    bool
	DiffuseFactor float64
	MemoCapacity  int
	Seed          int64
	RandomSeed    bool

	// Transparency and background handling.
	Transparency   TransparencyMode
	AlphaThreshold uint8
	Background     [3]uint8

	// EdgePreserve enables the edge-preservation pre-pass: pixels on strong
	// luminance edges do not receive diffused error.
	EdgePreserve  bool
	EdgeThreshold float64
}

// DefaultSettings returns a usable baseline: plain RGB nearest matching, no
// dithering, mid threshold for transparency.
func DefaultSettings() Settings {
	return Settings{
		Space:          colorspace.RGB,
		LumWeight:      colorspace.DefaultLuminanceWeight,
		Method:         dither.NoDither,
		KernelName:     dither.FloydSteinberg.Name,
		MatrixName:     "bayer4",
		NoiseLevel:     32,
		AlphaThreshold: 128,
		EdgeThreshold:  0.25,
	}
}

// resolved carries the derived algorithm objects a pass needs.
type resolved struct {
	kernel dither.Kernel
	matrix dither.Matrix
}

// resolve validates the method-specific names and returns the derived
// objects. Settings problems are precondition violations reported before any
// pixel work starts.
func (s Settings) resolve() (resolved, error) {
	var r resolved
	var err error
	switch s.Method {
	case dither.FixedKernel, dither.VariableKernel:
		if s.Method == dither.FixedKernel {
			if r.kernel, err = dither.KernelByName(s.KernelName); err != nil {
				return r, err
			}
		}
	case dither.Ordered, dither.ColumnPattern:
		if r.matrix, err = dither.MatrixByName(s.MatrixName); err != nil {
			return r, err
		}
	case dither.NoDither, dither.BlueNoise, dither.CurveHilbert,
		dither.ColumnNone, dither.ColumnDiffuse:
		// No derived objects.
	default:
		return r, fmt.Errorf("engine: unknown dither method %v", s.Method)
	}
	if s.LumWeight == 0 {
		// Zero means unset, not "ignore lightness".
		return r, fmt.Errorf("engine: luminance weight must be positive")
	}
	return r, nil
}

package dither

import "fmt"

// Method is the closed set of dithering algorithms. Dispatch over Method is
// by exhaustive switch; adding a value without updating every switch is a
// compile-review error, not a runtime fallthrough.
type Method int

const (
	// NoDither matches each pixel independently with no spatial interaction.
	NoDither Method = iota
	// FixedKernel is classic error diffusion with a named weight table.
	FixedKernel
	// VariableKernel recomputes three diffusion weights per pixel from the
	// pixel's distance to mid-gray, scanned serpentine.
	VariableKernel
	// Ordered decides between the two nearest entries with an integer-rank
	// threshold matrix.
	Ordered
	// BlueNoise adds a procedural blue-noise bias before matching.
	BlueNoise
	// CurveHilbert diffuses error along a Hilbert curve with a decaying
	// error queue.
	CurveHilbert
	// ColumnNone is the column solver without any local dithering.
	ColumnNone
	// ColumnPattern is the column solver using the ordered decision rule.
	ColumnPattern
	// ColumnDiffuse is the column solver with within-column and lateral
	// error diffusion.
	ColumnDiffuse
)

func (m Method) String() string {
	switch m {
	case NoDither:
		return "none"
	case FixedKernel:
		return "kernel"
	case VariableKernel:
		return "variable"
	case Ordered:
		return "ordered"
	case BlueNoise:
		return "bluenoise"
	case CurveHilbert:
		return "hilbert"
	case ColumnNone:
		return "column"
	case ColumnPattern:
		return "column-pattern"
	case ColumnDiffuse:
		return "column-diffuse"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod converts a method name (as printed by String) to a Method.
func ParseMethod(name string) (Method, error) {
	for m := NoDither; m <= ColumnDiffuse; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return NoDither, fmt.Errorf("unknown dither method %q", name)
}

// PerColumn reports whether the method runs through the column solver rather
// than a full-image raster pass.
func (m Method) PerColumn() bool {
	switch m {
	case ColumnNone, ColumnPattern, ColumnDiffuse:
		return true
	}
	return false
}

// Stateless reports whether the per-pixel decision carries no causal or
// sequential state. Only stateless methods are eligible for accelerated
// (single draw call) execution.
func (m Method) Stateless() bool {
	switch m {
	case NoDither, Ordered, BlueNoise:
		return true
	}
	return false
}

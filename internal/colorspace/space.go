package colorspace

import "fmt"

// Space identifies one of the supported perceptual color spaces.
type Space int

// Supported color spaces. RGB is the zero value so an unset settings field
// degrades to plain Euclidean RGB matching.
const (
	RGB Space = iota
	LabD65
	LabD50
	Oklab
	Oklch
	YCbCr
	HSL
)

// NumSpaces is the number of supported spaces; palette entries precompute one
// coordinate triple per space.
const NumSpaces = 7

// Coord is a color coordinate in some Space. Component meaning depends on the
// space; see the package documentation.
type Coord [3]float64

// String returns the canonical lowercase name of the space.
func (s Space) String() string {
	switch s {
	case RGB:
		return "rgb"
	case LabD65:
		return "lab"
	case LabD50:
		return "lab-d50"
	case Oklab:
		return "oklab"
	case Oklch:
		return "oklch"
	case YCbCr:
		return "ycbcr"
	case HSL:
		return "hsl"
	}
	return fmt.Sprintf("Space(%d)", int(s))
}

// ParseSpace converts a space name (as printed by String) back to a Space.
//
// Returns an error for unknown names so CLI flag values fail loudly instead
// of silently matching in RGB.
func ParseSpace(name string) (Space, error) {
	switch name {
	case "rgb":
		return RGB, nil
	case "lab":
		return LabD65, nil
	case "lab-d50":
		return LabD50, nil
	case "oklab":
		return Oklab, nil
	case "oklch":
		return Oklch, nil
	case "ycbcr":
		return YCbCr, nil
	case "hsl":
		return HSL, nil
	}
	return RGB, fmt.Errorf("unknown color space %q", name)
}

// HueBearing reports whether distances in this space use the circular hue
// term instead of a plain first-axis difference.
func (s Space) HueBearing() bool {
	return s == HSL || s == Oklch
}

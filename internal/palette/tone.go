package palette

import "fmt"

// Tone is one of the four tone classes controlling vertical-height
// transitions. The class chosen for a pixel must match the height transition
// into that pixel: staying level selects Normal, rising selects Light,
// falling selects Dark. Deep is a fourth, darker class enabled only by the
// Full structure mode and legal only when a fall lands on the lowest height.
type Tone int

const (
	ToneDeep Tone = iota
	ToneDark
	ToneNormal
	ToneLight

	// NumTones is the number of tone classes.
	NumTones = 4
)

// toneCoeff scales a group's base color into each tone variant. The
// coefficients are the 135/180/220/255 brightness steps over 255 used by the
// reference palette data.
var toneCoeff = [NumTones]float64{
	ToneDeep:   135.0 / 255.0,
	ToneDark:   180.0 / 255.0,
	ToneNormal: 220.0 / 255.0,
	ToneLight:  1.0,
}

func (t Tone) String() string {
	switch t {
	case ToneDeep:
		return "deep"
	case ToneDark:
		return "dark"
	case ToneNormal:
		return "normal"
	case ToneLight:
		return "light"
	}
	return fmt.Sprintf("Tone(%d)", int(t))
}

// StructureMode controls how many tone classes are active and therefore how
// the output may step vertically.
type StructureMode int

const (
	// ModeFlat keeps every column at a single height; only Normal tones
	// exist and every transition is "stay".
	ModeFlat StructureMode = iota
	// ModeSloped permits level and rising transitions (Normal and Light).
	ModeSloped
	// ModeStaircase is the standard three-class mode: Dark, Normal, Light.
	ModeStaircase
	// ModeFull adds the Deep class on top of ModeStaircase.
	ModeFull
)

func (m StructureMode) String() string {
	switch m {
	case ModeFlat:
		return "flat"
	case ModeSloped:
		return "sloped"
	case ModeStaircase:
		return "staircase"
	case ModeFull:
		return "full"
	}
	return fmt.Sprintf("StructureMode(%d)", int(m))
}

// ParseStructureMode converts a mode name back to a StructureMode.
func ParseStructureMode(name string) (StructureMode, error) {
	switch name {
	case "flat":
		return ModeFlat, nil
	case "sloped":
		return ModeSloped, nil
	case "staircase":
		return ModeStaircase, nil
	case "full":
		return ModeFull, nil
	}
	return ModeFlat, fmt.Errorf("unknown structure mode %q", name)
}

// Tones returns the tone classes active under this mode, in ascending
// brightness order.
func (m StructureMode) Tones() []Tone {
	switch m {
	case ModeFlat:
		return []Tone{ToneNormal}
	case ModeSloped:
		return []Tone{ToneNormal, ToneLight}
	case ModeStaircase:
		return []Tone{ToneDark, ToneNormal, ToneLight}
	default:
		return []Tone{ToneDeep, ToneDark, ToneNormal, ToneLight}
	}
}

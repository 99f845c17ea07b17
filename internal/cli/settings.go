package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/relief-mapper/internal/colorspace"
	"github.com/ironsheep/relief-mapper/internal/dither"
	"github.com/ironsheep/relief-mapper/internal/engine"
	"github.com/ironsheep/relief-mapper/internal/palette"
	"github.com/ironsheep/relief-mapper/internal/sched"
)

// settingsFlags holds the raw string/number flag values shared by convert
// and batch. Parsing into engine.Settings happens once per run so bad values
// fail before any image is touched.
type settingsFlags struct {
	palettePath string
	structure   string

	space     string
	lumWeight float64

	method string
	kernel string
	matrix string
	noise  float64

	maxHeight     int
	reference     bool
	clampGamut    bool
	diffuseFactor float64
	seed          int64
	randomSeed    bool

	transparency   string
	alphaThreshold uint8
	background     string

	edgePreserve  bool
	edgeThreshold float64

	backend string
}

func registerSettingsFlags(cmd *cobra.Command, f *settingsFlags) {
	cmd.Flags().StringVarP(&f.palettePath, "palette", "p", "", "palette JSON file (required)")
	cmd.MarkFlagRequired("palette")
	cmd.Flags().StringVar(&f.structure, "structure", "staircase", "vertical structure mode: flat, sloped, staircase, full")

	cmd.Flags().StringVarP(&f.space, "space", "s", "lab", "matching color space: rgb, lab, lab-d50, oklab, oklch, ycbcr, hsl")
	cmd.Flags().Float64Var(&f.lumWeight, "luminance-weight", colorspace.DefaultLuminanceWeight, "weight on the lightness term of the distance")

	cmd.Flags().StringVarP(&f.method, "dither", "d", "none", "dither method: none, kernel, variable, ordered, bluenoise, hilbert, column, column-pattern, column-diffuse")
	cmd.Flags().StringVar(&f.kernel, "kernel", "floyd-steinberg", "diffusion kernel for --dither=kernel")
	cmd.Flags().StringVar(&f.matrix, "matrix", "bayer4", "threshold matrix for --dither=ordered and column-pattern")
	cmd.Flags().Float64Var(&f.noise, "noise", 32, "bias strength for --dither=bluenoise, in channel units")

	cmd.Flags().IntVar(&f.maxHeight, "max-height", 0, "column height bound (0 = default)")
	cmd.Flags().BoolVar(&f.reference, "reference", false, "zero the height penalty when the constrained pick equals the unconstrained one")
	cmd.Flags().BoolVar(&f.clampGamut, "clamp-gamut", false, "clamp diffused colors to the palette gamut per group partition")
	cmd.Flags().Float64Var(&f.diffuseFactor, "diffuse-factor", 0, "lateral error share for column-diffuse (0 = default)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "pivot seed for the column solver's subdivision fallback")
	cmd.Flags().BoolVar(&f.randomSeed, "random-seed", false, "randomize the subdivision pivot seed")

	cmd.Flags().StringVar(&f.transparency, "transparency", "skip", "below-threshold alpha handling: skip, fill")
	cmd.Flags().Uint8Var(&f.alphaThreshold, "alpha-threshold", 128, "alpha below this is transparent")
	cmd.Flags().StringVar(&f.background, "background", "#000000", "background color for --transparency=fill, #RRGGBB")

	cmd.Flags().BoolVar(&f.edgePreserve, "edge-preserve", false, "exclude strong luminance edges from error diffusion")
	cmd.Flags().Float64Var(&f.edgeThreshold, "edge-threshold", 0.25, "edge magnitude above this suppresses diffusion")

	cmd.Flags().StringVar(&f.backend, "backend", "auto", "execution backend: auto, accelerated, pool, sync")
}

// build parses the raw flag values into an engine.Settings plus the palette
// and backend mode.
func (f *settingsFlags) build() (engine.Settings, *palette.Palette, sched.Mode, error) {
	s := engine.DefaultSettings()
	var err error

	if s.Space, err = colorspace.ParseSpace(f.space); err != nil {
		return s, nil, 0, err
	}
	if f.lumWeight <= 0 {
		return s, nil, 0, fmt.Errorf("luminance weight must be positive, got %g", f.lumWeight)
	}
	s.LumWeight = f.lumWeight

	if s.Method, err = dither.ParseMethod(f.method); err != nil {
		return s, nil, 0, err
	}
	s.KernelName = f.kernel
	s.MatrixName = f.matrix
	s.NoiseLevel = f.noise

	s.MaxHeight = f.maxHeight
	s.Reference = f.reference
	s.ClampGamut = f.clampGamut
	s.DiffuseFactor = f.diffuseFactor
	s.Seed = f.seed
	s.RandomSeed = f.randomSeed

	switch f.transparency {
	case "skip":
		s.Transparency = engine.TransparencySkip
	case "fill":
		s.Transparency = engine.TransparencyFill
	default:
		return s, nil, 0, fmt.Errorf("unknown transparency mode %q", f.transparency)
	}
	s.AlphaThreshold = f.alphaThreshold
	if s.Background, err = parseHexColor(f.background); err != nil {
		return s, nil, 0, err
	}

	s.EdgePreserve = f.edgePreserve
	s.EdgeThreshold = f.edgeThreshold

	structure, err := palette.ParseStructureMode(f.structure)
	if err != nil {
		return s, nil, 0, err
	}
	pal, err := palette.LoadFile(f.palettePath, structure)
	if err != nil {
		return s, nil, 0, err
	}

	mode, err := sched.ParseMode(f.backend)
	if err != nil {
		return s, nil, 0, err
	}
	return s, pal, mode, nil
}

// parseHexColor parses "#RRGGBB" (leading '#' optional) into RGB bytes.
func parseHexColor(hex string) ([3]uint8, error) {
	var rgb [3]uint8
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return rgb, fmt.Errorf("invalid color %q: want #RRGGBB", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return rgb, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	rgb[0] = uint8(v >> 16)
	rgb[1] = uint8(v >> 8)
	rgb[2] = uint8(v)
	return rgb, nil
}

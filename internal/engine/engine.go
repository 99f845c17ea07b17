package engine

import (
	"fmt"
	"image"

	"github.com/ironsheep/relief-mapper/internal/colorspace"
	"github.com/ironsheep/relief-mapper/internal/dither"
	"github.com/ironsheep/relief-mapper/internal/palette"
)

// Engine runs conversions of images against one palette under one settings
// record. An Engine is cheap to construct and single-use per goroutine: the
// matcher cache inside is not synchronized.
type Engine struct {
	pal      *palette.Palette
	settings Settings
	res      resolved
}

// New validates the settings against the palette and returns an engine.
//
// An empty palette cannot reach here (palette.Build rejects it); unknown
// kernel or matrix names and a zero luminance weight are reported now, before
// any pixel work.
func New(pal *palette.Palette, s Settings) (*Engine, error) {
	if pal == nil || pal.Len() == 0 {
		return nil, palette.ErrEmptyPalette
	}
	r, err := s.resolve()
	if err != nil {
		return nil, err
	}
	return &Engine{pal: pal, settings: s, res: r}, nil
}

// Settings returns the engine's settings record.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Run converts one image. progress may be nil; when set it receives
// monotonically non-decreasing values and a final call at exactly 1.
func (e *Engine) Run(img *image.NRGBA, progress func(float64)) (*Result, error) {
	pb := NewPixelBuffer(img, e.settings)
	res := newResult(pb.W, pb.H)

	var mask []bool
	if e.settings.EdgePreserve {
		mask = edgeMask(img, e.settings.EdgeThreshold)
	}

	p := &progressTracker{cb: progress}
	p.report(0.05)

	m := palette.NewMatcher(e.pal, e.settings.Space, e.settings.LumWeight)

	var err error
	switch e.settings.Method {
	case dither.NoDither:
		e.passPointwise(pb, res, m, p, func(x, y int, r, g, b float64) *palette.Entry {
			return m.Nearest(r, g, b)
		})
	case dither.BlueNoise:
		level := e.settings.NoiseLevel
		e.passPointwise(pb, res, m, p, func(x, y int, r, g, b float64) *palette.Entry {
			bias := dither.BlueNoiseBias(x, y, level)
			return m.Nearest(r+bias, g+bias, b+bias)
		})
	case dither.Ordered:
		matrix := e.res.matrix
		e.passPointwise(pb, res, m, p, func(x, y int, r, g, b float64) *palette.Entry {
			match := m.TwoNearest(r, g, b)
			if match.Second < 0 || matrix.Select(match.Dist1, match.Dist2, x, y) {
				return &e.pal.Entries[match.First]
			}
			return &e.pal.Entries[match.Second]
		})
	case dither.FixedKernel:
		e.passKernel(pb, res, m, mask, p)
	case dither.VariableKernel:
		e.passVariable(pb, res, m, mask, p)
	case dither.CurveHilbert:
		e.passHilbert(pb, res, m, p)
	case dither.ColumnNone, dither.ColumnPattern, dither.ColumnDiffuse:
		err = e.passColumns(pb, res, p)
	default:
		err = fmt.Errorf("engine: unhandled dither method %v", e.settings.Method)
	}
	if err != nil {
		return nil, err
	}

	p.report(0.9)
	e.finalize(img, res)
	p.done()
	return res, nil
}

// commit finalizes one pixel: quantized color, assignment, section count.
func (e *Engine) commit(res *Result, x, y int, entry *palette.Entry) {
	o := res.Image.PixOffset(x, y)
	res.Image.Pix[o] = entry.RGB[0]
	res.Image.Pix[o+1] = entry.RGB[1]
	res.Image.Pix[o+2] = entry.RGB[2]
	res.Image.Pix[o+3] = 255

	res.Assignments[y*res.Image.Rect.Dx()+x] = Assignment{GroupID: entry.GroupID, Tone: entry.Tone}
	res.Sections.Add(x, y, entry.GroupID)
}

// progressTracker enforces the progress contract: monotonic, below 1 until
// done, exactly 1 once.
type progressTracker struct {
	cb   func(float64)
	last float64
}

func (p *progressTracker) report(v float64) {
	if p.cb == nil || v <= p.last || v >= 1 {
		return
	}
	p.last = v
	p.cb(v)
}

func (p *progressTracker) done() {
	if p.cb == nil {
		return
	}
	p.last = 1
	p.cb(1)
}

// mainSpan maps a 0..1 pass fraction into the 0.05..0.9 progress window.
func mainSpan(frac float64) float64 {
	return 0.05 + 0.85*frac
}

// Luma01 exposes the buffer luma used by the variable-coefficient weights.
func luma01(r, g, b float64) float64 {
	return colorspace.Luma(r, g, b)
}

package engine

import (
	"github.com/ironsheep/relief-mapper/internal/solver"
)

// passColumns routes the column methods through the solver, strictly left to
// right: lateral error from each column is consumed by the next.
func (e *Engine) passColumns(pb *PixelBuffer, res *Result, p *progressTracker) error {
	s, err := solver.New(solver.Config{
		Space:         e.settings.Space,
		LumWeight:     e.settings.LumWeight,
		Method:        e.settings.Method,
		Matrix:        e.res.matrix,
		MaxHeight:     e.settings.MaxHeight,
		Reference:     e.settings.Reference,
		ClampGamut:    e.settings.ClampGamut,
		DiffuseFactor: e.settings.DiffuseFactor,
		MemoCapacity:  e.settings.MemoCapacity,
		Seed:          e.settings.Seed,
		RandomSeed:    e.settings.RandomSeed,
	}, e.pal)
	if err != nil {
		return err
	}

	col := make([]float64, 3*pb.H)
	for x := 0; x < pb.W; x++ {
		for y := 0; y < pb.H; y++ {
			col[3*y], col[3*y+1], col[3*y+2] = pb.At(x, y)
		}
		cr, err := s.SolveColumn(col, x)
		if err != nil {
			return err
		}
		for y := 0; y < pb.H; y++ {
			if pb.Skip[y*pb.W+x] {
				// Solved for continuity of the height machine, but the
				// pixel itself stays excluded.
				continue
			}
			e.commit(res, x, y, &e.pal.Entries[cr.Entries[y]])
		}
		if x%progressStride == 0 {
			p.report(mainSpan(float64(x) / float64(pb.W)))
		}
	}
	return nil
}

package solver

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/ironsheep/relief-mapper/internal/dither"
	"github.com/ironsheep/relief-mapper/internal/palette"
)

// Lateral diffusion shares. Half the quantization error stays in the column
// (the row below); the other half leaves for the next column split 1:2:1
// across north-east, east, south-east, scaled by Config.DiffuseFactor.
const (
	belowShare = 0.5
	neShare    = 0.125
	eastShare  = 0.25
	seShare    = 0.125
)

// Solver solves one image's columns left to right. It owns the memo table,
// the matcher and the lateral error buffers; none of them may be shared
// between goroutines or reused across images without Reset.
type Solver struct {
	cfg  Config
	pal  *palette.Palette
	m    *palette.Matcher
	rng  *rand.Rand
	memo *memoTable

	// lateral is the error arriving into the current column, one triple per
	// row; nextLateral accumulates error for the column after it.
	lateral     [][3]float64
	nextLateral [][3]float64

	col    []float64 // current column pixels, 3 per row
	height int       // rows in the current column
}

// New creates a solver for one image pass.
func New(cfg Config, pal *palette.Palette) (*Solver, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MaxHeight > 511 {
		return nil, fmt.Errorf("solver: MaxHeight %d exceeds the packable range", cfg.MaxHeight)
	}
	seed := cfg.Seed
	if cfg.RandomSeed {
		seed = time.Now().UnixNano()
	}
	return &Solver{
		cfg:  cfg,
		pal:  pal,
		m:    palette.NewMatcher(pal, cfg.Space, cfg.LumWeight),
		rng:  rand.New(rand.NewSource(seed)),
		memo: newMemoTable(cfg.MemoCapacity),
	}, nil
}

// Reset prepares the solver for a new image: lateral buffers and caches are
// dropped.
func (s *Solver) Reset() {
	s.lateral = nil
	s.nextLateral = nil
	s.memo.reset()
	s.m.Reset()
}

// SolveColumn assigns an entry and a height to every row of one column.
//
// col holds the column's pixels as RGB triples, top to bottom; x is the
// column's position (the ordered-pattern rule is position dependent).
// Columns must be submitted strictly left to right: lateral error pushed by
// the previous column is consumed here, and this column's lateral error is
// staged for the next call.
func (s *Solver) SolveColumn(col []float64, x int) (Result, error) {
	h := len(col) / 3
	s.height = h
	s.col = make([]float64, len(col))
	copy(s.col, col)

	// Consume the lateral buffer staged by the previous column.
	if s.cfg.Method == dither.ColumnDiffuse {
		if s.lateral != nil {
			for y := 0; y < h && y < len(s.lateral); y++ {
				s.col[3*y] += s.lateral[y][0]
				s.col[3*y+1] += s.lateral[y][1]
				s.col[3*y+2] += s.lateral[y][2]
			}
		}
		s.nextLateral = make([][3]float64, h)
	}

	res := Result{
		Entries: make([]int, h),
		Heights: make([]int, h),
	}
	for i := range res.Entries {
		res.Entries[i] = -1
	}

	// Iterative segment work-list. Segments are pushed so that the upper
	// half of any subdivision pops first, which guarantees rows are
	// finalized strictly top to bottom and an entering height is always
	// available from the rows above.
	type segment struct{ start, end int }
	stack := []segment{{0, h}}
	for len(stack) > 0 {
		seg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		enter := -1
		if seg.start > 0 {
			enter = res.Heights[seg.start-1]
		}

		if seg.end-seg.start < fallbackLength {
			s.solveGreedy(&res, seg.start, seg.end, enter, x)
			continue
		}

		s.memo.reset()
		if err := s.solveSegment(&res, seg.start, seg.end, enter, x); err == nil {
			continue
		}

		// Bound exceeded: subdivide at a pivot between one quarter and
		// three quarters of the segment.
		n := seg.end - seg.start
		pivot := seg.start + n/4 + s.rng.Intn(n/2+1)
		if pivot <= seg.start {
			pivot = seg.start + 1
		}
		if pivot >= seg.end {
			pivot = seg.end - 1
		}
		stack = append(stack, segment{pivot, seg.end}, segment{seg.start, pivot})
	}

	s.lateral = s.nextLateral
	s.nextLateral = nil
	return res, nil
}

// transition is one legal height move and its implied tone class.
type transition struct {
	height int
	tone   palette.Tone
}

// transitions enumerates the legal next heights from prev under the active
// structure mode, in fixed order (stay, rise, fall, deep-fall) so that cost
// ties resolve deterministically. prev -1 means the first row of the column,
// where every reachable height and direction class is legal.
func (s *Solver) transitions(prev int, buf []transition) []transition {
	buf = buf[:0]
	mode := s.pal.Mode

	if prev < 0 {
		// Unconstrained entry row: any height with its stay-tone, and for
		// modes with multiple classes any tone reachable at that height.
		maxH := s.cfg.MaxHeight
		if mode == palette.ModeFlat {
			maxH = 1
		}
		for hh := 0; hh < maxH; hh++ {
			buf = append(buf, transition{hh, palette.ToneNormal})
			if mode == palette.ModeSloped || mode == palette.ModeStaircase || mode == palette.ModeFull {
				buf = append(buf, transition{hh, palette.ToneLight})
			}
			if mode == palette.ModeStaircase || mode == palette.ModeFull {
				buf = append(buf, transition{hh, palette.ToneDark})
			}
			if mode == palette.ModeFull && hh == 0 {
				buf = append(buf, transition{0, palette.ToneDeep})
			}
		}
		return buf
	}

	// stay
	buf = append(buf, transition{prev, palette.ToneNormal})
	// rise
	if (mode == palette.ModeSloped || mode == palette.ModeStaircase || mode == palette.ModeFull) &&
		prev+1 < s.cfg.MaxHeight {
		buf = append(buf, transition{prev + 1, palette.ToneLight})
	}
	// fall
	if (mode == palette.ModeStaircase || mode == palette.ModeFull) && prev-1 >= 0 {
		buf = append(buf, transition{prev - 1, palette.ToneDark})
		if mode == palette.ModeFull && prev-1 == 0 {
			buf = append(buf, transition{0, palette.ToneDeep})
		}
	}
	return buf
}

// pickEntry chooses the locally best entry for a color within a tone class,
// falling back to Normal and then to the whole palette when partitions are
// empty. Returns the entry index and the local penalty.
func (s *Solver) pickEntry(r, g, b float64, tone palette.Tone, x, y int) (int, float64) {
	if s.cfg.ClampGamut {
		r, g, b = s.pal.PartitionBounds(tone).Clamp(r, g, b)
	}

	if s.cfg.Method == dither.ColumnPattern {
		if m, ok := s.m.TwoNearestInPartition(r, g, b, tone); ok {
			return s.applyPattern(m, x, y)
		}
		if m, ok := s.m.TwoNearestInPartition(r, g, b, palette.ToneNormal); ok {
			return s.applyPattern(m, x, y)
		}
		return s.applyPattern(s.m.TwoNearest(r, g, b), x, y)
	}

	if e, d, ok := s.m.NearestInPartition(r, g, b, tone); ok {
		return s.penalized(e.Index, d, r, g, b)
	}
	if e, d, ok := s.m.NearestInPartition(r, g, b, palette.ToneNormal); ok {
		return s.penalized(e.Index, d, r, g, b)
	}
	m := s.m.TwoNearest(r, g, b)
	return s.penalized(m.First, m.Dist1, r, g, b)
}

// applyPattern runs the ordered decision rule over a two-nearest result.
func (s *Solver) applyPattern(m palette.Match, x, y int) (int, float64) {
	if m.Second < 0 || s.cfg.Matrix.Select(m.Dist1, m.Dist2, x, y) {
		return m.First, m.Dist1
	}
	return m.Second, m.Dist2
}

// penalized applies reference mode: the penalty collapses to zero when the
// constrained pick is also the globally unconstrained nearest entry.
func (s *Solver) penalized(idx int, d, r, g, b float64) (int, float64) {
	if s.cfg.Reference && s.m.Nearest(r, g, b).Index == idx {
		return idx, 0
	}
	return idx, d
}

// solveSegment runs the memoized DP over rows [start, end). On success it
// writes entries and heights into res and stages lateral error; on a bound
// exceedance it returns errBoundExceeded with res untouched.
func (s *Solver) solveSegment(res *Result, start, end, enter, x int) error {
	diffusing := s.cfg.Method == dither.ColumnDiffuse

	var solve func(y, prev int, eb errBucket, depth int) (float64, error)
	solve = func(y, prev int, eb errBucket, depth int) (float64, error) {
		if y == end {
			return 0, nil
		}
		if depth > s.cfg.MaxDepth {
			return 0, errBoundExceeded
		}
		key := packKey(y, prev, eb)
		if hit, ok := s.memo.get(key); ok {
			return hit.cost, nil
		}

		er, eg, ebl := 0.0, 0.0, 0.0
		if diffusing {
			er, eg, ebl = eb.value()
		}
		r := s.col[3*y] + er
		g := s.col[3*y+1] + eg
		b := s.col[3*y+2] + ebl

		var trBuf [8]transition
		best := memoEntry{cost: math.Inf(1), height: -1}
		for _, tr := range s.transitions(prev, trBuf[:]) {
			idx, d := s.pickEntry(r, g, b, tr.tone, x, y)

			next := zeroBucket
			if diffusing {
				e := s.pal.Entries[idx]
				next = bucketOf(
					(r-float64(e.RGB[0]))*belowShare,
					(g-float64(e.RGB[1]))*belowShare,
					(b-float64(e.RGB[2]))*belowShare,
				)
			}
			sub, err := solve(y+1, tr.height, next, depth+1)
			if err != nil {
				return 0, err
			}
			if d+sub < best.cost {
				best = memoEntry{cost: d + sub, height: int16(tr.height), tone: tr.tone, entry: int32(idx)}
			}
		}
		if !s.memo.put(key, best) {
			return 0, errBoundExceeded
		}
		return best.cost, nil
	}

	if _, err := solve(start, enter, zeroBucket, 0); err != nil {
		return err
	}

	// Reconstruct the optimal path from the memo and commit it.
	prev, eb := enter, zeroBucket
	for y := start; y < end; y++ {
		hit, ok := s.memo.get(packKey(y, prev, eb))
		if !ok {
			// Cannot happen after a successful solve; abort the segment
			// rather than committing a partial path.
			return errBoundExceeded
		}
		res.Entries[y] = int(hit.entry)
		res.Heights[y] = int(hit.height)

		if s.cfg.Method == dither.ColumnDiffuse {
			er, eg, ebl := eb.value()
			e := s.pal.Entries[hit.entry]
			qr := s.col[3*y] + er - float64(e.RGB[0])
			qg := s.col[3*y+1] + eg - float64(e.RGB[1])
			qb := s.col[3*y+2] + ebl - float64(e.RGB[2])
			s.pushLateral(y, qr, qg, qb)
			eb = bucketOf(qr*belowShare, qg*belowShare, qb*belowShare)
		}
		prev = int(hit.height)
	}
	return nil
}

// solveGreedy is the stateless fallback: each row takes the locally best
// legal transition with no lookahead. Always succeeds.
func (s *Solver) solveGreedy(res *Result, start, end, enter, x int) {
	prev := enter
	var carryR, carryG, carryB float64
	var trBuf [8]transition

	for y := start; y < end; y++ {
		r := s.col[3*y] + carryR
		g := s.col[3*y+1] + carryG
		b := s.col[3*y+2] + carryB

		bestD := math.Inf(1)
		bestIdx, bestH := -1, prev
		for _, tr := range s.transitions(prev, trBuf[:]) {
			idx, d := s.pickEntry(r, g, b, tr.tone, x, y)
			if d < bestD {
				bestD, bestIdx, bestH = d, idx, tr.height
			}
		}

		res.Entries[y] = bestIdx
		res.Heights[y] = bestH
		prev = bestH

		carryR, carryG, carryB = 0, 0, 0
		if s.cfg.Method == dither.ColumnDiffuse {
			e := s.pal.Entries[bestIdx]
			qr := r - float64(e.RGB[0])
			qg := g - float64(e.RGB[1])
			qb := b - float64(e.RGB[2])
			s.pushLateral(y, qr, qg, qb)
			carryR, carryG, carryB = qr*belowShare, qg*belowShare, qb*belowShare
		}
	}
}

// pushLateral stages one row's quantization error for the next column.
func (s *Solver) pushLateral(y int, qr, qg, qb float64) {
	if s.nextLateral == nil {
		return
	}
	f := s.cfg.DiffuseFactor
	add := func(row int, share float64) {
		if row < 0 || row >= s.height {
			return
		}
		s.nextLateral[row][0] += qr * share * f
		s.nextLateral[row][1] += qg * share * f
		s.nextLateral[row][2] += qb * share * f
	}
	add(y-1, neShare)
	add(y, eastShare)
	add(y+1, seShare)
}

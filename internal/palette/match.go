package palette

import (
	"math"

	"github.com/ironsheep/relief-mapper/internal/colorspace"
)

// Match is the result of a two-nearest search: the best and second-best
// entries with their squared distances. Second is -1 when the palette holds a
// single entry.
type Match struct {
	First  int
	Dist1  float64
	Second int
	Dist2  float64
}

// Matcher performs nearest-entry searches over one palette in one color
// space, with a lookup cache.
//
// The cache is keyed by the packed 8-bit-quantized RGB triple (plus a
// luminance-weight bucket when the weight is non-default), so repeated
// queries for the same color cost one map hit instead of a palette scan. The
// cache grows with the number of distinct colors seen; callers running many
// successive invocations (live preview) call Reset between them to bound
// memory.
//
// Matcher is not safe for concurrent use; create one per invocation. The
// underlying Palette may be shared freely.
type Matcher struct {
	Palette   *Palette
	Space     colorspace.Space
	LumWeight float64

	cache map[uint64]Match
}

// NewMatcher creates a matcher over a built palette.
//
// The palette is guaranteed non-empty by Build; a nil or empty palette here
// is a programming error and will panic on first search.
func NewMatcher(p *Palette, space colorspace.Space, lumWeight float64) *Matcher {
	return &Matcher{
		Palette:   p,
		Space:     space,
		LumWeight: lumWeight,
		cache:     make(map[uint64]Match),
	}
}

// Reset drops the lookup cache. Call between successive invocations that
// reuse one matcher to keep memory bounded.
func (m *Matcher) Reset() {
	m.cache = make(map[uint64]Match)
}

// CacheLen reports the number of cached lookups (for tests and diagnostics).
func (m *Matcher) CacheLen() int {
	return len(m.cache)
}

// Nearest returns the palette entry closest to the given color. The float
// components may lie outside 0-255 after error diffusion; they are clamped
// before quantization.
func (m *Matcher) Nearest(r, g, b float64) *Entry {
	return &m.Palette.Entries[m.lookup(r, g, b).First]
}

// TwoNearest returns the two closest entries and their squared distances.
// The ordered-dither decision rule consumes both.
func (m *Matcher) TwoNearest(r, g, b float64) Match {
	return m.lookup(r, g, b)
}

func (m *Matcher) lookup(r, g, b float64) Match {
	r8 := quantize(r)
	g8 := quantize(g)
	b8 := quantize(b)

	key := uint64(r8)<<16 | uint64(g8)<<8 | uint64(b8)
	if m.LumWeight != colorspace.DefaultLuminanceWeight {
		key |= uint64(weightBucket(m.LumWeight)) << 24
	}
	if hit, ok := m.cache[key]; ok {
		return hit
	}

	target := colorspace.Convert(r8, g8, b8, m.Space)
	match := m.scan(target, nil)
	m.cache[key] = match
	return match
}

// NearestInPartition searches only the entries of one tone class. Partition
// results skip the cache: the partition changes per call site and a stale
// cross-partition hit would violate the height-transition invariant.
//
// ok is false when the partition is empty; the caller decides the fallback
// (another tone class or the whole palette).
func (m *Matcher) NearestInPartition(r, g, b float64, tone Tone) (*Entry, float64, bool) {
	idx := m.Palette.Partition(tone)
	if len(idx) == 0 {
		return nil, 0, false
	}
	target := colorspace.Convert(quantize(r), quantize(g), quantize(b), m.Space)
	match := m.scan(target, idx)
	return &m.Palette.Entries[match.First], match.Dist1, true
}

// TwoNearestInPartition is NearestInPartition tracking two minima, for the
// ordered-pattern column variant.
func (m *Matcher) TwoNearestInPartition(r, g, b float64, tone Tone) (Match, bool) {
	idx := m.Palette.Partition(tone)
	if len(idx) == 0 {
		return Match{}, false
	}
	target := colorspace.Convert(quantize(r), quantize(g), quantize(b), m.Space)
	return m.scan(target, idx), true
}

// scan is the linear search tracking two minima. idx nil means all entries.
// Exits early on an exact hit.
func (m *Matcher) scan(target colorspace.Coord, idx []int) Match {
	best := Match{First: -1, Dist1: math.Inf(1), Second: -1, Dist2: math.Inf(1)}

	consider := func(i int) bool {
		d := colorspace.Distance(target, m.Palette.Entries[i].Coords[m.Space], m.Space, m.LumWeight)
		if d < best.Dist1 {
			best.Second, best.Dist2 = best.First, best.Dist1
			best.First, best.Dist1 = i, d
		} else if d < best.Dist2 {
			best.Second, best.Dist2 = i, d
		}
		return d == 0
	}

	if idx == nil {
		for i := range m.Palette.Entries {
			if consider(i) {
				break
			}
		}
	} else {
		for _, i := range idx {
			if consider(i) {
				break
			}
		}
	}
	return best
}

func quantize(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func weightBucket(w float64) uint32 {
	return uint32(math.Round(w * 16))
}

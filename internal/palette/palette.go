package palette

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/relief-mapper/internal/colorspace"
)

// ErrEmptyPalette is returned by Build when no enabled group crossed with the
// active tones yields at least one entry. An empty palette is a precondition
// violation for every downstream component and is never retried.
var ErrEmptyPalette = errors.New("palette: no enabled groups")

// Group is one selectable source group contributing a base color. Tone
// variants are derived from Base at build time.
type Group struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Base     [3]uint8 `json:"base"`
	Disabled bool     `json:"disabled,omitempty"`
}

// Entry is one candidate color: a (group, tone) pair with its RGB value and
// precomputed coordinates in every supported space. Entries are immutable
// after Build; Index is the entry's stable position within its palette.
type Entry struct {
	GroupID string
	Tone    Tone
	RGB     [3]uint8
	Coords  [colorspace.NumSpaces]colorspace.Coord
	Index   int
}

// Bounds is a per-channel RGB bounding box over a set of entries, used for
// gamut clamping during column solves.
type Bounds struct {
	Min [3]uint8
	Max [3]uint8
}

// Clamp restricts an RGB triple (as floats, possibly out of 0-255 after error
// diffusion) to the box.
func (b Bounds) Clamp(r, g, bl float64) (float64, float64, float64) {
	return clamp(r, float64(b.Min[0]), float64(b.Max[0])),
		clamp(g, float64(b.Min[1]), float64(b.Max[1])),
		clamp(bl, float64(b.Min[2]), float64(b.Max[2]))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// Palette is the built, immutable candidate set.
type Palette struct {
	Mode    StructureMode
	Entries []Entry

	// partitions[tone] lists entry indices of that tone; empty for tones the
	// mode does not activate.
	partitions [NumTones][]int
	bounds     [NumTones]Bounds
	allBounds  Bounds
}

// Build constructs a palette from the enabled groups crossed with the tones
// active under mode.
//
// Each entry's coordinates in all supported spaces are computed here, once.
// Returns ErrEmptyPalette when no entry results (all groups disabled, or no
// groups at all).
func Build(groups []Group, mode StructureMode) (*Palette, error) {
	p := &Palette{Mode: mode}

	for _, g := range groups {
		if g.Disabled {
			continue
		}
		for _, tone := range mode.Tones() {
			e := Entry{
				GroupID: g.ID,
				Tone:    tone,
				RGB:     shade(g.Base, tone),
				Index:   len(p.Entries),
			}
			for s := 0; s < colorspace.NumSpaces; s++ {
				e.Coords[s] = colorspace.Convert(e.RGB[0], e.RGB[1], e.RGB[2], colorspace.Space(s))
			}
			p.Entries = append(p.Entries, e)
			p.partitions[tone] = append(p.partitions[tone], e.Index)
		}
	}
	if len(p.Entries) == 0 {
		return nil, ErrEmptyPalette
	}

	for t := Tone(0); t < NumTones; t++ {
		p.bounds[t] = boundsOf(p.Entries, p.partitions[t])
	}
	all := make([]int, len(p.Entries))
	for i := range all {
		all[i] = i
	}
	p.allBounds = boundsOf(p.Entries, all)
	return p, nil
}

// shade derives the tone variant of a base color. Rounding matches the
// reference palette tables (truncation after scaling).
func shade(base [3]uint8, tone Tone) [3]uint8 {
	c := toneCoeff[tone]
	return [3]uint8{
		uint8(float64(base[0]) * c),
		uint8(float64(base[1]) * c),
		uint8(float64(base[2]) * c),
	}
}

func boundsOf(entries []Entry, idx []int) Bounds {
	b := Bounds{Min: [3]uint8{255, 255, 255}}
	for _, i := range idx {
		for ch := 0; ch < 3; ch++ {
			if entries[i].RGB[ch] < b.Min[ch] {
				b.Min[ch] = entries[i].RGB[ch]
			}
			if entries[i].RGB[ch] > b.Max[ch] {
				b.Max[ch] = entries[i].RGB[ch]
			}
		}
	}
	return b
}

// Partition returns the entry indices of one tone class. The returned slice
// is owned by the palette; callers must not modify it.
func (p *Palette) Partition(tone Tone) []int {
	return p.partitions[tone]
}

// PartitionBounds returns the RGB bounding box of one tone class.
func (p *Palette) PartitionBounds(tone Tone) Bounds {
	return p.bounds[tone]
}

// AllBounds returns the RGB bounding box over every entry.
func (p *Palette) AllBounds() Bounds {
	return p.allBounds
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.Entries)
}

// Validate checks the cross-entry invariants a built palette must satisfy.
// It exists for tests and for palettes deserialized from external sources.
func (p *Palette) Validate() error {
	if len(p.Entries) == 0 {
		return ErrEmptyPalette
	}
	for i, e := range p.Entries {
		if e.Index != i {
			return fmt.Errorf("palette: entry %d carries index %d", i, e.Index)
		}
	}
	return nil
}

package engine

// SectionSize is the fixed side length of one output tile.
const SectionSize = 128

// Section is one 128x128 output tile accumulating per-group pixel counts.
// Counts are mutated incrementally as pixels finalize during a pass.
type Section struct {
	// SX, SY are the tile coordinates (not pixel coordinates): the tile
	// covers pixels [SX*128, SX*128+128) x [SY*128, SY*128+128).
	SX, SY int
	Counts map[string]int
}

// SectionGrid covers an image with tiles.
type SectionGrid struct {
	Cols, Rows int
	Tiles      []*Section // row-major
}

// NewSectionGrid sizes a grid for a w by h image.
func NewSectionGrid(w, h int) *SectionGrid {
	cols := (w + SectionSize - 1) / SectionSize
	rows := (h + SectionSize - 1) / SectionSize
	g := &SectionGrid{Cols: cols, Rows: rows, Tiles: make([]*Section, cols*rows)}
	for sy := 0; sy < rows; sy++ {
		for sx := 0; sx < cols; sx++ {
			g.Tiles[sy*cols+sx] = &Section{SX: sx, SY: sy, Counts: make(map[string]int)}
		}
	}
	return g
}

// Add counts one finalized pixel for a group.
func (g *SectionGrid) Add(x, y int, groupID string) {
	g.Tiles[(y/SectionSize)*g.Cols+x/SectionSize].Counts[groupID]++
}

// At returns the tile containing pixel (x, y).
func (g *SectionGrid) At(x, y int) *Section {
	return g.Tiles[(y/SectionSize)*g.Cols+x/SectionSize]
}

// Total sums every group count across the grid.
func (g *SectionGrid) Total() int {
	n := 0
	for _, t := range g.Tiles {
		for _, c := range t.Counts {
			n += c
		}
	}
	return n
}

package solver

import (
	"errors"
	"fmt"

	"github.com/ironsheep/relief-mapper/internal/colorspace"
	"github.com/ironsheep/relief-mapper/internal/dither"
)

// Defaults for the solver bounds and behavior.
const (
	DefaultMaxHeight    = 48
	DefaultMemoCapacity = 1 << 18
	DefaultMaxDepth     = 4096
	DefaultDiffuse      = 0.5

	// fallbackLength is the segment length below which a failed segment is
	// solved greedily instead of subdivided further.
	fallbackLength = 8
)

// Config parameterizes a column solve.
type Config struct {
	// Space and LumWeight select the matching metric.
	Space     colorspace.Space
	LumWeight float64

	// Method must be one of the column variants: ColumnNone, ColumnPattern
	// or ColumnDiffuse.
	Method dither.Method

	// Matrix is the threshold matrix for ColumnPattern; ignored otherwise.
	Matrix dither.Matrix

	// MaxHeight bounds the height state to [0, MaxHeight).
	MaxHeight int

	// Reference zeroes the local penalty whenever the constrained pick
	// coincides with the globally unconstrained nearest entry.
	Reference bool

	// ClampGamut clamps candidate colors to the RGB bounding box of the
	// active tone partition instead of the full color range.
	ClampGamut bool

	// DiffuseFactor scales the lateral error pushed into the next column
	// (ColumnDiffuse only).
	DiffuseFactor float64

	// MemoCapacity and MaxDepth bound the memo table and the recursion.
	// Exceeding either aborts the segment and triggers subdivision.
	MemoCapacity int
	MaxDepth     int

	// Seed drives the subdivision pivot choice. With RandomSeed false the
	// solve is fully deterministic for identical input and settings.
	Seed       int64
	RandomSeed bool
}

// withDefaults fills zero-valued bounds.
func (c Config) withDefaults() Config {
	if c.MaxHeight <= 0 {
		c.MaxHeight = DefaultMaxHeight
	}
	if c.MemoCapacity <= 0 {
		c.MemoCapacity = DefaultMemoCapacity
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.LumWeight == 0 {
		c.LumWeight = colorspace.DefaultLuminanceWeight
	}
	if c.DiffuseFactor == 0 {
		c.DiffuseFactor = DefaultDiffuse
	}
	return c
}

func (c Config) validate() error {
	if !c.Method.PerColumn() {
		return fmt.Errorf("solver: method %s is not a column variant", c.Method)
	}
	if c.Method == dither.ColumnPattern && c.Matrix.N == 0 {
		return errors.New("solver: ColumnPattern requires a threshold matrix")
	}
	return nil
}

// Result is the solved assignment for one column: one palette entry index and
// one height per row. Consecutive heights differ by at most one.
type Result struct {
	Entries []int
	Heights []int
}

// errBoundExceeded aborts a segment when the memo table or recursion depth
// hits its bound. It is handled internally by subdivision and never surfaces.
var errBoundExceeded = errors.New("solver: memo or depth bound exceeded")

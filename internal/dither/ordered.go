package dither

import (
	"fmt"
	"math"
	"sort"
)

// Matrix is an ordered-dither threshold matrix with integer ranks 1..N*N.
//
// The decision between the two nearest palette entries at (x, y) compares
//
//	dist1 * (N*N + 1)  against  dist2 * Rank[y%N][x%N]
//
// using squared distances; the first (nearest) entry wins when its side is
// less than or equal. This ratio test is what the matrix family means here —
// not a biased re-threshold of a single match.
type Matrix struct {
	Name string
	N    int
	Rank [][]int
}

// maxPlusOne is the constant the nearest distance is scaled by.
func (m Matrix) maxPlusOne() float64 {
	return float64(m.N*m.N + 1)
}

// Select applies the ordered decision rule at a pixel. It returns true when
// the first (nearest) entry should be used, false for the second.
func (m Matrix) Select(dist1, dist2 float64, x, y int) bool {
	rank := m.Rank[((y%m.N)+m.N)%m.N][((x%m.N)+m.N)%m.N]
	return dist1*m.maxPlusOne() <= dist2*float64(rank)
}

// Bayer returns the classic dispersed-dot matrix of side n, which must be a
// power of two between 2 and 16. Ranks are the recursive Bayer ordering
// shifted to 1..n².
func Bayer(n int) (Matrix, error) {
	if n < 2 || n > 16 || n&(n-1) != 0 {
		return Matrix{}, fmt.Errorf("bayer matrix side must be a power of two in [2,16], got %d", n)
	}
	rank := make([][]int, n)
	for y := range rank {
		rank[y] = make([]int, n)
		for x := range rank[y] {
			rank[y][x] = bayerRank(x, y, n) + 1
		}
	}
	return Matrix{Name: fmt.Sprintf("bayer%d", n), N: n, Rank: rank}, nil
}

// bayerRank is the standard bit-interleave construction. The finest bits of
// (x, y) form the most significant base-4 digit, matching the recursive
// definition M2n = [[4M, 4M+2], [4M+3, 4M+1]].
func bayerRank(x, y, n int) int {
	r := 0
	for s := 1; s < n; s <<= 1 {
		xb := (x / s) & 1
		yb := (y / s) & 1
		r = r<<2 | (xb^yb)<<1 | yb
	}
	return r
}

// Dispersed3 is a 3x3 dispersed-dot matrix, the smallest non-Bayer pattern.
var Dispersed3 = Matrix{
	Name: "dispersed3",
	N:    3,
	Rank: [][]int{
		{3, 7, 4},
		{6, 1, 9},
		{2, 8, 5},
	},
}

// ClusterDot returns a clustered-dot (halftone) matrix of side n. Cells are
// ranked by distance from the matrix center, nearest first, with ties broken
// by angle, so thresholds grow a round dot. Side 6 and 14 are the sizes the
// method set exposes; any n in [2,16] works.
func ClusterDot(n int) (Matrix, error) {
	if n < 2 || n > 16 {
		return Matrix{}, fmt.Errorf("cluster-dot matrix side must be in [2,16], got %d", n)
	}
	type cell struct {
		x, y int
		d, a float64
	}
	c := (float64(n) - 1) / 2
	cells := make([]cell, 0, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			cells = append(cells, cell{x, y, dx*dx + dy*dy, math.Atan2(dy, dx)})
		}
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].d != cells[j].d {
			return cells[i].d < cells[j].d
		}
		return cells[i].a < cells[j].a
	})
	rank := make([][]int, n)
	for y := range rank {
		rank[y] = make([]int, n)
	}
	for r, cl := range cells {
		rank[cl.y][cl.x] = r + 1
	}
	return Matrix{Name: fmt.Sprintf("cluster%d", n), N: n, Rank: rank}, nil
}

// MatrixByName resolves the matrices exposed through settings: bayer2,
// bayer4, bayer8, dispersed3, cluster6, cluster14.
func MatrixByName(name string) (Matrix, error) {
	switch name {
	case "bayer2":
		return Bayer(2)
	case "bayer4":
		return Bayer(4)
	case "bayer8":
		return Bayer(8)
	case "dispersed3":
		return Dispersed3, nil
	case "cluster6":
		return ClusterDot(6)
	case "cluster14":
		return ClusterDot(14)
	}
	return Matrix{}, fmt.Errorf("unknown ordered matrix %q", name)
}

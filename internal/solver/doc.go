// Package solver implements the per-column dynamic program that jointly
// chooses a palette entry and a vertical height for every row of one image
// column, minimizing total perceptual error under the height-transition rule.
//
// Heights between adjacent rows may only stay, rise by one, or fall by one,
// and each direction is legal only into the matching tone partition: staying
// selects Normal, rising Light, falling Dark (or Deep when a fall lands on
// the lowest height under the full structure mode). The solver searches this
// constrained space with top-down memoized recursion over (row, previous
// height) states; the diffusing variant adds a quantized incoming-error
// dimension to the key, because diffused error changes which entry is locally
// optimal.
//
// Both recursion depth and memo size are bounded. Exceeding either bound
// aborts the current segment — never the whole column and never silently: the
// segment is subdivided at a pivot between one quarter and three quarters of
// its length and each half retried, the ending height of the upper half
// entering the lower. Segments still failing below a small fixed length fall
// back to a stateless greedy per-row choice, which is correctness-preserving
// but no longer globally optimal there. An unsolved column therefore cannot
// occur; the only fatal condition is an empty palette, rejected at
// construction.
//
// Columns of one image must be solved strictly left to right: the diffusing
// variant pushes weighted error into the next column (north-east, east,
// south-east), consumed when that column solves. A Solver instance is bound
// to one image pass and is not safe for concurrent use.
package solver

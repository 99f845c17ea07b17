package solver

import "github.com/ironsheep/relief-mapper/internal/palette"

// memoKey packs a solver state into one integer: the row position, the
// previous height shifted by one (so the unconstrained -1 packs as zero), and
// for the diffusing variant the three quantized incoming-error buckets.
//
// Layout (low to high): row 12 bits | prevHeight+1 9 bits | errR 6 | errG 6 |
// errB 6. Rows and heights beyond the field widths cannot occur: images are
// tiled well below 4096 rows and MaxHeight is bounded at construction.
type memoKey uint64

func packKey(row, prevHeight int, e errBucket) memoKey {
	k := memoKey(row) | memoKey(prevHeight+1)<<12
	k |= memoKey(uint64(e[0])&0x3f) << 21
	k |= memoKey(uint64(e[1])&0x3f) << 27
	k |= memoKey(uint64(e[2])&0x3f) << 33
	return k
}

// errBucket is a quantized incoming-error triple. Each channel is the error
// divided by errBucketSize, rounded and clamped to [-errBucketMax,
// errBucketMax], then biased non-negative for packing.
type errBucket [3]int8

const (
	errBucketSize = 16.0
	errBucketMax  = 24
)

func bucketOf(r, g, b float64) errBucket {
	return errBucket{bucketChan(r), bucketChan(g), bucketChan(b)}
}

func bucketChan(v float64) int8 {
	q := int(v/errBucketSize + 0.5)
	if v < 0 {
		q = int(v/errBucketSize - 0.5)
	}
	if q > errBucketMax {
		q = errBucketMax
	}
	if q < -errBucketMax {
		q = -errBucketMax
	}
	return int8(q + errBucketMax) // bias into 0..2*errBucketMax for packing
}

// value returns the representative error the bucket stands for. The DP
// recursion propagates this representative, not the exact error, so that the
// memo key and the recursion see identical state.
func (e errBucket) value() (float64, float64, float64) {
	return float64(int(e[0])-errBucketMax) * errBucketSize,
		float64(int(e[1])-errBucketMax) * errBucketSize,
		float64(int(e[2])-errBucketMax) * errBucketSize
}

var zeroBucket = bucketOf(0, 0, 0)

// memoEntry is one solved sub-state: the minimal cost of the rows from this
// state to the segment end, and the first decision on that optimal path.
type memoEntry struct {
	cost   float64
	height int16
	tone   palette.Tone
	entry  int32
}

// memoTable is a fixed-capacity map. Exceeding the capacity is a signal to
// abandon the segment, never a fatal error.
type memoTable struct {
	m   map[memoKey]memoEntry
	cap int
}

func newMemoTable(capacity int) *memoTable {
	return &memoTable{m: make(map[memoKey]memoEntry), cap: capacity}
}

func (t *memoTable) get(k memoKey) (memoEntry, bool) {
	e, ok := t.m[k]
	return e, ok
}

// put stores a sub-solution. It reports false when the table is full; the
// caller must abort the segment.
func (t *memoTable) put(k memoKey, e memoEntry) bool {
	if len(t.m) >= t.cap {
		if _, exists := t.m[k]; !exists {
			return false
		}
	}
	t.m[k] = e
	return true
}

// reset discards all entries. Called between segments after an abort so a
// retried half starts from an empty table.
func (t *memoTable) reset() {
	t.m = make(map[memoKey]memoEntry)
}

func (t *memoTable) len() int {
	return len(t.m)
}

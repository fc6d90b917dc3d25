// Package skiplist implements the back-stitch skip-list arithmetic a
// Strand's Tixels use to provide O(log n) range traversal: layer
// position of an index, and the jump-by-largest-power iterator used
// to walk between two indices.
package skiplist

// LayerPos returns the highest skip-list layer for which index is an
// anchor, given the strand's radix. Layer 0 holds every index; layer k
// holds only indices that are multiples of radix^k (and not of
// radix^(k+1)). Index 0 is always layer 0 by convention.
//
//	LayerPos(10, 1560) == 1  // multiple of 10, not 100
//	LayerPos(10, 3000) == 3  // multiple of 1000, not 10000
func LayerPos(radix uint8, index uint64) int {
	if index == 0 {
		return 0
	}
	if radix == 1 {
		return int(index)
	}

	m := uint64(radix)
	result := 1
	for index%m == 0 {
		m *= uint64(radix)
		result++
	}
	return result - 1
}

// Iter walks the back-stitch skip list from fromIndex down to (but not
// including) toIndex, yielding the largest possible jumps at each step.
// A radix of 0 degenerates to a plain decreasing walk of every index
// (equivalent to following each Tixel's single "previous" back-stitch).
// A radix of 1 is invalid, since radix^k is always 1 and no skipping is
// possible.
type Iter struct {
	radix     uint64
	curr      uint64
	fromIndex uint64
	toIndex   uint64
	byLink    bool
	q         uint32
	pow       uint64
	starter   *uint64
	done      bool
}

// New builds an Iter over the open index range (toIndex, fromIndex):
// neither fromIndex nor toIndex is ever yielded.
// If byLink is true, the iterator yields the back-stitch array index
// (the layer jumped by) at each step instead of the destination Tixel
// index.
//
// Panics if radix == 1 or toIndex >= fromIndex: both are caller bugs,
// never data-dependent.
func New(radix uint8, fromIndex, toIndex uint64, byLink bool) *Iter {
	if radix == 1 {
		panic("skiplist: radix 1 is invalid")
	}
	if toIndex >= fromIndex {
		panic("skiplist: invalid range, toIndex must be < fromIndex")
	}

	r := uint64(radix)
	diff := fromIndex - toIndex

	q := uint32(0)
	pow := uint64(1)
	if r >= 2 {
		for pow*r <= diff {
			pow *= r
			q++
		}
	}

	curr := (fromIndex / pow) * pow

	it := &Iter{
		radix:     r,
		curr:      curr,
		fromIndex: fromIndex,
		toIndex:   toIndex,
		byLink:    byLink,
		q:         q,
		pow:       pow,
	}
	if curr != fromIndex {
		if byLink {
			v := uint64(q)
			it.starter = &v
		} else {
			v := curr
			it.starter = &v
		}
	}
	return it
}

// Next returns the next value in the walk and true, or (0, false) once
// the walk is exhausted.
func (it *Iter) Next() (uint64, bool) {
	if it.done {
		return 0, false
	}
	if it.toIndex >= it.fromIndex {
		it.done = true
		return 0, false
	}

	if it.starter != nil {
		v := *it.starter
		it.starter = nil
		return v, true
	}

	if it.curr < it.toIndex {
		it.done = true
		return 0, false
	}

	for it.curr-it.pow <= it.toIndex {
		if it.q == 0 {
			it.done = true
			return 0, false
		}
		it.q--
		it.pow = pow(it.radix, it.q)
	}

	it.curr -= it.pow

	if it.byLink {
		return uint64(it.q), true
	}
	return it.curr, true
}

// Collect drains the iterator into a slice, in the same order Next
// would yield it. Only safe for ranges known to be small (callers doing
// bulk traversal should prefer Next in a loop).
func (it *Iter) Collect() []uint64 {
	var out []uint64
	for {
		v, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func pow(base uint64, exp uint32) uint64 {
	result := uint64(1)
	for i := uint32(0); i < exp; i++ {
		result *= base
	}
	return result
}

package query

import (
	twcid "github.com/twine-protocol/twine-go/cid"
	twerr "github.com/twine-protocol/twine-go/errors"
)

// AbsoluteRange is an inclusive index range on a single Strand. The
// direction of traversal is the sign of End-Start: ascending when
// End >= Start, descending otherwise.
//
// Empty marks a range that resolved to nothing, e.g. both bounds of a
// relative range landing below index 0 against a short chain. Callers
// must check Empty before using Start/End and treat an empty range as
// a successful, zero-item stream rather than an error.
type AbsoluteRange struct {
	Strand twcid.Cid
	Start  uint64
	End    uint64
	Empty  bool
}

// Ascending reports whether the range runs from Start up to End.
func (r AbsoluteRange) Ascending() bool { return r.End >= r.Start }

// Len returns the number of indices the range spans, inclusive of both
// endpoints (0 for an Empty range).
func (r AbsoluteRange) Len() uint64 {
	if r.Empty {
		return 0
	}
	if r.Ascending() {
		return r.End - r.Start + 1
	}
	return r.Start - r.End + 1
}

// Batches splits r into contiguous sub-ranges of at most size indices
// each, preserving direction; the final batch carries the remainder.
// size must be > 0.
func (r AbsoluteRange) Batches(size uint64) ([]AbsoluteRange, error) {
	if size == 0 {
		return nil, twerr.NewVerificationError(twerr.General, "batch size must be > 0")
	}

	ascending := r.Ascending()
	remaining := r.Len()
	cursor := r.Start

	var out []AbsoluteRange
	for remaining > 0 {
		batchLen := size
		if batchLen > remaining {
			batchLen = remaining
		}
		var batchEnd uint64
		if ascending {
			batchEnd = cursor + batchLen - 1
		} else {
			batchEnd = cursor - (batchLen - 1)
		}
		out = append(out, AbsoluteRange{Strand: r.Strand, Start: cursor, End: batchEnd})

		remaining -= batchLen
		if remaining == 0 {
			break
		}
		if ascending {
			cursor = batchEnd + 1
		} else {
			cursor = batchEnd - 1
		}
	}
	return out, nil
}

// Bound is a range endpoint that is included, excluded, or unbounded.
// Negative values resolve against a Strand's latest index.
type Bound struct {
	Kind  BoundKind
	Value int64
}

type BoundKind int

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// RangeKind discriminates whether a RangeQuery is already pinned to
// absolute indices or still needs resolution against a Strand's latest
// index.
type RangeKind int

const (
	RangeAbsolute RangeKind = iota
	RangeRelative
)

// RangeQuery names a span of Tixels on one Strand, either as an
// already-resolved AbsoluteRange or as a pair of Bounds still relative
// to the Strand's latest index.
type RangeQuery struct {
	Kind     RangeKind
	Strand   twcid.Cid
	Absolute AbsoluteRange
	Start    Bound
	End      Bound
}

// NewAbsoluteRangeQuery wraps an already-resolved AbsoluteRange.
func NewAbsoluteRangeQuery(r AbsoluteRange) RangeQuery {
	return RangeQuery{Kind: RangeAbsolute, Strand: r.Strand, Absolute: r}
}

// NewRelativeRangeQuery builds a range query whose bounds may still
// need resolution against the Strand's latest index.
func NewRelativeRangeQuery(strand twcid.Cid, start, end Bound) RangeQuery {
	return RangeQuery{Kind: RangeRelative, Strand: strand, Start: start, End: end}
}

// ToAbsolute resolves r against latest (the Strand's current highest
// index), returning an AbsoluteRange. A no-op when r is already
// absolute.
//
// Direction is decided from the bounds' raw (pre-resolution) signs
// before either is measured against latest, matching a negative-index
// range's intent even when it would otherwise straddle zero. A range
// that can't be satisfied against latest (e.g. a start above the
// chain's tip, or both bounds resolving below index 0) comes back with
// Empty set rather than a nonsensical or wrapped-around range.
func (r RangeQuery) ToAbsolute(latest uint64) AbsoluteRange {
	if r.Kind == RangeAbsolute {
		return r.Absolute
	}

	sRaw := boundRaw(r.Start, 0)
	eRaw := boundRaw(r.End, -1)
	dir := rangeDir(sRaw, eRaw)

	s := resolveNegative(sRaw, latest)
	if r.Start.Kind == Excluded {
		s += dir
	}
	e := resolveNegative(eRaw, latest)
	if r.End.Kind == Excluded {
		e -= dir
	}

	l := int64(latest)
	if (dir > 0 && s > l) || (dir < 0 && e > l) || (s < 0 && e < 0) {
		return AbsoluteRange{Strand: r.Strand, Empty: true}
	}

	var start, end int64
	if dir < 0 {
		start, end = max64(s, e, 0), max64(e, 0)
	} else {
		start, end = max64(s, 0), max64(e, s, 0)
	}
	return AbsoluteRange{Strand: r.Strand, Start: uint64(start), End: uint64(end)}
}

// boundRaw returns b's signed value, substituting def for an
// Unbounded bound (0 for a start, -1 — "latest" — for an end).
func boundRaw(b Bound, def int64) int64 {
	if b.Kind == Unbounded {
		return def
	}
	return b.Value
}

// rangeDir decides ascending (1) vs descending (-1) from two raw,
// possibly-still-negative bound values. When exactly one side is
// negative (relative to latest) and the other is a plain index, the
// relative side names the direction; otherwise the smaller value
// starts the range.
func rangeDir(s, e int64) int64 {
	if (s < 0) != (e < 0) {
		if s < 0 {
			return -1
		}
		return 1
	}
	if s < e {
		return 1
	}
	return -1
}

// resolveNegative turns a negative (relative-to-latest) bound value
// into an absolute index; a non-negative value passes through.
func resolveNegative(v int64, latest uint64) int64 {
	if v < 0 {
		return int64(latest) + v + 1
	}
	return v
}

func max64(vs ...int64) int64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

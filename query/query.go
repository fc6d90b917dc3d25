// Package query implements Twine's query grammar: SingleQuery,
// AbsoluteRange, RangeQuery and AnyQuery, plus the stable CLI/URL string
// form of each.
package query

import (
	twcid "github.com/twine-protocol/twine-go/cid"
)

// TwineLike is satisfied by anything a SingleQuery can be matched
// against (model.Twine qualifies; model.Stitch does not, since it has
// no StrandCid method).
type TwineLike interface {
	StrandCid() twcid.Cid
	AsCid() twcid.Cid
}

// Indexed is satisfied by anything that also exposes its index, needed
// to match an absolute Index query.
type Indexed interface {
	TwineLike
	Index() uint64
}

// SingleQueryKind discriminates the three forms a SingleQuery may take.
type SingleQueryKind int

const (
	QueryStitch SingleQueryKind = iota
	QueryIndex
	QueryLatest
)

// SingleQuery names exactly one Twine on a Strand.
// For QueryIndex, Index == -1 means "latest", a negative Index means
// "latest + Index + 1" (i.e. counting back from the end), and a
// non-negative Index is absolute.
type SingleQuery struct {
	Kind   SingleQueryKind
	Strand twcid.Cid
	Tixel  twcid.Cid // set when Kind == QueryStitch
	Index  int64     // set when Kind == QueryIndex
}

// NewStitchQuery builds a query for an exact (strand, tixel) pair.
func NewStitchQuery(strand, tixel twcid.Cid) SingleQuery {
	return SingleQuery{Kind: QueryStitch, Strand: strand, Tixel: tixel}
}

// NewIndexQuery builds a query for index on strand. index == -1 means
// latest; other negative values count back from latest.
func NewIndexQuery(strand twcid.Cid, index int64) SingleQuery {
	if index == -1 {
		return SingleQuery{Kind: QueryLatest, Strand: strand}
	}
	return SingleQuery{Kind: QueryIndex, Strand: strand, Index: index}
}

// NewLatestQuery builds a query for the latest Tixel on strand.
func NewLatestQuery(strand twcid.Cid) SingleQuery {
	return SingleQuery{Kind: QueryLatest, Strand: strand}
}

// IsRelative reports whether resolving this query requires knowing the
// Strand's latest index first (QueryLatest, or a negative QueryIndex).
func (q SingleQuery) IsRelative() bool {
	return q.Kind == QueryLatest || (q.Kind == QueryIndex && q.Index < 0)
}

// ResolveAbsoluteIndex converts a relative index query into an absolute
// one given the Strand's current latest index. No-op for already
// absolute queries.
func (q SingleQuery) ResolveAbsoluteIndex(latest uint64) uint64 {
	if q.Kind == QueryLatest {
		return latest
	}
	if q.Index < 0 {
		// index == -1 is handled by NewIndexQuery as QueryLatest, but a
		// caller may still construct Index: -2 meaning "one before latest".
		return uint64(int64(latest) + q.Index + 1)
	}
	return uint64(q.Index)
}

// Matches reports whether tw is the Twine this query names: strand CID
// must match, and for QueryStitch the tixel CID must match, and for an
// absolute QueryIndex the index must match. Relative/latest queries
// need no further check beyond the strand match.
func (q SingleQuery) Matches(tw Indexed) bool {
	if !tw.StrandCid().Equals(q.Strand) {
		return false
	}
	switch q.Kind {
	case QueryStitch:
		return tw.AsCid().Equals(q.Tixel)
	case QueryIndex:
		if q.Index < 0 {
			return true
		}
		return tw.Index() == uint64(q.Index)
	case QueryLatest:
		return true
	default:
		return false
	}
}

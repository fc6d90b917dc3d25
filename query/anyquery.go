package query

import (
	twcid "github.com/twine-protocol/twine-go/cid"
)

// AnyQueryKind discriminates the three forms an AnyQuery may take.
type AnyQueryKind int

const (
	QueryAnyStrand AnyQueryKind = iota
	QueryAnyOne
	QueryAnyMany
)

// AnyQuery is the top-level query type accepted by resolver entry
// points and the string grammar: a bare Strand lookup, a SingleQuery,
// or a RangeQuery.
type AnyQuery struct {
	Kind   AnyQueryKind
	Strand twcid.Cid  // set when Kind == QueryAnyStrand
	One    SingleQuery // set when Kind == QueryAnyOne
	Many   RangeQuery  // set when Kind == QueryAnyMany
}

// NewStrandQuery builds an AnyQuery that names a bare Strand.
func NewStrandQuery(strand twcid.Cid) AnyQuery {
	return AnyQuery{Kind: QueryAnyStrand, Strand: strand}
}

// NewOneQuery wraps a SingleQuery as an AnyQuery.
func NewOneQuery(q SingleQuery) AnyQuery {
	return AnyQuery{Kind: QueryAnyOne, One: q}
}

// NewManyQuery wraps a RangeQuery as an AnyQuery.
func NewManyQuery(q RangeQuery) AnyQuery {
	return AnyQuery{Kind: QueryAnyMany, Many: q}
}

// Reduce collapses a QueryAnyMany whose range spans exactly one index
// into the equivalent QueryAnyOne, letting resolvers dispatch a
// single-element range through the cheaper SingleQuery path. Any other
// AnyQuery is returned unchanged.
func (q AnyQuery) Reduce() AnyQuery {
	if q.Kind != QueryAnyMany || q.Many.Kind != RangeAbsolute {
		return q
	}
	r := q.Many.Absolute
	if r.Len() != 1 {
		return q
	}
	return NewOneQuery(NewIndexQuery(r.Strand, int64(r.Start)))
}

// StrandCid returns the Strand CID this query is scoped to, regardless
// of which variant it is.
func (q AnyQuery) StrandCid() twcid.Cid {
	switch q.Kind {
	case QueryAnyStrand:
		return q.Strand
	case QueryAnyOne:
		return q.One.Strand
	case QueryAnyMany:
		return q.Many.Strand
	default:
		return twcid.Undef
	}
}

package query

import (
	"testing"

	twcid "github.com/twine-protocol/twine-go/cid"
)

func testSeededCid(t *testing.T, seed string) twcid.Cid {
	t.Helper()
	c, err := twcid.Make(twcid.SHA2_256, []byte(seed))
	if err != nil {
		t.Fatalf("making test cid: %v", err)
	}
	return c
}

func TestReduceCollapsesSingleElementRange(t *testing.T) {
	strand := testStrandCid(t)
	r := NewAbsoluteRangeQuery(AbsoluteRange{Strand: strand, Start: 4, End: 4})
	q := NewManyQuery(r).Reduce()
	if q.Kind != QueryAnyOne {
		t.Fatalf("expected reduction to QueryAnyOne, got kind %v", q.Kind)
	}
	if q.One.Kind != QueryIndex || q.One.Index != 4 {
		t.Fatalf("expected an absolute index query for 4, got %+v", q.One)
	}
}

func TestReduceLeavesMultiElementRangeUnchanged(t *testing.T) {
	strand := testStrandCid(t)
	r := NewAbsoluteRangeQuery(AbsoluteRange{Strand: strand, Start: 0, End: 3})
	q := NewManyQuery(r).Reduce()
	if q.Kind != QueryAnyMany {
		t.Fatalf("expected unreduced QueryAnyMany, got kind %v", q.Kind)
	}
}

func TestReduceLeavesRelativeRangeUnchanged(t *testing.T) {
	strand := testStrandCid(t)
	r := NewRelativeRangeQuery(strand, Bound{Kind: Unbounded}, Bound{Kind: Unbounded})
	q := NewManyQuery(r).Reduce()
	if q.Kind != QueryAnyMany {
		t.Fatalf("expected unreduced QueryAnyMany for a still-relative range, got kind %v", q.Kind)
	}
}

func TestAnyQueryStrandCidDispatchesByKind(t *testing.T) {
	strand := testStrandCid(t)
	if !NewStrandQuery(strand).StrandCid().Equals(strand) {
		t.Fatal("QueryAnyStrand StrandCid mismatch")
	}
	if !NewOneQuery(NewLatestQuery(strand)).StrandCid().Equals(strand) {
		t.Fatal("QueryAnyOne StrandCid mismatch")
	}
	r := NewAbsoluteRangeQuery(AbsoluteRange{Strand: strand, Start: 0, End: 1})
	if !NewManyQuery(r).StrandCid().Equals(strand) {
		t.Fatal("QueryAnyMany StrandCid mismatch")
	}
}

// fakeTwine implements Indexed for exercising SingleQuery.Matches without
// depending on the model package.
type fakeTwine struct {
	strand twcid.Cid
	cid    twcid.Cid
	index  uint64
}

func (f fakeTwine) StrandCid() twcid.Cid { return f.strand }
func (f fakeTwine) AsCid() twcid.Cid     { return f.cid }
func (f fakeTwine) Index() uint64        { return f.index }

func TestSingleQueryMatches(t *testing.T) {
	strand := testStrandCid(t)
	other := testSeededCid(t, "other-strand")
	tixel := testSeededCid(t, "tixel")

	latest := NewLatestQuery(strand)
	if !latest.Matches(fakeTwine{strand: strand, cid: tixel, index: 7}) {
		t.Fatal("expected latest query to match any index on the right strand")
	}
	if latest.Matches(fakeTwine{strand: other, cid: tixel, index: 7}) {
		t.Fatal("expected latest query not to match a different strand")
	}

	idx := NewIndexQuery(strand, 3)
	if !idx.Matches(fakeTwine{strand: strand, cid: tixel, index: 3}) {
		t.Fatal("expected absolute index query to match at index 3")
	}
	if idx.Matches(fakeTwine{strand: strand, cid: tixel, index: 4}) {
		t.Fatal("expected absolute index query not to match a different index")
	}

	stitch := NewStitchQuery(strand, tixel)
	if !stitch.Matches(fakeTwine{strand: strand, cid: tixel, index: 9}) {
		t.Fatal("expected stitch query to match by cid")
	}
}

package query

import (
	"testing"
)

func TestParseStrandQuery(t *testing.T) {
	strand := testStrandCid(t)
	q, err := Parse(strand.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Kind != QueryAnyStrand {
		t.Fatalf("expected strand query, got kind %d", q.Kind)
	}
}

func TestParseLatestQuery(t *testing.T) {
	strand := testStrandCid(t)
	for _, seg := range []string{"latest", "-1"} {
		q, err := Parse(strand.String() + ":" + seg)
		if err != nil {
			t.Fatalf("Parse(%q): %v", seg, err)
		}
		if q.Kind != QueryAnyOne || q.One.Kind != QueryLatest {
			t.Fatalf("Parse(%q) = %+v, want latest query", seg, q)
		}
	}
}

func TestParseIndexQuery(t *testing.T) {
	strand := testStrandCid(t)
	q, err := Parse(strand.String() + ":42")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Kind != QueryAnyOne || q.One.Kind != QueryIndex || q.One.Index != 42 {
		t.Fatalf("Parse = %+v, want index 42", q)
	}
}

func TestParseHalfOpenRange(t *testing.T) {
	strand := testStrandCid(t)
	q, err := Parse(strand.String() + ":5:10")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Kind != QueryAnyMany {
		t.Fatalf("expected range query, got kind %d", q.Kind)
	}
	if q.Many.End.Kind != Excluded || q.Many.End.Value != 10 {
		t.Fatalf("expected excluded end at 10, got %+v", q.Many.End)
	}
}

func TestParseInclusiveRange(t *testing.T) {
	strand := testStrandCid(t)
	q, err := Parse(strand.String() + ":5:=10")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Many.End.Kind != Included || q.Many.End.Value != 10 {
		t.Fatalf("expected included end at 10, got %+v", q.Many.End)
	}
}

func TestParseUnboundedRange(t *testing.T) {
	strand := testStrandCid(t)
	q, err := Parse(strand.String() + "::10")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Many.Start.Kind != Unbounded {
		t.Fatalf("expected unbounded start, got %+v", q.Many.Start)
	}
}

func TestAbsoluteRangeBatches(t *testing.T) {
	strand := testStrandCid(t)
	r := AbsoluteRange{Strand: strand, Start: 0, End: 9}
	batches, err := r.Batches(4)
	if err != nil {
		t.Fatalf("Batches: %v", err)
	}
	want := []AbsoluteRange{
		{Strand: strand, Start: 0, End: 3},
		{Strand: strand, Start: 4, End: 7},
		{Strand: strand, Start: 8, End: 9},
	}
	if len(batches) != len(want) {
		t.Fatalf("got %d batches, want %d: %+v", len(batches), len(want), batches)
	}
	for i := range want {
		if batches[i] != want[i] {
			t.Fatalf("batch %d = %+v, want %+v", i, batches[i], want[i])
		}
	}
}

func TestAbsoluteRangeBatchesDescending(t *testing.T) {
	strand := testStrandCid(t)
	r := AbsoluteRange{Strand: strand, Start: 9, End: 0}
	batches, err := r.Batches(4)
	if err != nil {
		t.Fatalf("Batches: %v", err)
	}
	want := []AbsoluteRange{
		{Strand: strand, Start: 9, End: 6},
		{Strand: strand, Start: 5, End: 2},
		{Strand: strand, Start: 1, End: 0},
	}
	if len(batches) != len(want) {
		t.Fatalf("got %d batches, want %d: %+v", len(batches), len(want), batches)
	}
	for i := range want {
		if batches[i] != want[i] {
			t.Fatalf("batch %d = %+v, want %+v", i, batches[i], want[i])
		}
	}
}

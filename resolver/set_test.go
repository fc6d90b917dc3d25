package resolver

import (
	"context"
	"testing"

	twcid "github.com/twine-protocol/twine-go/cid"
	twerr "github.com/twine-protocol/twine-go/errors"
	"github.com/twine-protocol/twine-go/model"
	"github.com/twine-protocol/twine-go/query"
)

// stubResolver is a minimal BaseResolver for exercising set fan-out
// semantics without a real store.
type stubResolver struct {
	latest *model.Tixel
	err    error
}

func (s *stubResolver) HasStrand(context.Context, twcid.Cid) (bool, error)    { return s.err == nil, nil }
func (s *stubResolver) HasTwine(context.Context, twcid.Cid, twcid.Cid) (bool, error) { return false, nil }
func (s *stubResolver) HasIndex(context.Context, twcid.Cid, uint64) (bool, error)    { return false, nil }
func (s *stubResolver) FetchStrand(context.Context, twcid.Cid) (*model.Strand, error) {
	return nil, twerr.ErrNotFound
}
func (s *stubResolver) FetchIndex(context.Context, twcid.Cid, uint64) (*model.Tixel, error) {
	return nil, twerr.ErrNotFound
}
func (s *stubResolver) FetchTixel(context.Context, twcid.Cid, twcid.Cid) (*model.Tixel, error) {
	return nil, twerr.ErrNotFound
}
func (s *stubResolver) FetchLatest(context.Context, twcid.Cid) (*model.Tixel, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.latest, nil
}
func (s *stubResolver) RangeStream(context.Context, query.AbsoluteRange) (<-chan *model.Tixel, <-chan error) {
	out := make(chan *model.Tixel)
	errc := make(chan error, 1)
	close(out)
	errc <- twerr.ErrNotFound
	close(errc)
	return out, errc
}
func (s *stubResolver) FetchStrands(context.Context) (<-chan *model.Strand, <-chan error) {
	out := make(chan *model.Strand)
	errc := make(chan error)
	close(out)
	close(errc)
	return out, errc
}

func TestHasStrandTrueIfAnyMember(t *testing.T) {
	set := NewResolverSetSeries(&stubResolver{err: errAlways}, &stubResolver{})
	ok, err := set.HasStrand(context.Background(), twcid.Undef)
	if err != nil {
		t.Fatalf("HasStrand: %v", err)
	}
	if !ok {
		t.Fatalf("expected true when a later member succeeds")
	}
}

var errAlways = &stubErr{}

type stubErr struct{}

func (*stubErr) Error() string { return "stub error" }

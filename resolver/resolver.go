// Package resolver implements the two-layer resolver interface stack:
// BaseResolver is the minimal per-backend contract; Resolver derives
// joint-verification operations (Resolve, ResolveRange, ...) from it.
// All operations take a context.Context so backends doing network or
// disk I/O can be cancelled without corrupting state.
package resolver

import (
	"context"

	"github.com/sirupsen/logrus"

	twcid "github.com/twine-protocol/twine-go/cid"
	twerr "github.com/twine-protocol/twine-go/errors"
	"github.com/twine-protocol/twine-go/model"
	"github.com/twine-protocol/twine-go/query"
)

// Log is the package-level logger, used by default and overridable
// by embedders.
var Log = logrus.New()

// BaseResolver is the minimal contract every storage/transport backend
// implements.
type BaseResolver interface {
	HasStrand(ctx context.Context, strand twcid.Cid) (bool, error)
	HasTwine(ctx context.Context, strand, tixel twcid.Cid) (bool, error)
	HasIndex(ctx context.Context, strand twcid.Cid, index uint64) (bool, error)

	FetchStrand(ctx context.Context, strand twcid.Cid) (*model.Strand, error)
	FetchLatest(ctx context.Context, strand twcid.Cid) (*model.Tixel, error)
	FetchIndex(ctx context.Context, strand twcid.Cid, index uint64) (*model.Tixel, error)
	FetchTixel(ctx context.Context, strand, tixel twcid.Cid) (*model.Tixel, error)

	// RangeStream produces Tixels in r's direction (ascending or
	// descending) over a channel, closing it when done or when ctx is
	// cancelled. A send on the returned error channel ends the stream.
	RangeStream(ctx context.Context, r query.AbsoluteRange) (<-chan *model.Tixel, <-chan error)

	// FetchStrands enumerates every Strand the backend can produce.
	FetchStrands(ctx context.Context) (<-chan *model.Strand, <-chan error)
}

// TwineResolution pins a resolved Twine to the query that produced it,
// so callers can tell "the record I asked for" from "the record I got".
type TwineResolution struct {
	Twine *model.Twine
	Query query.SingleQuery
}

// StrandResolution pins a resolved Strand to the query that produced it.
type StrandResolution struct {
	Strand *model.Strand
	Query  twcid.Cid
}

// Resolver is the derived, joint-verification API built automatically
// on top of any BaseResolver via Wrap.
type Resolver interface {
	BaseResolver

	Resolve(ctx context.Context, q query.SingleQuery) (*TwineResolution, error)
	ResolveRange(ctx context.Context, r query.RangeQuery) (<-chan *TwineResolution, <-chan error)
	ResolveLatest(ctx context.Context, strand twcid.Cid) (*TwineResolution, error)
	ResolveIndex(ctx context.Context, strand twcid.Cid, index uint64) (*TwineResolution, error)
	ResolveStitch(ctx context.Context, strand, tixel twcid.Cid) (*TwineResolution, error)
	ResolveStrand(ctx context.Context, strand twcid.Cid) (*StrandResolution, error)
}

// derived wraps a BaseResolver to provide the Resolver interface.
type derived struct {
	BaseResolver
}

// Wrap promotes a BaseResolver implementation to a full Resolver.
func Wrap(base BaseResolver) Resolver {
	return &derived{BaseResolver: base}
}

func (d *derived) ResolveStrand(ctx context.Context, strand twcid.Cid) (*StrandResolution, error) {
	s, err := d.FetchStrand(ctx, strand)
	if err != nil {
		return nil, wrapFetchErr(err)
	}
	return &StrandResolution{Strand: s, Query: strand}, nil
}

func (d *derived) ResolveStitch(ctx context.Context, strand, tixel twcid.Cid) (*TwineResolution, error) {
	return d.Resolve(ctx, query.NewStitchQuery(strand, tixel))
}

func (d *derived) ResolveIndex(ctx context.Context, strand twcid.Cid, index uint64) (*TwineResolution, error) {
	return d.Resolve(ctx, query.NewIndexQuery(strand, int64(index)))
}

func (d *derived) ResolveLatest(ctx context.Context, strand twcid.Cid) (*TwineResolution, error) {
	return d.Resolve(ctx, query.NewLatestQuery(strand))
}

// Resolve dispatches q by kind, fetches the Strand and Tixel
// concurrently, verifies the binding, and returns a TwineResolution
// pinned to q.
func (d *derived) Resolve(ctx context.Context, q query.SingleQuery) (*TwineResolution, error) {
	type strandResult struct {
		s   *model.Strand
		err error
	}
	type tixelResult struct {
		t   *model.Tixel
		err error
	}

	strandCh := make(chan strandResult, 1)
	go func() {
		s, err := d.FetchStrand(ctx, q.Strand)
		strandCh <- strandResult{s, err}
	}()

	tixelCh := make(chan tixelResult, 1)
	go func() {
		switch q.Kind {
		case query.QueryStitch:
			t, err := d.FetchTixel(ctx, q.Strand, q.Tixel)
			tixelCh <- tixelResult{t, err}
		case query.QueryLatest:
			t, err := d.FetchLatest(ctx, q.Strand)
			tixelCh <- tixelResult{t, err}
		case query.QueryIndex:
			if q.Index < 0 {
				latest, err := d.FetchLatest(ctx, q.Strand)
				if err != nil {
					tixelCh <- tixelResult{nil, err}
					return
				}
				abs := q.ResolveAbsoluteIndex(latest.Index())
				t, err := d.FetchIndex(ctx, q.Strand, abs)
				tixelCh <- tixelResult{t, err}
				return
			}
			t, err := d.FetchIndex(ctx, q.Strand, uint64(q.Index))
			tixelCh <- tixelResult{t, err}
		}
	}()

	sr := <-strandCh
	if sr.err != nil {
		return nil, wrapFetchErr(sr.err)
	}
	tr := <-tixelCh
	if tr.err != nil {
		return nil, wrapFetchErr(tr.err)
	}

	twine, err := model.NewTwine(sr.s, tr.t)
	if err != nil {
		return nil, twerr.NewResolutionError(twerr.Invalid, err)
	}
	if !q.Matches(twine) {
		return nil, twerr.NewResolutionError(twerr.QueryMismatch, nil)
	}
	return &TwineResolution{Twine: twine, Query: q}, nil
}

// ResolveRange converts r to an absolute range (fetching latest first
// if r is relative), then streams Twines index-by-index; each result's
// index is cross-checked against the index the stream claims to be at,
// and a mismatch yields a Fetch("index mismatch") error on the error
// channel.
func (d *derived) ResolveRange(ctx context.Context, r query.RangeQuery) (<-chan *TwineResolution, <-chan error) {
	out := make(chan *TwineResolution)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		abs := r.Absolute
		if r.Kind == query.RangeRelative {
			latest, err := d.FetchLatest(ctx, r.Strand)
			if err != nil {
				errc <- wrapFetchErr(err)
				return
			}
			abs = r.ToAbsolute(latest.Index())
		}
		if abs.Empty {
			// An unsatisfiable relative range (e.g. both bounds resolving
			// below index 0 against a short chain) is a successful empty
			// stream, not an error.
			return
		}

		strand, err := d.FetchStrand(ctx, abs.Strand)
		if err != nil {
			errc <- wrapFetchErr(err)
			return
		}

		tixelCh, tixelErrc := d.RangeStream(ctx, abs)
		expected := abs.Start
		step := int64(1)
		if !abs.Ascending() {
			step = -1
		}
		for {
			select {
			case <-ctx.Done():
				errc <- twerr.NewFetchError(ctx.Err().Error())
				return
			case t, ok := <-tixelCh:
				if !ok {
					if err, ok := <-tixelErrc; ok && err != nil {
						errc <- wrapFetchErr(err)
					}
					return
				}
				if t.Index() != expected {
					errc <- twerr.NewFetchError("index mismatch")
					return
				}
				twine, err := model.NewTwine(strand, t)
				if err != nil {
					errc <- twerr.NewResolutionError(twerr.Invalid, err)
					return
				}
				select {
				case out <- &TwineResolution{Twine: twine, Query: query.NewIndexQuery(abs.Strand, int64(t.Index()))}:
				case <-ctx.Done():
					errc <- twerr.NewFetchError(ctx.Err().Error())
					return
				}
				expected = uint64(int64(expected) + step)
			}
		}
	}()

	return out, errc
}

func wrapFetchErr(err error) error {
	if twerr.IsNotFound(err) {
		return err
	}
	return twerr.NewResolutionError(twerr.Fetch, err)
}

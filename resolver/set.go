package resolver

import (
	"context"

	twcid "github.com/twine-protocol/twine-go/cid"
	twerr "github.com/twine-protocol/twine-go/errors"
	"github.com/twine-protocol/twine-go/model"
	"github.com/twine-protocol/twine-go/query"
)

// ResolverSetSeries fans a single BaseResolver call out across an
// ordered list of member resolvers. It implements
// BaseResolver itself, so a set can be wrapped with Wrap just like any
// single backend, and nested inside another set.
type ResolverSetSeries struct {
	members []BaseResolver
}

// NewResolverSetSeries builds a fan-out set over members, tried in the
// given order for single-winner operations.
func NewResolverSetSeries(members ...BaseResolver) *ResolverSetSeries {
	return &ResolverSetSeries{members: members}
}

// HasStrand returns true iff any member does; member errors are logged
// and treated as false.
func (s *ResolverSetSeries) HasStrand(ctx context.Context, strand twcid.Cid) (bool, error) {
	for _, m := range s.members {
		ok, err := m.HasStrand(ctx, strand)
		if err != nil {
			Log.WithError(err).Debug("resolver set: member has_strand failed")
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *ResolverSetSeries) HasTwine(ctx context.Context, strand, tixel twcid.Cid) (bool, error) {
	for _, m := range s.members {
		ok, err := m.HasTwine(ctx, strand, tixel)
		if err != nil {
			Log.WithError(err).Debug("resolver set: member has_twine failed")
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *ResolverSetSeries) HasIndex(ctx context.Context, strand twcid.Cid, index uint64) (bool, error) {
	for _, m := range s.members {
		ok, err := m.HasIndex(ctx, strand, index)
		if err != nil {
			Log.WithError(err).Debug("resolver set: member has_index failed")
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// FetchStrand returns the first member's successful answer.
func (s *ResolverSetSeries) FetchStrand(ctx context.Context, strand twcid.Cid) (*model.Strand, error) {
	for _, m := range s.members {
		v, err := m.FetchStrand(ctx, strand)
		if err == nil {
			return v, nil
		}
		Log.WithError(err).Debug("resolver set: member fetch_strand failed")
	}
	return nil, twerr.ErrNotFound
}

func (s *ResolverSetSeries) FetchTixel(ctx context.Context, strand, tixel twcid.Cid) (*model.Tixel, error) {
	for _, m := range s.members {
		v, err := m.FetchTixel(ctx, strand, tixel)
		if err == nil {
			return v, nil
		}
		Log.WithError(err).Debug("resolver set: member fetch_tixel failed")
	}
	return nil, twerr.ErrNotFound
}

func (s *ResolverSetSeries) FetchIndex(ctx context.Context, strand twcid.Cid, index uint64) (*model.Tixel, error) {
	for _, m := range s.members {
		v, err := m.FetchIndex(ctx, strand, index)
		if err == nil {
			return v, nil
		}
		Log.WithError(err).Debug("resolver set: member fetch_index failed")
	}
	return nil, twerr.ErrNotFound
}

// FetchLatest queries every member concurrently and returns the one
// reporting the highest index, tolerating stale mirrors.
func (s *ResolverSetSeries) FetchLatest(ctx context.Context, strand twcid.Cid) (*model.Tixel, error) {
	type result struct {
		t   *model.Tixel
		err error
	}
	results := make([]result, len(s.members))
	done := make(chan int, len(s.members))

	for i, m := range s.members {
		go func(i int, m BaseResolver) {
			t, err := m.FetchLatest(ctx, strand)
			results[i] = result{t, err}
			done <- i
		}(i, m)
	}
	for range s.members {
		<-done
	}

	var best *model.Tixel
	for _, r := range results {
		if r.err != nil {
			Log.WithError(r.err).Debug("resolver set: member fetch_latest failed")
			continue
		}
		if best == nil || r.t.Index() > best.Index() {
			best = r.t
		}
	}
	if best == nil {
		return nil, twerr.ErrNotFound
	}
	return best, nil
}

// RangeStream delegates to the first member that HasIndex(start); that
// member serves the whole range, with no cross-member splicing.
func (s *ResolverSetSeries) RangeStream(ctx context.Context, r query.AbsoluteRange) (<-chan *model.Tixel, <-chan error) {
	for _, m := range s.members {
		ok, err := m.HasIndex(ctx, r.Strand, r.Start)
		if err != nil || !ok {
			continue
		}
		return m.RangeStream(ctx, r)
	}

	out := make(chan *model.Tixel)
	errc := make(chan error, 1)
	close(out)
	errc <- twerr.ErrNotFound
	close(errc)
	return out, errc
}

// FetchStrands merges every member's strand stream, de-duplicating by
// Strand CID and preserving first-seen order.
func (s *ResolverSetSeries) FetchStrands(ctx context.Context) (<-chan *model.Strand, <-chan error) {
	out := make(chan *model.Strand)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		seen := make(map[string]struct{})
		for _, m := range s.members {
			strandCh, memberErrc := m.FetchStrands(ctx)
		drain:
			for {
				select {
				case <-ctx.Done():
					errc <- ctx.Err()
					return
				case st, ok := <-strandCh:
					if !ok {
						break drain
					}
					key := st.Cid().KeyString()
					if _, dup := seen[key]; dup {
						continue
					}
					seen[key] = struct{}{}
					select {
					case out <- st:
					case <-ctx.Done():
						errc <- ctx.Err()
						return
					}
				}
			}
			if err, ok := <-memberErrc; ok && err != nil {
				Log.WithError(err).Debug("resolver set: member fetch_strands failed")
			}
		}
	}()

	return out, errc
}

// Package memory implements the reference in-memory resolver.BaseResolver
// backend (wrap it with resolver.Wrap for the full Resolver API): a thread-safe, map-backed store suitable for tests, local
// tooling, and as a cache layer in front of a slower backend. It uses
// an RWMutex-guarded map with a logrus logger, keyed by CID.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	twcid "github.com/twine-protocol/twine-go/cid"
	twerr "github.com/twine-protocol/twine-go/errors"
	"github.com/twine-protocol/twine-go/model"
	"github.com/twine-protocol/twine-go/query"
)

// Store is the reference in-memory resolver.BaseResolver implementation.
// The zero value is not usable; construct with New.
type Store struct {
	mu      sync.RWMutex
	logger  *logrus.Logger
	strands map[string]*model.Strand
	// tixels is keyed by strand key string, then by index, for O(1)
	// index lookup and ordered range iteration.
	tixels map[string]map[uint64]*model.Tixel
	// byCid lets FetchTixel / HasTwine resolve by Tixel CID directly.
	byCid map[string]*model.Tixel
}

// New constructs an empty Store. A nil logger falls back to logrus's
// standard logger.
func New(logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		logger:  logger,
		strands: make(map[string]*model.Strand),
		tixels:  make(map[string]map[uint64]*model.Tixel),
		byCid:   make(map[string]*model.Tixel),
	}
}

// SaveStrand records strand under its CID. A Strand already saved
// under that CID is left untouched: a Strand is immutable metadata, so
// the first copy saved is as good as any later one.
func (s *Store) SaveStrand(_ context.Context, strand *model.Strand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strand.Cid().KeyString()
	if _, ok := s.strands[key]; ok {
		return nil
	}
	s.strands[key] = strand
	s.logger.Debugf("memory store: saved strand %s", strand.Cid())
	return nil
}

// Save records t under its owning Strand, keyed by both index and CID.
// The owning Strand must already be saved.
func (s *Store) Save(_ context.Context, strand twcid.Cid, t *model.Tixel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strand.KeyString()
	if _, ok := s.strands[key]; !ok {
		return twerr.NewStoreError(twerr.Saving, errors.New("unknown strand"))
	}
	if byIndex, ok := s.tixels[key]; ok {
		byIndex[t.Index()] = t
	} else {
		s.tixels[key] = map[uint64]*model.Tixel{t.Index(): t}
	}
	s.byCid[t.Cid().KeyString()] = t
	s.logger.Debugf("memory store: saved tixel %s at index %d", t.Cid(), t.Index())
	return nil
}

// SaveStream saves every Tixel off ch, stopping at the first error or
// when ctx is cancelled.
func (s *Store) SaveStream(ctx context.Context, strand twcid.Cid, ch <-chan *model.Tixel) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t, ok := <-ch:
			if !ok {
				return nil
			}
			if err := s.Save(ctx, strand, t); err != nil {
				return err
			}
		}
	}
}

// Delete removes a Strand and every Tixel saved under it.
func (s *Store) Delete(_ context.Context, strand twcid.Cid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strand.KeyString()
	if byIndex, ok := s.tixels[key]; ok {
		for _, t := range byIndex {
			delete(s.byCid, t.Cid().KeyString())
		}
		delete(s.tixels, key)
	}
	delete(s.strands, key)
	s.logger.Debugf("memory store: deleted strand %s", strand)
	return nil
}

func (s *Store) HasStrand(_ context.Context, strand twcid.Cid) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.strands[strand.KeyString()]
	return ok, nil
}

func (s *Store) HasTwine(_ context.Context, _, tixel twcid.Cid) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byCid[tixel.KeyString()]
	return ok, nil
}

func (s *Store) HasIndex(_ context.Context, strand twcid.Cid, index uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byIndex, ok := s.tixels[strand.KeyString()]
	if !ok {
		return false, nil
	}
	_, ok = byIndex[index]
	return ok, nil
}

func (s *Store) FetchStrand(_ context.Context, strand twcid.Cid) (*model.Strand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.strands[strand.KeyString()]
	if !ok {
		return nil, twerr.ErrNotFound
	}
	return v, nil
}

func (s *Store) FetchTixel(_ context.Context, _, tixel twcid.Cid) (*model.Tixel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byCid[tixel.KeyString()]
	if !ok {
		return nil, twerr.ErrNotFound
	}
	return v, nil
}

func (s *Store) FetchIndex(_ context.Context, strand twcid.Cid, index uint64) (*model.Tixel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byIndex, ok := s.tixels[strand.KeyString()]
	if !ok {
		return nil, twerr.ErrNotFound
	}
	v, ok := byIndex[index]
	if !ok {
		return nil, twerr.ErrNotFound
	}
	return v, nil
}

func (s *Store) FetchLatest(_ context.Context, strand twcid.Cid) (*model.Tixel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byIndex, ok := s.tixels[strand.KeyString()]
	if !ok || len(byIndex) == 0 {
		return nil, twerr.ErrNotFound
	}
	var latest *model.Tixel
	for _, t := range byIndex {
		if latest == nil || t.Index() > latest.Index() {
			latest = t
		}
	}
	return latest, nil
}

// RangeStream streams Tixels for r over a buffered channel in r's
// direction, stopping at the first missing index.
func (s *Store) RangeStream(ctx context.Context, r query.AbsoluteRange) (<-chan *model.Tixel, <-chan error) {
	out := make(chan *model.Tixel, 16)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		step := int64(1)
		if !r.Ascending() {
			step = -1
		}
		idx := int64(r.Start)
		end := int64(r.End)
		for {
			t, err := s.FetchIndex(ctx, r.Strand, uint64(idx))
			if err != nil {
				errc <- err
				return
			}
			select {
			case out <- t:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
			if idx == end {
				return
			}
			idx += step
		}
	}()

	return out, errc
}

// FetchStrands enumerates every Strand currently held.
func (s *Store) FetchStrands(ctx context.Context) (<-chan *model.Strand, <-chan error) {
	out := make(chan *model.Strand)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		s.mu.RLock()
		snapshot := make([]*model.Strand, 0, len(s.strands))
		for _, st := range s.strands {
			snapshot = append(snapshot, st)
		}
		s.mu.RUnlock()

		for _, st := range snapshot {
			select {
			case out <- st:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()

	return out, errc
}

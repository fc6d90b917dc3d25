// Package model implements the Twine data model: Strand, Tixel, Twine,
// Stitch, BackStitches, CrossStitches and the Verified[T] boundary
// wrapper.
package model

import (
	"sort"

	twcid "github.com/twine-protocol/twine-go/cid"
	twerr "github.com/twine-protocol/twine-go/errors"
)

// Stitch is a reference to a Tixel via its CID and the CID of the
// Strand it belongs to. Stitches are what chain Tixels together, both
// within a Strand (back-stitches) and across Strands (cross-stitches).
type Stitch struct {
	Strand twcid.Cid
	Tixel  twcid.Cid
}

// AsCid returns the stitch's tixel CID.
func (s Stitch) AsCid() twcid.Cid { return s.Tixel }

// BackStitches is the ordered, same-Strand link list a Tixel carries to
// earlier Tixels on its own chain. Internally it always
// holds the fully expanded form; ToCondensed reproduces the
// null-collapsed wire form.
type BackStitches struct {
	strand    twcid.Cid
	expanded  []Stitch
}

// NewBackStitches builds an (already expanded) BackStitches list of
// tixel CIDs on strand.
func NewBackStitches(strand twcid.Cid, tixelCids []twcid.Cid) *BackStitches {
	stitches := make([]Stitch, len(tixelCids))
	for i, c := range tixelCids {
		stitches[i] = Stitch{Strand: strand, Tixel: c}
	}
	return &BackStitches{strand: strand, expanded: stitches}
}

// NewBackStitchesFromCondensed expands a condensed back-stitch list:
// any entry may be nil, meaning "identical to the next-higher non-nil
// entry"; the final entry must be non-nil. Expansion walks the
// list from the end backward, filling each nil with the most recent
// non-nil value seen.
func NewBackStitchesFromCondensed(strand twcid.Cid, condensed []*twcid.Cid) (*BackStitches, error) {
	expanded := make([]Stitch, len(condensed))
	var prev *twcid.Cid
	for i := len(condensed) - 1; i >= 0; i-- {
		c := condensed[i]
		if c == nil {
			c = prev
		}
		if c == nil {
			return nil, twerr.NewVerificationError(twerr.InvalidTwineFormat, "invalid back-stitches condensed format")
		}
		prev = c
		expanded[i] = Stitch{Strand: strand, Tixel: *c}
	}
	return &BackStitches{strand: strand, expanded: expanded}, nil
}

// Len returns the number of (expanded) back-stitches.
func (b *BackStitches) Len() int { return len(b.expanded) }

// StrandCid returns the CID of the strand these back-stitches belong to.
func (b *BackStitches) StrandCid() twcid.Cid { return b.strand }

// Get returns the stitch at index i, or the zero Stitch and false if
// out of range.
func (b *BackStitches) Get(i int) (Stitch, bool) {
	if i < 0 || i >= len(b.expanded) {
		return Stitch{}, false
	}
	return b.expanded[i], true
}

// Stitches returns a copy of the fully expanded stitch list.
func (b *BackStitches) Stitches() []Stitch {
	out := make([]Stitch, len(b.expanded))
	copy(out, b.expanded)
	return out
}

// ToCondensed collapses runs of identical trailing tixel CIDs into nils,
// the inverse of NewBackStitchesFromCondensed. Used when encoding a
// Tixel's canonical content.
func (b *BackStitches) ToCondensed() []*twcid.Cid {
	condensed := make([]*twcid.Cid, len(b.expanded))
	var prev *twcid.Cid
	for i := len(b.expanded) - 1; i >= 0; i-- {
		tixel := b.expanded[i].Tixel
		if prev != nil && tixel.Equals(*prev) {
			condensed[i] = nil
		} else {
			c := tixel
			condensed[i] = &c
			prev = &c
		}
	}
	return condensed
}

// Includes reports whether tixelCid appears anywhere in the back-stitch
// list.
func (b *BackStitches) Includes(tixelCid twcid.Cid) bool {
	for _, s := range b.expanded {
		if s.Tixel.Equals(tixelCid) {
			return true
		}
	}
	return false
}

// CrossStitches is the set of links a Tixel carries to Tixels on other
// Strands: at most one stitch per foreign Strand CID. It must never
// contain the owning Strand's own CID and is always iterated/serialized
// in ascending Strand-CID order, which prevents a signer from
// nonce-grinding a favorable cross-stitch ordering.
type CrossStitches struct {
	byStrand map[string]Stitch
}

// NewCrossStitches builds a CrossStitches set from stitches, keyed by
// each stitch's Strand CID. A later duplicate for the same strand
// overwrites an earlier one.
func NewCrossStitches(stitches []Stitch) *CrossStitches {
	m := make(map[string]Stitch, len(stitches))
	for _, s := range stitches {
		m[s.Strand.KeyString()] = s
	}
	return &CrossStitches{byStrand: m}
}

// Get returns the stitch for strand, if one exists.
func (c *CrossStitches) Get(strand twcid.Cid) (Stitch, bool) {
	s, ok := c.byStrand[strand.KeyString()]
	return s, ok
}

// Len returns the number of cross-stitches.
func (c *CrossStitches) Len() int { return len(c.byStrand) }

// Includes reports whether tixelCid appears in any cross-stitch.
func (c *CrossStitches) Includes(tixelCid twcid.Cid) bool {
	for _, s := range c.byStrand {
		if s.Tixel.Equals(tixelCid) {
			return true
		}
	}
	return false
}

// StrandIsStitched reports whether strand has a cross-stitch entry.
func (c *CrossStitches) StrandIsStitched(strand twcid.Cid) bool {
	_, ok := c.byStrand[strand.KeyString()]
	return ok
}

// Stitches returns every cross-stitch, sorted ascending by Strand CID,
// the canonical serialization order.
func (c *CrossStitches) Stitches() []Stitch {
	out := make([]Stitch, 0, len(c.byStrand))
	for _, s := range c.byStrand {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Strand.KeyString() < out[j].Strand.KeyString()
	})
	return out
}

// VerifyAgainst checks for a self-reference against owningStrand and
// returns a VerificationError if one is present. Ascending order is
// enforced by construction since Stitches() always sorts; this only
// needs to check for a disallowed self-entry.
func (c *CrossStitches) VerifyAgainst(owningStrand twcid.Cid) error {
	if _, ok := c.Get(owningStrand); ok {
		return twerr.NewVerificationError(twerr.InvalidTwineFormat, "cross-stitches must not contain the owning strand")
	}
	return nil
}

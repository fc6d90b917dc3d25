package model

import (
	twcid "github.com/twine-protocol/twine-go/cid"
)

// Twine is a (Strand, Tixel) pair that has passed joint verification:
// strand binding, spec agreement, and signature. It is
// the only type callers should treat as authenticated; a bare Tixel
// must be paired with its Strand via NewTwine before it is trusted.
type Twine struct {
	strand *Strand
	tixel  *Tixel
}

// NewTwine verifies that tixel belongs to strand (Strand.VerifyTixel)
// and, on success, returns the bound Twine.
func NewTwine(strand *Strand, tixel *Tixel) (*Twine, error) {
	if err := strand.VerifyTixel(tixel); err != nil {
		return nil, err
	}
	return &Twine{strand: strand, tixel: tixel}, nil
}

// Strand returns the Twine's Strand.
func (tw *Twine) Strand() *Strand { return tw.strand }

// Tixel returns the Twine's Tixel.
func (tw *Twine) Tixel() *Tixel { return tw.tixel }

// Cid returns the bound Tixel's CID.
func (tw *Twine) Cid() twcid.Cid { return tw.tixel.Cid() }

// StrandCid returns the bound Strand's CID.
func (tw *Twine) StrandCid() twcid.Cid { return tw.strand.Cid() }

// Index returns the bound Tixel's index.
func (tw *Twine) Index() uint64 { return tw.tixel.Index() }

// AsCid returns the Twine's (tixel) CID.
func (tw *Twine) AsCid() twcid.Cid { return tw.tixel.Cid() }

// AsStitch returns the (strand CID, tixel CID) pair this Twine
// represents.
func (tw *Twine) AsStitch() Stitch {
	return Stitch{Strand: tw.strand.Cid(), Tixel: tw.tixel.Cid()}
}

// EqualsStitch reports whether s names this Twine exactly.
func (tw *Twine) EqualsStitch(s Stitch) bool {
	return tw.StrandCid().Equals(s.Strand) && tw.Cid().Equals(s.Tixel)
}

// AnyTwine is a closed sum type over Strand | Tixel, used where a CAR
// block or store operation must accept either interchangeably.
type AnyTwine struct {
	strand *Strand
	tixel  *Tixel
}

// AnyTwineFromStrand wraps a Strand as an AnyTwine.
func AnyTwineFromStrand(s *Strand) AnyTwine { return AnyTwine{strand: s} }

// AnyTwineFromTixel wraps a Tixel as an AnyTwine.
func AnyTwineFromTixel(t *Tixel) AnyTwine { return AnyTwine{tixel: t} }

// IsStrand reports whether this AnyTwine wraps a Strand.
func (a AnyTwine) IsStrand() bool { return a.strand != nil }

// Strand returns the wrapped Strand, or nil if this AnyTwine wraps a
// Tixel.
func (a AnyTwine) Strand() *Strand { return a.strand }

// Tixel returns the wrapped Tixel, or nil if this AnyTwine wraps a
// Strand.
func (a AnyTwine) Tixel() *Tixel { return a.tixel }

// Cid returns the CID of whichever value this AnyTwine wraps.
func (a AnyTwine) Cid() twcid.Cid {
	if a.strand != nil {
		return a.strand.Cid()
	}
	return a.tixel.Cid()
}

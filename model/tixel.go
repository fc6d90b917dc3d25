package model

import (
	"math"

	twcid "github.com/twine-protocol/twine-go/cid"
	"github.com/twine-protocol/twine-go/codec"
	twerr "github.com/twine-protocol/twine-go/errors"
	"github.com/twine-protocol/twine-go/skiplist"
)

// CrossStitchWire is the on-the-wire shape of one cross-stitch entry:
// a (strand CID, tixel CID) pair stored as a map with "strand" and
// "tixel" keys, in ascending strand-CID order.
type CrossStitchWire struct {
	Strand twcid.Cid `cbor:"strand"`
	Tixel  twcid.Cid `cbor:"tixel"`
}

// TixelContent is the signed payload of a Tixel: everything except the
// signature itself.
type TixelContent struct {
	Strand        twcid.Cid          `cbor:"strand"`
	Index         uint64             `cbor:"index"`
	BackStitches  []*twcid.Cid       `cbor:"back"`
	CrossStitches []CrossStitchWire  `cbor:"cross"`
	DropIndex     uint64             `cbor:"drop"`
	Payload       []byte             `cbor:"payload"`
	Specification string             `cbor:"spec,omitempty"`
}

// Tixel is one signed record on a Strand. A bare Tixel carries
// everything needed to check its own internal structure (back-stitch
// shape, cross-stitch ordering, CID); checks that require the owning
// Strand (strand binding, specification agreement, signature) are
// done by Strand.VerifyTixel, which Twine construction always calls.
type Tixel struct {
	cid           twcid.Cid
	content       TixelContent
	signature     []byte
	backStitches  *BackStitches
	crossStitches *CrossStitches
}

// NewTixel validates content/signature structurally and computes its
// CID using hasher (the owning strand's hasher code, since a bare
// Tixel does not carry one of its own in v2).
func NewTixel(hasher twcid.HasherCode, content TixelContent, signature []byte) (*Tixel, error) {
	if content.Index == 0 && len(content.BackStitches) != 0 {
		return nil, twerr.NewVerificationError(twerr.InvalidTwineFormat, "index 0 must have empty back-stitches")
	}
	if content.Index != 0 && len(content.BackStitches) == 0 {
		return nil, twerr.NewVerificationError(twerr.InvalidTwineFormat, "nonzero index must have non-empty back-stitches")
	}

	back, err := NewBackStitchesFromCondensed(content.Strand, content.BackStitches)
	if err != nil {
		return nil, err
	}

	stitches := make([]Stitch, len(content.CrossStitches))
	for i, w := range content.CrossStitches {
		stitches[i] = Stitch{Strand: w.Strand, Tixel: w.Tixel}
	}
	cross := NewCrossStitches(stitches)
	if err := cross.VerifyAgainst(content.Strand); err != nil {
		return nil, err
	}
	if !crossStitchesAreAscending(content.CrossStitches) {
		return nil, twerr.NewVerificationError(twerr.InvalidTwineFormat, "cross-stitches are not in ascending strand-CID order")
	}

	c, err := codec.MakeCid(hasher, signedContainer{Content: content, Signature: signature})
	if err != nil {
		return nil, twerr.WrapVerificationError(twerr.General, err)
	}

	return &Tixel{
		cid:           c,
		content:       content,
		signature:     signature,
		backStitches:  back,
		crossStitches: cross,
	}, nil
}

// NewCrossStitchWire converts a caller-assembled, already-ordered list
// of Stitches into the wire shape a TixelContent carries. Builders use
// this instead of constructing CrossStitchWire values directly.
func NewCrossStitchWire(stitches []Stitch) []CrossStitchWire {
	out := make([]CrossStitchWire, len(stitches))
	for i, s := range stitches {
		out[i] = CrossStitchWire{Strand: s.Strand, Tixel: s.Tixel}
	}
	return out
}

func crossStitchesAreAscending(wire []CrossStitchWire) bool {
	for i := 1; i < len(wire); i++ {
		if wire[i-1].Strand.KeyString() >= wire[i].Strand.KeyString() {
			return false
		}
	}
	return true
}

// Cid returns the Tixel's CID.
func (t *Tixel) Cid() twcid.Cid { return t.cid }

// StrandCid returns the CID of the Strand this Tixel declares it
// belongs to. Use Strand.VerifyTixel to confirm the binding.
func (t *Tixel) StrandCid() twcid.Cid { return t.content.Strand }

// Index returns the Tixel's position on its Strand.
func (t *Tixel) Index() uint64 { return t.content.Index }

// BackStitches returns the Tixel's expanded back-stitch list.
func (t *Tixel) BackStitches() *BackStitches { return t.backStitches }

// CrossStitches returns the Tixel's cross-stitch set.
func (t *Tixel) CrossStitches() *CrossStitches { return t.crossStitches }

// DropIndex returns the retention hint index (always 0 for v1 Tixels).
func (t *Tixel) DropIndex() uint64 { return t.content.DropIndex }

// Payload returns the Tixel's raw (still-encoded) payload.
func (t *Tixel) Payload() []byte { return t.content.Payload }

// AsCid returns the tixel's CID.
func (t *Tixel) AsCid() twcid.Cid { return t.cid }

// RawContent returns the tixel's signed content record, for callers
// (e.g. the car package) that need to re-serialize the exact signed
// container.
func (t *Tixel) RawContent() TixelContent { return t.content }

// RawSignature returns the raw signature bytes over RawContent.
func (t *Tixel) RawSignature() []byte { return t.signature }

// Equals reports whether two tixels share a CID.
func (t *Tixel) Equals(other *Tixel) bool {
	if other == nil {
		return false
	}
	return t.cid.Equals(other.cid)
}

// ExpectedBackStitchLength returns the back-stitch list length radix
// and index mandate: max(1, ceil(log_r(index)))
// for index > 0 on a non-degenerate (radix != 0) strand, 0 for index 0,
// and 1 for any later index on a degenerate (radix 0) strand whose
// Tixels only ever chain to the immediately preceding one.
func ExpectedBackStitchLength(radix uint8, index uint64) int {
	if index == 0 {
		return 0
	}
	if radix == 0 {
		return 1
	}
	layer := skiplist.LayerPos(radix, index)
	expected := int(math.Ceil(logBase(float64(radix), float64(index))))
	if expected < 1 {
		expected = 1
	}
	// layer is a tighter, integer-exact lower bound on log_r(index); use
	// whichever is larger to stay correct at float precision boundaries.
	if layer > expected {
		expected = layer
	}
	return expected
}

func logBase(base, x float64) float64 {
	return math.Log(x) / math.Log(base)
}

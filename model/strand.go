package model

import (
	"time"

	"github.com/fxamacker/cbor/v2"

	twcid "github.com/twine-protocol/twine-go/cid"
	"github.com/twine-protocol/twine-go/codec"
	"github.com/twine-protocol/twine-go/cryptosuite"
	twerr "github.com/twine-protocol/twine-go/errors"
	"github.com/twine-protocol/twine-go/specstring"
)

// StrandContent is the signed payload of a Strand: everything except
// the signature itself.
type StrandContent struct {
	Specification string          `cbor:"spec"`
	Hasher        twcid.HasherCode `cbor:"hasher"`
	KeyAlgorithm  cryptosuite.Algorithm `cbor:"keyAlg"`
	KeyDer        []byte          `cbor:"key"`
	Radix         uint8           `cbor:"radix"`
	Details       cbor.RawMessage `cbor:"details"`
	Genesis       time.Time       `cbor:"genesis"`
	Expiry        *time.Time      `cbor:"expiry,omitempty"`
}

// Strand is an authenticated, immutable chain header: the signer's
// public key, the skip-list radix, and free-form details. Two Strands
// with the same CID are considered equal.
type Strand struct {
	cid       twcid.Cid
	content   StrandContent
	signature []byte
	spec      *specstring.Specification
	publicKey *cryptosuite.PublicKey
}

// NewStrand validates and wraps a decoded StrandContent/signature pair,
// computing its CID and running the signature check and
// specification-string check.
func NewStrand(content StrandContent, signature []byte) (*Strand, error) {
	pub, err := cryptosuite.ParsePublicKey(content.KeyAlgorithm, content.KeyDer)
	if err != nil {
		return nil, err
	}

	major, err := specMajor(content.Specification)
	if err != nil {
		return nil, err
	}
	spec, err := specstring.Parse(content.Specification, major)
	if err != nil {
		return nil, twerr.WrapVerificationError(twerr.BadSpecification, err)
	}

	contentBytes, err := codec.Encode(content)
	if err != nil {
		return nil, err
	}
	if err := pub.Verify(signature, contentBytes); err != nil {
		return nil, err
	}

	c, err := codec.MakeCid(content.Hasher, signedContainer{Content: content, Signature: signature})
	if err != nil {
		return nil, twerr.WrapVerificationError(twerr.General, err)
	}

	return &Strand{cid: c, content: content, signature: signature, spec: spec, publicKey: pub}, nil
}

// signedContainer is the wire shape of a signed v2 container: "c" holds
// the content, "s" the signature over its canonical encoding.
type signedContainer struct {
	Content any    `cbor:"c"`
	Signature []byte `cbor:"s"`
}

// specMajor extracts the major version a raw specification string
// claims, without yet validating it, so it can be fed back into
// specstring.Parse for full verification.
func specMajor(raw string) (uint64, error) {
	// twine/<major>.<minor>.<patch>[/subspec/...]; major is the first
	// numeric run after "twine/".
	const prefix = "twine/"
	if len(raw) <= len(prefix) || raw[:len(prefix)] != prefix {
		return 0, twerr.NewSpecificationError("specification string does not start with %q", prefix)
	}
	rest := raw[len(prefix):]
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, twerr.NewSpecificationError("specification string has no major version: %q", raw)
	}
	var major uint64
	for _, d := range rest[:i] {
		major = major*10 + uint64(d-'0')
	}
	return major, nil
}

// Cid returns the Strand's CID.
func (s *Strand) Cid() twcid.Cid { return s.cid }

// Hasher returns the hasher code all of this strand's CIDs use.
func (s *Strand) Hasher() twcid.HasherCode { return s.content.Hasher }

// Radix returns the skip-list radix this strand's Tixels use.
func (s *Strand) Radix() uint8 { return s.content.Radix }

// PublicKey returns the strand's signing public key.
func (s *Strand) PublicKey() *cryptosuite.PublicKey { return s.publicKey }

// Specification returns the parsed specification string.
func (s *Strand) Specification() *specstring.Specification { return s.spec }

// Details returns the strand's raw (still-encoded) details payload.
func (s *Strand) Details() cbor.RawMessage { return s.content.Details }

// Genesis returns the strand's genesis timestamp.
func (s *Strand) Genesis() time.Time { return s.content.Genesis }

// Expiry returns the strand's expiry timestamp, if it declared one.
func (s *Strand) Expiry() (time.Time, bool) {
	if s.content.Expiry == nil {
		return time.Time{}, false
	}
	return *s.content.Expiry, true
}

// Equals reports whether two strands share a CID: two Strands with
// the same CID are equal.
func (s *Strand) Equals(other *Strand) bool {
	if other == nil {
		return false
	}
	return s.cid.Equals(other.cid)
}

// AsCid returns the strand's CID.
func (s *Strand) AsCid() twcid.Cid { return s.cid }

// RawContent returns the strand's signed content record, for callers
// (e.g. the car package) that need to re-serialize the exact signed
// container.
func (s *Strand) RawContent() StrandContent { return s.content }

// RawSignature returns the raw signature bytes over RawContent.
func (s *Strand) RawSignature() []byte { return s.signature }

// VerifyTixel checks that tixel legitimately belongs to this strand:
// strand binding, specification major-version agreement, back-stitch
// list length, and signature. Called by Twine construction.
func (s *Strand) VerifyTixel(t *Tixel) error {
	if !t.StrandCid().Equals(s.cid) {
		return twerr.NewVerificationError(twerr.TixelNotOnStrand, "")
	}
	tixelMajor, err := specMajorOrInherit(t, s)
	if err != nil {
		return err
	}
	strandMajor, err := specMajor(s.content.Specification)
	if err != nil {
		return err
	}
	if tixelMajor != strandMajor {
		return twerr.NewVerificationError(twerr.BadSpecification, "tixel specification major version does not match strand")
	}
	if want := ExpectedBackStitchLength(s.content.Radix, t.Index()); t.BackStitches().Len() != want {
		return twerr.NewVerificationError(twerr.InvalidTwineFormat, "back-stitches length does not match radix/index")
	}
	contentBytes, err := codec.Encode(t.content)
	if err != nil {
		return err
	}
	return s.publicKey.Verify(t.signature, contentBytes)
}

// specMajorOrInherit returns the tixel's own specification major
// version, or (for v1, where Tixels carry no specification string of
// their own) the owning strand's major version.
func specMajorOrInherit(t *Tixel, s *Strand) (uint64, error) {
	if t.content.Specification == "" {
		return specMajor(s.content.Specification)
	}
	return specMajor(t.content.Specification)
}

// Package builder implements the Strand and Tixel construction
// algorithms: canonical-encode, sign, assemble, and
// verify a new record before handing it back to the caller. It is the
// only place new Strands/Tixels come from; everywhere else only
// consumes already-verified values.
package builder

import (
	"strconv"
	"time"

	twcid "github.com/twine-protocol/twine-go/cid"
	"github.com/twine-protocol/twine-go/codec"
	"github.com/twine-protocol/twine-go/cryptosuite"
	twerr "github.com/twine-protocol/twine-go/errors"
	"github.com/twine-protocol/twine-go/model"
	"github.com/twine-protocol/twine-go/skiplist"
)

// DefaultRadix is the back-stitch branching factor used when a
// StrandBuilder isn't given one explicitly.
const DefaultRadix uint8 = 32

// DefaultHasher is the hash function new Strands use unless overridden.
const DefaultHasher = twcid.SHA3_512

// DefaultMajorVersion is the specification major version new content
// targets unless overridden.
const DefaultMajorVersion = 2

// StrandBuilder assembles a new Strand.
type StrandBuilder struct {
	signer      cryptosuite.Signer
	hasher      twcid.HasherCode
	majorVer    uint64
	radix       uint8
	details     []byte
	subspec     string
	genesis     time.Time
	expiry      *time.Time
}

// NewStrandBuilder returns a StrandBuilder with sensible defaults; use
// the With* methods to override them.
func NewStrandBuilder(signer cryptosuite.Signer) *StrandBuilder {
	return &StrandBuilder{
		signer:   signer,
		hasher:   DefaultHasher,
		majorVer: DefaultMajorVersion,
		radix:    DefaultRadix,
		genesis:  time.Now().UTC(),
	}
}

func (b *StrandBuilder) WithHasher(h twcid.HasherCode) *StrandBuilder {
	b.hasher = h
	return b
}

func (b *StrandBuilder) WithMajorVersion(v uint64) *StrandBuilder {
	b.majorVer = v
	return b
}

func (b *StrandBuilder) WithRadix(r uint8) *StrandBuilder {
	b.radix = r
	return b
}

func (b *StrandBuilder) WithDetails(details []byte) *StrandBuilder {
	b.details = details
	return b
}

func (b *StrandBuilder) WithSubspec(s string) *StrandBuilder {
	b.subspec = s
	return b
}

func (b *StrandBuilder) WithGenesis(t time.Time) *StrandBuilder {
	b.genesis = t.UTC()
	return b
}

func (b *StrandBuilder) WithExpiry(t time.Time) *StrandBuilder {
	u := t.UTC()
	b.expiry = &u
	return b
}

// Build runs the Strand construction algorithm:
// assemble the content record, sign its canonical encoding, compute
// the CID, and verify the result before returning it.
func (b *StrandBuilder) Build() (*model.Strand, error) {
	if !b.hasher.Valid() {
		return nil, twerr.NewSpecificationError("unsupported hasher %d", b.hasher)
	}

	spec := "twine/" + specVersionString(b.majorVer)
	if b.subspec != "" {
		spec += "/" + b.subspec
	}

	content := model.StrandContent{
		Specification: spec,
		Hasher:        b.hasher,
		KeyAlgorithm:  b.signer.PublicKey().Algorithm,
		KeyDer:        b.signer.PublicKey().Der,
		Radix:         b.radix,
		Details:       b.details,
		Genesis:       b.genesis,
		Expiry:        b.expiry,
	}

	encoded, err := codec.Encode(content)
	if err != nil {
		return nil, twerr.NewSpecificationError("encoding strand content: %v", err)
	}
	signature, err := b.signer.Sign(encoded)
	if err != nil {
		return nil, twerr.Wrap(err, "signing strand")
	}

	return model.NewStrand(content, signature)
}

// TixelBuilder assembles a new Tixel extending a Strand, either as the
// first record (First) or following a previously built Twine (Next).
type TixelBuilder struct {
	strand        *model.Strand
	prev          *model.Twine
	signer        cryptosuite.Signer
	payload       []byte
	crossStitches []model.Stitch
}

// First starts a TixelBuilder for the genesis Tixel of strand.
func First(strand *model.Strand, signer cryptosuite.Signer) *TixelBuilder {
	return &TixelBuilder{strand: strand, signer: signer}
}

// Next starts a TixelBuilder that follows prev.
func Next(prev *model.Twine, signer cryptosuite.Signer) *TixelBuilder {
	return &TixelBuilder{strand: prev.Strand(), prev: prev, signer: signer}
}

func (b *TixelBuilder) WithPayload(payload []byte) *TixelBuilder {
	b.payload = payload
	return b
}

func (b *TixelBuilder) WithCrossStitches(stitches []model.Stitch) *TixelBuilder {
	b.crossStitches = stitches
	return b
}

// Build runs the Tixel construction algorithm.
func (b *TixelBuilder) Build() (*model.Twine, error) {
	var index uint64
	var backstitchCids []*twcid.Cid

	if b.prev == nil {
		index = 0
	} else {
		prevIndex := b.prev.Index()
		if prevIndex == ^uint64(0) {
			return nil, twerr.NewSpecificationError("index would overflow")
		}
		index = prevIndex + 1

		prevCid := b.prev.Cid()
		radix := b.strand.Radix()
		switch {
		case prevIndex == 0, radix == 0:
			backstitchCids = []*twcid.Cid{&prevCid}
		default:
			prevCondensed := b.prev.Tixel().BackStitches().ToCondensed()
			expected := model.ExpectedBackStitchLength(radix, prevIndex)
			if len(prevCondensed) != expected {
				return nil, twerr.NewVerificationError(twerr.InvalidTwineFormat, "back-stitch list length mismatch")
			}
			z := skiplist.LayerPos(radix, prevIndex) + 1
			size := z
			if len(prevCondensed) > size {
				size = len(prevCondensed)
			}
			resized := make([]*twcid.Cid, size)
			copy(resized, prevCondensed)
			for i := len(prevCondensed); i < size; i++ {
				resized[i] = &prevCid
			}
			for i := 0; i < z; i++ {
				resized[i] = &prevCid
			}
			backstitchCids = resized
		}
	}

	for i, cs := range b.crossStitches {
		if cs.Strand.Equals(b.strand.Cid()) {
			return nil, twerr.NewVerificationError(twerr.InvalidTwineFormat, "cross-stitch self-reference")
		}
		if i > 0 && cs.Strand.KeyString() <= b.crossStitches[i-1].Strand.KeyString() {
			return nil, twerr.NewVerificationError(twerr.InvalidTwineFormat, "cross-stitches must be strictly ascending")
		}
	}

	content := model.TixelContent{
		Strand:        b.strand.Cid(),
		Index:         index,
		BackStitches:  backstitchCids,
		CrossStitches: model.NewCrossStitchWire(b.crossStitches),
		Payload:       b.payload,
	}

	encoded, err := codec.Encode(content)
	if err != nil {
		return nil, twerr.NewSpecificationError("encoding tixel content: %v", err)
	}
	signature, err := b.signer.Sign(encoded)
	if err != nil {
		return nil, twerr.Wrap(err, "signing tixel")
	}

	tixel, err := model.NewTixel(b.strand.Hasher(), content, signature)
	if err != nil {
		return nil, err
	}
	return model.NewTwine(b.strand, tixel)
}

func specVersionString(major uint64) string {
	return strconv.FormatUint(major, 10) + ".0.0"
}


// Package cid wraps github.com/ipfs/go-cid with the closed set of hasher
// codes Twine strands may declare, and the CID construction rules that
// follow from them.
package cid

import (
	"fmt"
	"hash"

	ipfscid "github.com/ipfs/go-cid"
	mc "github.com/multiformats/go-multicodec"
	mh "github.com/multiformats/go-multihash"
	"lukechampine.com/blake3"
)

// Cid is the content identifier type used throughout Twine. It is a plain
// alias of the go-cid type so callers never need to import go-cid directly.
type Cid = ipfscid.Cid

// Undef is the zero-value Cid, same as ipfscid.Undef.
var Undef = ipfscid.Undef

// HasherCode names the multihash algorithm a Strand uses for all of its
// CIDs.
type HasherCode uint64

// Supported hasher codes. Values match the multiformats multicodec table.
const (
	SHA3_256  HasherCode = HasherCode(mh.SHA3_256)
	SHA3_512  HasherCode = HasherCode(mh.SHA3_512)
	SHA2_256  HasherCode = HasherCode(mh.SHA2_256)
	SHA2_512  HasherCode = HasherCode(mh.SHA2_512)
	Blake3256 HasherCode = HasherCode(blake3MulticodecCode)
)

// blake3MulticodecCode is the multicodec table entry for blake3-256 (0x1e).
// go-multihash does not ship a built-in implementation, so we register one
// below for the digest length Twine uses (32 bytes / 256 bits).
const blake3MulticodecCode = 0x1e

const blake3DigestLength = 32

func init() {
	mh.Register(uint64(blake3MulticodecCode), func() hash.Hash {
		return blake3.New(blake3DigestLength, nil)
	})
}

// Valid reports whether code is one of the hasher codes Twine supports.
func (c HasherCode) Valid() bool {
	switch c {
	case SHA3_256, SHA3_512, SHA2_256, SHA2_512, Blake3256:
		return true
	default:
		return false
	}
}

func (c HasherCode) String() string {
	if name, ok := mh.Codes[uint64(c)]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", uint64(c))
}

// DagCBOR is the IPLD codec tag Twine containers are encoded with.
const DagCBOR = uint64(mc.DagCbor)

// Make wraps data with the multihash algorithm named by code and returns
// the resulting CIDv1 tagged with the dag-cbor codec.
func Make(code HasherCode, data []byte) (Cid, error) {
	if !code.Valid() {
		return Undef, fmt.Errorf("cid: unsupported hasher code %s", code)
	}
	sum, err := mh.Sum(data, uint64(code), -1)
	if err != nil {
		return Undef, fmt.Errorf("cid: hashing with %s: %w", code, err)
	}
	return ipfscid.NewCidV1(DagCBOR, sum), nil
}

// HasherOf returns the HasherCode embedded in a CID's multihash prefix.
// Used to recover the hasher for v1 (legacy) containers, which do not
// carry the hasher code inside their own content structure.
func HasherOf(c Cid) (HasherCode, error) {
	decoded, err := mh.Decode(c.Hash())
	if err != nil {
		return 0, fmt.Errorf("cid: decoding multihash: %w", err)
	}
	code := HasherCode(decoded.Code)
	if !code.Valid() {
		return 0, fmt.Errorf("cid: unsupported hasher code %s", code)
	}
	return code, nil
}

// Parse decodes a CID from its string form (base-prefixed multibase text,
// e.g. the "b..." base32 form used by CIDv1).
func Parse(s string) (Cid, error) {
	c, err := ipfscid.Decode(s)
	if err != nil {
		return Undef, fmt.Errorf("cid: invalid cid %q: %w", s, err)
	}
	return c, nil
}

// CidFromBytes reads a CID off the front of data, returning it along
// with the number of bytes it consumed so the caller can find where
// the CID ends and the following payload begins (used by the CAR
// block framing, which packs a CID directly ahead of its bytes).
func CidFromBytes(data []byte) (Cid, int, error) {
	n, c, err := ipfscid.CidFromBytes(data)
	if err != nil {
		return Undef, 0, fmt.Errorf("cid: decoding cid prefix: %w", err)
	}
	return c, n, nil
}

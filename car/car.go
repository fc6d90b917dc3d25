// Package car reads and writes the IPLD Content-Archive transfer
// envelope: a CBOR header naming root CIDs, followed
// by a sequence of varint length-prefixed (CID, bytes) blocks. It is
// the canonical wire format Twine stores and peers exchange chains in.
package car

import (
	"bufio"
	"io"

	varint "github.com/multiformats/go-varint"

	twcid "github.com/twine-protocol/twine-go/cid"
	"github.com/twine-protocol/twine-go/codec"
	twerr "github.com/twine-protocol/twine-go/errors"
	"github.com/twine-protocol/twine-go/model"
)

// header is the CBOR-encoded preamble of a CAR file naming its schema
// version and root CIDs.
type header struct {
	Version uint64       `cbor:"version"`
	Roots   []twcid.Cid  `cbor:"roots"`
}

// Write emits a CAR stream: a header naming roots, followed by one
// length-prefixed block per twine in twines, in order.
func Write(w io.Writer, roots []twcid.Cid, twines []model.AnyTwine) error {
	hdrBytes, err := codec.Encode(header{Version: 1, Roots: roots})
	if err != nil {
		return twerr.NewConversionError("encoding car header", err)
	}
	if err := writeBlock(w, hdrBytes); err != nil {
		return err
	}

	for _, tw := range twines {
		blockBytes, err := blockBytesFor(tw)
		if err != nil {
			return err
		}
		cidBytes := tw.Cid().Bytes()
		frame := append(append([]byte{}, cidBytes...), blockBytes...)
		if err := writeBlock(w, frame); err != nil {
			return err
		}
	}
	return nil
}

func writeBlock(w io.Writer, data []byte) error {
	prefix := varint.ToUvarint(uint64(len(data)))
	if _, err := w.Write(prefix); err != nil {
		return twerr.NewConversionError("writing car block length", err)
	}
	if _, err := w.Write(data); err != nil {
		return twerr.NewConversionError("writing car block", err)
	}
	return nil
}

func blockBytesFor(tw model.AnyTwine) ([]byte, error) {
	if tw.IsStrand() {
		return strandBlockBytes(tw.Strand())
	}
	return tixelBlockBytes(tw.Tixel())
}

// Read parses a CAR stream, returning the declared roots and every
// block it contains as an AnyTwine. Each block is independently
// verified via model.NewStrand/model.NewTixel. Since the CAR format
// doesn't tag a block as a Strand or a Tixel, decodeBlock tries it as
// a Strand first and falls back to a Tixel.
func Read(r io.Reader, hasher twcid.HasherCode) ([]twcid.Cid, []model.AnyTwine, error) {
	br := bufio.NewReader(r)

	hdrFrame, err := readBlock(br)
	if err != nil {
		return nil, nil, err
	}
	var hdr header
	if err := codec.Decode(hdrFrame, &hdr); err != nil {
		return nil, nil, twerr.NewConversionError("decoding car header", err)
	}

	var twines []model.AnyTwine
	for {
		frame, err := readBlock(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		c, n, err := twcid.CidFromBytes(frame)
		if err != nil {
			return nil, nil, twerr.NewConversionError("decoding car block cid", err)
		}
		data := frame[n:]

		tw, err := decodeBlock(hasher, data)
		if err != nil {
			return nil, nil, err
		}
		if !tw.Cid().Equals(c) {
			return nil, nil, twerr.NewCidMismatch(c.String(), tw.Cid().String())
		}
		twines = append(twines, tw)
	}

	return hdr.Roots, twines, nil
}

func readBlock(br *bufio.Reader) ([]byte, error) {
	length, err := varint.ReadUvarint(br)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, twerr.NewConversionError("reading car block length", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, twerr.NewConversionError("reading car block", err)
	}
	return buf, nil
}

func strandBlockBytes(s *model.Strand) ([]byte, error) {
	return codec.Encode(strandWireFor(s))
}

func tixelBlockBytes(t *model.Tixel) ([]byte, error) {
	return codec.Encode(tixelWireFor(t))
}

// decodeBlock is the boundary where untrusted bytes off the wire become
// a trusted model.Strand/model.Tixel. Each side is wrapped in
// model.Verified before it is unwrapped into the returned AnyTwine, so
// the type system (not just the constructor's inline checks) marks the
// value as having passed verification.
func decodeBlock(hasher twcid.HasherCode, data []byte) (model.AnyTwine, error) {
	// A Strand's container decodes into StrandContent cleanly; a Tixel's
	// container has an "index" field a Strand's does not. Try Strand
	// first since it is the less permissive shape.
	var strandContainer wireContainer[model.StrandContent]
	if err := codec.Decode(data, &strandContainer); err == nil && strandContainer.Content.Specification != "" {
		s, err := model.NewStrand(strandContainer.Content, strandContainer.Signature)
		if err == nil {
			verified, err := model.NewVerified[*model.Strand](s)
			if err == nil {
				return model.AnyTwineFromStrand(verified.Get()), nil
			}
		}
	}

	var tixelContainer wireContainer[model.TixelContent]
	if err := codec.Decode(data, &tixelContainer); err != nil {
		return model.AnyTwine{}, twerr.NewVerificationError(twerr.BadCbor, "block is neither a strand nor a tixel")
	}
	t, err := model.NewTixel(hasher, tixelContainer.Content, tixelContainer.Signature)
	if err != nil {
		return model.AnyTwine{}, err
	}
	verified, err := model.NewVerified[*model.Tixel](t)
	if err != nil {
		return model.AnyTwine{}, err
	}
	return model.AnyTwineFromTixel(verified.Get()), nil
}

// wireContainer mirrors the signed-container wire shape ("c"/"s") that
// both Strand and Tixel CIDs are computed over.
type wireContainer[T any] struct {
	Content   T      `cbor:"c"`
	Signature []byte `cbor:"s"`
}

func strandWireFor(s *model.Strand) wireContainer[model.StrandContent] {
	return wireContainer[model.StrandContent]{Content: s.RawContent(), Signature: s.RawSignature()}
}

func tixelWireFor(t *model.Tixel) wireContainer[model.TixelContent] {
	return wireContainer[model.TixelContent]{Content: t.RawContent(), Signature: t.RawSignature()}
}

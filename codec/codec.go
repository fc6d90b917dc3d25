// Package codec implements Twine's canonical binary encoding: deterministic
// CBOR with IPLD-style map-key ordering (length first, then lexicographic),
// CID derivation from encoded bytes, and the tagged-JSON textual form.
// Canonical-CBOR guarantees are provided by
// github.com/fxamacker/cbor/v2's "Core Deterministic Encoding" mode.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	twcid "github.com/twine-protocol/twine-go/cid"
	twerr "github.com/twine-protocol/twine-go/errors"
)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	// Core deterministic encoding: map keys sorted by length then
	// bytewise, indefinite-length containers disallowed, matching the
	// IPLD dag-cbor canonicalization Twine requires.
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	m, err := opts.EncMode()
	if err != nil {
		panic("codec: building canonical encode mode: " + err.Error())
	}
	encMode = m

	dopts := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}
	d, err := dopts.DecMode()
	if err != nil {
		panic("codec: building decode mode: " + err.Error())
	}
	decMode = d
}

// Encode canonically serializes value to its deterministic CBOR bytes.
// Equal values always produce byte-identical output.
func Encode(value any) ([]byte, error) {
	b, err := encMode.Marshal(value)
	if err != nil {
		return nil, twerr.WrapVerificationError(twerr.BadCbor, err)
	}
	return b, nil
}

// Decode parses canonical CBOR bytes into out, which must be a pointer.
func Decode(data []byte, out any) error {
	if err := decMode.Unmarshal(data, out); err != nil {
		return twerr.WrapVerificationError(twerr.BadCbor, err)
	}
	return nil
}

// MakeCid wraps the canonical encoding of value with hasher and returns
// the resulting CID, the content-addressing primitive every Strand and
// Tixel CID is derived from.
func MakeCid(hasher twcid.HasherCode, value any) (twcid.Cid, error) {
	data, err := Encode(value)
	if err != nil {
		return twcid.Undef, err
	}
	return twcid.Make(hasher, data)
}

// tagged is the wire shape of tagged_json: { "cid": <cid>, "data": <value> }.
type tagged struct {
	Cid  string          `json:"cid"`
	Data json.RawMessage `json:"data"`
}

// TaggedJSON renders value as `{"cid": <cid>, "data": <value>}`, computing
// the CID over value's canonical CBOR encoding with hasher.
func TaggedJSON(hasher twcid.HasherCode, value any) (string, error) {
	c, err := MakeCid(hasher, value)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", twerr.WrapVerificationError(twerr.BadJson, err)
	}
	out, err := json.Marshal(tagged{Cid: c.String(), Data: data})
	if err != nil {
		return "", twerr.WrapVerificationError(twerr.BadJson, err)
	}
	return string(out), nil
}

// FromTaggedJSON parses a tagged_json string into out and verifies that
// the embedded cid matches a fresh CID computed (with hasher) over the
// decoded data. A mismatch fails with a CidMismatch VerificationError.
func FromTaggedJSON(hasher twcid.HasherCode, s string, out any) error {
	var t tagged
	if err := json.Unmarshal([]byte(s), &t); err != nil {
		return twerr.WrapVerificationError(twerr.BadJson, err)
	}
	expected, err := twcid.Parse(t.Cid)
	if err != nil {
		return twerr.WrapVerificationError(twerr.BadJson, err)
	}
	if err := json.Unmarshal(t.Data, out); err != nil {
		return twerr.WrapVerificationError(twerr.BadJson, err)
	}
	actual, err := MakeCid(hasher, out)
	if err != nil {
		return err
	}
	if !actual.Equals(expected) {
		return twerr.NewCidMismatch(expected.String(), actual.String())
	}
	return nil
}

// PrettyPrint renders value as indented JSON whose "cid" field is followed
// by the CID in each multibase encoding listed in multibaseNames (base32,
// base58btc, base64url), a human-display convenience
// for inspecting a twine on the command line.
func PrettyPrint(hasher twcid.HasherCode, value any) (string, error) {
	c, err := MakeCid(hasher, value)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", twerr.WrapVerificationError(twerr.BadJson, err)
	}

	bases, err := MultibaseVariants(c)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "{\n  \"cid\": %q,\n  \"cidEncodings\": {\n", c.String())
	for i, n := range multibaseNames {
		comma := ","
		if i == len(multibaseNames)-1 {
			comma = ""
		}
		fmt.Fprintf(&buf, "    %q: %q%s\n", n.label, bases[n.label], comma)
	}
	buf.WriteString("  },\n  \"data\": ")
	buf.Write(data)
	buf.WriteString("\n}")
	return buf.String(), nil
}

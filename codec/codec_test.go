package codec

import (
	"strings"
	"testing"

	twcid "github.com/twine-protocol/twine-go/cid"
)

type sample struct {
	A int    `cbor:"a" json:"a"`
	B string `cbor:"b" json:"b"`
}

func TestEncodeIsDeterministic(t *testing.T) {
	v := sample{A: 1, B: "hello"}
	b1, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b2, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(b1) != string(b2) {
		t.Fatalf("encoding of identical values differs: %x vs %x", b1, b2)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := sample{A: 42, B: "twine"}
	b, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out sample
	if err := Decode(b, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestMakeCidIsStableForEqualValues(t *testing.T) {
	v := sample{A: 7, B: "x"}
	c1, err := MakeCid(twcid.SHA2_256, v)
	if err != nil {
		t.Fatalf("MakeCid: %v", err)
	}
	c2, err := MakeCid(twcid.SHA2_256, v)
	if err != nil {
		t.Fatalf("MakeCid: %v", err)
	}
	if !c1.Equals(c2) {
		t.Fatalf("expected equal cids, got %s and %s", c1, c2)
	}
}

func TestTaggedJSONRoundTrip(t *testing.T) {
	in := sample{A: 3, B: "stitched"}
	s, err := TaggedJSON(twcid.SHA2_256, in)
	if err != nil {
		t.Fatalf("TaggedJSON: %v", err)
	}
	var out sample
	if err := FromTaggedJSON(twcid.SHA2_256, s, &out); err != nil {
		t.Fatalf("FromTaggedJSON: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestFromTaggedJSONRejectsCidMismatch(t *testing.T) {
	in := sample{A: 3, B: "stitched"}
	s, err := TaggedJSON(twcid.SHA2_256, in)
	if err != nil {
		t.Fatalf("TaggedJSON: %v", err)
	}
	tampered := strings.Replace(s, `"b":"stitched"`, `"b":"tampered"`, 1)
	var out sample
	if err := FromTaggedJSON(twcid.SHA2_256, tampered, &out); err == nil {
		t.Fatal("expected cid mismatch error for tampered payload")
	}
}

func TestPrettyPrintIncludesMultibaseEncodings(t *testing.T) {
	in := sample{A: 1, B: "y"}
	s, err := PrettyPrint(twcid.SHA2_256, in)
	if err != nil {
		t.Fatalf("PrettyPrint: %v", err)
	}
	if !strings.Contains(s, "cidEncodings") {
		t.Fatalf("expected pretty-printed output to include cidEncodings, got %s", s)
	}
	if !strings.Contains(s, "base32") || !strings.Contains(s, "base58btc") {
		t.Fatalf("expected base32/base58btc variants in output: %s", s)
	}
}

package cid

import "testing"

func TestMakeAndParseRoundTrip(t *testing.T) {
	c, err := Make(SHA2_256, []byte("hello twine"))
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	parsed, err := Parse(c.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !c.Equals(parsed) {
		t.Fatalf("round trip mismatch: %s vs %s", c, parsed)
	}
}

func TestMakeRejectsUnsupportedHasher(t *testing.T) {
	if _, err := Make(HasherCode(0x99), []byte("x")); err == nil {
		t.Fatal("expected error for unsupported hasher code")
	}
}

func TestHasherOfRecoversCode(t *testing.T) {
	for _, code := range []HasherCode{SHA3_256, SHA3_512, SHA2_256, SHA2_512, Blake3256} {
		c, err := Make(code, []byte("payload"))
		if err != nil {
			t.Fatalf("Make(%s): %v", code, err)
		}
		got, err := HasherOf(c)
		if err != nil {
			t.Fatalf("HasherOf(%s): %v", code, err)
		}
		if got != code {
			t.Fatalf("HasherOf: got %s, want %s", got, code)
		}
	}
}

func TestCidFromBytesConsumesOnlyThePrefix(t *testing.T) {
	c, err := Make(SHA2_256, []byte("framed"))
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	cidBytes := c.Bytes()
	frame := append(append([]byte{}, cidBytes...), []byte("trailing content")...)

	got, n, err := CidFromBytes(frame)
	if err != nil {
		t.Fatalf("CidFromBytes: %v", err)
	}
	if !got.Equals(c) {
		t.Fatalf("CidFromBytes: got %s, want %s", got, c)
	}
	if n != len(cidBytes) {
		t.Fatalf("CidFromBytes: consumed %d bytes, want %d", n, len(cidBytes))
	}
	if string(frame[n:]) != "trailing content" {
		t.Fatalf("CidFromBytes: remaining bytes = %q", frame[n:])
	}
}

func TestValidReportsSupportedCodes(t *testing.T) {
	if !SHA3_512.Valid() {
		t.Fatal("expected SHA3_512 to be valid")
	}
	if HasherCode(0x99).Valid() {
		t.Fatal("expected unsupported code to be invalid")
	}
}

package specstring

import "testing"

func TestParseAcceptsV2Specification(t *testing.T) {
	s, err := Parse("twine/2.0.0", 2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.String() != "twine/2.0.0" {
		t.Fatalf("String: got %q", s.String())
	}
	if s.Semver().Major() != 2 {
		t.Fatalf("Semver().Major(): got %d", s.Semver().Major())
	}
}

func TestParseNormalizesV1Wildcard(t *testing.T) {
	s, err := Parse("twine/1.0.x", 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Semver().Patch() != 0 {
		t.Fatalf("expected wildcard patch to normalize to 0, got %d", s.Semver().Patch())
	}
}

func TestParseRejectsMajorMismatch(t *testing.T) {
	if _, err := Parse("twine/1.0.0", 2); err == nil {
		t.Fatal("expected error for major version mismatch")
	}
}

func TestParseRejectsWrongPrefix(t *testing.T) {
	if _, err := Parse("nottwine/2.0.0", 2); err == nil {
		t.Fatal("expected error for wrong prefix")
	}
}

func TestParseWithSubspec(t *testing.T) {
	s, err := Parse("twine/2.0.0/chainlink/1.0.0", 2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sub, ok := s.Subspec()
	if !ok {
		t.Fatal("expected a subspec to be present")
	}
	if sub.Prefix() != "chainlink" {
		t.Fatalf("Prefix: got %q", sub.Prefix())
	}
	if sub.Semver().String() != "1.0.0" {
		t.Fatalf("subspec Semver: got %s", sub.Semver())
	}
}

func TestParseRejectsWrongSlashCount(t *testing.T) {
	if _, err := Parse("twine/2.0.0/chainlink", 2); err == nil {
		t.Fatal("expected error for incomplete subspec segment")
	}
}

func TestSatisfiesChecksConstraint(t *testing.T) {
	s, err := Parse("twine/2.3.1", 2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ok, err := s.Satisfies(">=2.0.0, <3.0.0")
	if err != nil {
		t.Fatalf("Satisfies: %v", err)
	}
	if !ok {
		t.Fatal("expected 2.3.1 to satisfy >=2.0.0, <3.0.0")
	}
	ok, err = s.Satisfies(">=3.0.0")
	if err != nil {
		t.Fatalf("Satisfies: %v", err)
	}
	if ok {
		t.Fatal("expected 2.3.1 not to satisfy >=3.0.0")
	}
}

package config

import (
	"testing"

	twcid "github.com/twine-protocol/twine-go/cid"
)

func TestHasherCodeDefaultsToSha3512(t *testing.T) {
	var c Config
	code, err := c.HasherCode()
	if err != nil {
		t.Fatalf("HasherCode: %v", err)
	}
	if code != twcid.SHA3_512 {
		t.Fatalf("default hasher code = %v, want %v", code, twcid.SHA3_512)
	}
}

func TestHasherCodeRejectsUnknownName(t *testing.T) {
	var c Config
	c.Builder.Hasher = "md5"
	if _, err := c.HasherCode(); err == nil {
		t.Fatalf("expected error for unknown hasher name")
	}
}

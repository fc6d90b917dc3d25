package cryptosuite

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

func generateRSAForTest(t *testing.T, bits int) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		t.Fatalf("generating %d-bit rsa key: %v", bits, err)
	}
	return priv
}

func TestEd25519SignAndVerify(t *testing.T) {
	signer, err := NewEd25519Signer(nil)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	msg := []byte("twine content bytes")
	sig, err := signer.Sign(msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := signer.PublicKey().Verify(sig, msg); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	signer, err := NewEd25519Signer(nil)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	sig, err := signer.Sign([]byte("original"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := signer.PublicKey().Verify(sig, []byte("tampered")); err == nil {
		t.Fatal("expected verification failure for tampered message")
	}
}

func TestEcdsaSignAndVerifyBothCurves(t *testing.T) {
	for _, algo := range []Algorithm{EcdsaP256, EcdsaP384} {
		signer, err := NewEcdsaSigner(algo, nil)
		if err != nil {
			t.Fatalf("NewEcdsaSigner(%s): %v", algo, err)
		}
		msg := []byte("ecdsa message")
		sig, err := signer.Sign(msg)
		if err != nil {
			t.Fatalf("Sign: %v", err)
		}
		if err := signer.PublicKey().Verify(sig, msg); err != nil {
			t.Fatalf("Verify(%s): %v", algo, err)
		}
	}
}

func TestRsaSignAndVerify(t *testing.T) {
	signer, err := NewRsaSigner(RsaSha256, nil)
	if err != nil {
		t.Fatalf("NewRsaSigner: %v", err)
	}
	msg := []byte("rsa message")
	sig, err := signer.Sign(msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := signer.PublicKey().Verify(sig, msg); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestParsePublicKeyRejectsAlgorithmMismatch(t *testing.T) {
	signer, err := NewEd25519Signer(nil)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	if _, err := ParsePublicKey(EcdsaP256, signer.PublicKey().Der); err == nil {
		t.Fatal("expected error parsing an Ed25519 key as EcdsaP256")
	}
}

func TestNewRsaSignerRejectsUnsupportedKeySize(t *testing.T) {
	// allowedRSABits only accepts 2048/3072/4096; 1024 must be rejected.
	priv := generateRSAForTest(t, 1024)
	if _, err := NewRsaSigner(RsaSha256, priv); err == nil {
		t.Fatal("expected error for 1024-bit RSA key")
	}
}

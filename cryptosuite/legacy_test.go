package cryptosuite

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func buildLegacyJWS(t *testing.T, signer Signer, alg string, payload []byte) string {
	t.Helper()
	headerJSON, err := json.Marshal(jwsHeader{Alg: alg})
	if err != nil {
		t.Fatalf("marshaling header: %v", err)
	}
	headerB64 := base64.RawURLEncoding.EncodeToString(headerJSON)
	payloadB64 := base64.RawURLEncoding.EncodeToString(payload)
	sig, err := signer.Sign([]byte(headerB64 + "." + payloadB64))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	sigB64 := base64.RawURLEncoding.EncodeToString(sig)
	return headerB64 + "." + payloadB64 + "." + sigB64
}

func TestVerifyLegacyJWSAccepts(t *testing.T) {
	signer, err := NewEd25519Signer(nil)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	payload := []byte(`{"index":0}`)
	compact := buildLegacyJWS(t, signer, "EdDSA", payload)

	if err := VerifyLegacyJWS(Ed25519Algo, signer.PublicKey().Der, compact, payload); err != nil {
		t.Fatalf("VerifyLegacyJWS: %v", err)
	}
}

func TestVerifyLegacyJWSRejectsPayloadMismatch(t *testing.T) {
	signer, err := NewEd25519Signer(nil)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	compact := buildLegacyJWS(t, signer, "EdDSA", []byte("original"))

	if err := VerifyLegacyJWS(Ed25519Algo, signer.PublicKey().Der, compact, []byte("different")); err == nil {
		t.Fatal("expected error for payload mismatch")
	}
}

func TestVerifyLegacyJWSRejectsMalformedCompact(t *testing.T) {
	if err := VerifyLegacyJWS(Ed25519Algo, nil, "not.enough", nil); err == nil {
		t.Fatal("expected error for malformed compact serialization")
	}
}

func TestVerifyLegacyJWSRejectsAlgorithmMismatch(t *testing.T) {
	signer, err := NewEd25519Signer(nil)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	payload := []byte("payload")
	compact := buildLegacyJWS(t, signer, "EdDSA", payload)

	if err := VerifyLegacyJWS(EcdsaP256, signer.PublicKey().Der, compact, payload); err == nil {
		t.Fatal("expected error when declared algorithm does not match header")
	}
}

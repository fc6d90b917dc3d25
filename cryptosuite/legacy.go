package cryptosuite

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"

	twerr "github.com/twine-protocol/twine-go/errors"
)

// jwsHeader is the subset of a JWS protected header Twine v1 signatures
// carry: just the algorithm name.
type jwsHeader struct {
	Alg string `json:"alg"`
}

// algFromJWSName maps a JWS "alg" header value to our closed Algorithm
// union. JWS names that have no Twine v2 equivalent (ES256K, EdDSA's
// non-Ed25519 curves) are rejected as unsupported.
func algFromJWSName(name string) (Algorithm, bool) {
	switch name {
	case "EdDSA":
		return Ed25519Algo, true
	case "ES256":
		return EcdsaP256, true
	case "ES384":
		return EcdsaP384, true
	case "RS256":
		return RsaSha256, true
	case "RS384":
		return RsaSha384, true
	case "RS512":
		return RsaSha512, true
	default:
		return 0, false
	}
}

// VerifyLegacyJWS validates a Twine v1 JWS compact-serialized signature
// ("header.payload.signature", base64url, unpadded) against a public key
// described by algo/der, and checks that the embedded payload matches
// expectedPayload exactly. There is no
// JOSE/JWK library anywhere in the example corpus (DESIGN.md justifies
// hand-rolling this against only the one header field Twine v1 needs,
// rather than a general-purpose JWS/JWK implementation).
func VerifyLegacyJWS(algo Algorithm, der []byte, compact string, expectedPayload []byte) error {
	parts := strings.Split(compact, ".")
	if len(parts) != 3 {
		return twerr.NewVerificationError(twerr.BadSignature, "malformed JWS compact serialization")
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return twerr.WrapVerificationError(twerr.BadSignature, err)
	}
	var header jwsHeader
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return twerr.WrapVerificationError(twerr.BadSignature, err)
	}

	declaredAlgo, ok := algFromJWSName(header.Alg)
	if !ok || declaredAlgo != algo {
		return twerr.NewVerificationError(twerr.UnsupportedKeyAlgorithm, header.Alg)
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return twerr.WrapVerificationError(twerr.BadSignature, err)
	}
	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return twerr.WrapVerificationError(twerr.BadSignature, err)
	}

	if !bytes.Equal(payload, expectedPayload) {
		return twerr.NewVerificationError(twerr.BadSignature, "payload does not match expected content")
	}

	pub, err := ParsePublicKey(algo, der)
	if err != nil {
		return err
	}

	signingInput := parts[0] + "." + parts[1]
	return pub.Verify(signature, []byte(signingInput))
}

// Package cryptosuite implements the closed signature-algorithm union
// Twine Strands may use: Ed25519, ECDSA P-256/P-384, and RSA-PKCS1 with
// SHA-256/384/512 at 2048/3072/4096-bit key sizes. Keys are carried as
// algorithm tag + ASN.1 DER bytes.
package cryptosuite

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"fmt"

	twerr "github.com/twine-protocol/twine-go/errors"
)

// Algorithm names the closed set of signature algorithms a Strand's
// public key may declare.
type Algorithm int

const (
	Ed25519Algo Algorithm = iota
	EcdsaP256
	EcdsaP384
	RsaSha256
	RsaSha384
	RsaSha512
)

func (a Algorithm) String() string {
	switch a {
	case Ed25519Algo:
		return "Ed25519"
	case EcdsaP256:
		return "EcdsaP256"
	case EcdsaP384:
		return "EcdsaP384"
	case RsaSha256:
		return "RsaSha256"
	case RsaSha384:
		return "RsaSha384"
	case RsaSha512:
		return "RsaSha512"
	default:
		return "Unsupported"
	}
}

// allowedRSABits are the RSA modulus sizes Twine accepts.
var allowedRSABits = map[int]bool{2048: true, 3072: true, 4096: true}

// PublicKey is a Strand's signing key: an algorithm tag paired with the
// ASN.1 DER-encoded key material, plus the parsed crypto.PublicKey used
// to verify signatures.
type PublicKey struct {
	Algorithm Algorithm
	Der       []byte
	key       crypto.PublicKey
}

// ParsePublicKey decodes der as an ASN.1 DER public key and pairs it with
// algo, validating that the key's concrete type and size agree with algo.
func ParsePublicKey(algo Algorithm, der []byte) (*PublicKey, error) {
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, twerr.WrapVerificationError(twerr.MalformedJwk, err)
	}

	switch algo {
	case Ed25519Algo:
		if _, ok := key.(ed25519.PublicKey); !ok {
			return nil, twerr.NewVerificationError(twerr.UnsupportedKeyAlgorithm, "key is not Ed25519")
		}
	case EcdsaP256, EcdsaP384:
		ecKey, ok := key.(*ecdsa.PublicKey)
		if !ok {
			return nil, twerr.NewVerificationError(twerr.UnsupportedKeyAlgorithm, "key is not ECDSA")
		}
		want := elliptic.P256()
		if algo == EcdsaP384 {
			want = elliptic.P384()
		}
		if ecKey.Curve != want {
			return nil, twerr.NewVerificationError(twerr.UnsupportedKeyAlgorithm, "ECDSA curve mismatch")
		}
	case RsaSha256, RsaSha384, RsaSha512:
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, twerr.NewVerificationError(twerr.UnsupportedKeyAlgorithm, "key is not RSA")
		}
		if !allowedRSABits[rsaKey.N.BitLen()] {
			return nil, twerr.NewVerificationError(twerr.UnsupportedKeyAlgorithm, fmt.Sprintf("unsupported RSA key size %d", rsaKey.N.BitLen()))
		}
	default:
		return nil, twerr.NewVerificationError(twerr.UnsupportedKeyAlgorithm, algo.String())
	}

	return &PublicKey{Algorithm: algo, Der: der, key: key}, nil
}

// Verify checks that signature is a valid signature over message under
// this public key.
func (p *PublicKey) Verify(signature, message []byte) error {
	switch p.Algorithm {
	case Ed25519Algo:
		pub := p.key.(ed25519.PublicKey)
		if !ed25519.Verify(pub, message, signature) {
			return twerr.NewVerificationError(twerr.BadSignature, "")
		}
		return nil
	case EcdsaP256, EcdsaP384:
		pub := p.key.(*ecdsa.PublicKey)
		h := hashFor(p.Algorithm)
		digest := sum(h, message)
		if !ecdsa.VerifyASN1(pub, digest, signature) {
			return twerr.NewVerificationError(twerr.BadSignature, "")
		}
		return nil
	case RsaSha256, RsaSha384, RsaSha512:
		pub := p.key.(*rsa.PublicKey)
		h := hashFor(p.Algorithm)
		digest := sum(h, message)
		if err := rsa.VerifyPKCS1v15(pub, h, digest, signature); err != nil {
			return twerr.WrapVerificationError(twerr.BadSignature, err)
		}
		return nil
	default:
		return twerr.NewVerificationError(twerr.UnsupportedKeyAlgorithm, p.Algorithm.String())
	}
}

func hashFor(a Algorithm) crypto.Hash {
	switch a {
	case EcdsaP256, RsaSha256:
		return crypto.SHA256
	case EcdsaP384, RsaSha384:
		return crypto.SHA384
	case RsaSha512:
		return crypto.SHA512
	default:
		return crypto.SHA256
	}
}

func sum(h crypto.Hash, message []byte) []byte {
	switch h {
	case crypto.SHA384:
		d := sha512.Sum384(message)
		return d[:]
	case crypto.SHA512:
		d := sha512.Sum512(message)
		return d[:]
	default:
		d := sha256.Sum256(message)
		return d[:]
	}
}

// Signer produces raw signatures over arbitrary message bytes and
// exposes the matching PublicKey. v2 Tixels and Strands are signed by
// calling Sign directly over their canonical content bytes.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() *PublicKey
}

// Ed25519Signer signs with a raw Ed25519 private key.
type Ed25519Signer struct {
	private ed25519.PrivateKey
	public  *PublicKey
}

// NewEd25519Signer wraps an Ed25519 private key, or generates a fresh
// one if private is nil.
func NewEd25519Signer(private ed25519.PrivateKey) (*Ed25519Signer, error) {
	if private == nil {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, twerr.Wrap(err, "generating ed25519 key")
		}
		private = priv
	}
	der, err := x509.MarshalPKIXPublicKey(private.Public())
	if err != nil {
		return nil, twerr.Wrap(err, "marshaling ed25519 public key")
	}
	pub, err := ParsePublicKey(Ed25519Algo, der)
	if err != nil {
		return nil, err
	}
	return &Ed25519Signer{private: private, public: pub}, nil
}

func (s *Ed25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.private, message), nil
}

func (s *Ed25519Signer) PublicKey() *PublicKey { return s.public }

// EcdsaSigner signs with an ECDSA P-256 or P-384 private key.
type EcdsaSigner struct {
	private *ecdsa.PrivateKey
	public  *PublicKey
	algo    Algorithm
}

// NewEcdsaSigner wraps an ECDSA private key for algo (EcdsaP256 or
// EcdsaP384), generating a fresh key on the matching curve if private
// is nil.
func NewEcdsaSigner(algo Algorithm, private *ecdsa.PrivateKey) (*EcdsaSigner, error) {
	curve := elliptic.P256()
	if algo == EcdsaP384 {
		curve = elliptic.P384()
	}
	if private == nil {
		priv, err := ecdsa.GenerateKey(curve, rand.Reader)
		if err != nil {
			return nil, twerr.Wrap(err, "generating ecdsa key")
		}
		private = priv
	}
	der, err := x509.MarshalPKIXPublicKey(&private.PublicKey)
	if err != nil {
		return nil, twerr.Wrap(err, "marshaling ecdsa public key")
	}
	pub, err := ParsePublicKey(algo, der)
	if err != nil {
		return nil, err
	}
	return &EcdsaSigner{private: private, public: pub, algo: algo}, nil
}

func (s *EcdsaSigner) Sign(message []byte) ([]byte, error) {
	digest := sum(hashFor(s.algo), message)
	return ecdsa.SignASN1(rand.Reader, s.private, digest)
}

func (s *EcdsaSigner) PublicKey() *PublicKey { return s.public }

// RsaSigner signs with an RSA-PKCS1 private key.
type RsaSigner struct {
	private *rsa.PrivateKey
	public  *PublicKey
	algo    Algorithm
}

// NewRsaSigner wraps an RSA private key for algo, generating a fresh
// 2048-bit key if private is nil.
func NewRsaSigner(algo Algorithm, private *rsa.PrivateKey) (*RsaSigner, error) {
	if private == nil {
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, twerr.Wrap(err, "generating rsa key")
		}
		private = priv
	}
	if !allowedRSABits[private.N.BitLen()] {
		return nil, twerr.NewVerificationError(twerr.UnsupportedKeyAlgorithm, fmt.Sprintf("unsupported RSA key size %d", private.N.BitLen()))
	}
	der, err := x509.MarshalPKIXPublicKey(&private.PublicKey)
	if err != nil {
		return nil, twerr.Wrap(err, "marshaling rsa public key")
	}
	pub, err := ParsePublicKey(algo, der)
	if err != nil {
		return nil, err
	}
	return &RsaSigner{private: private, public: pub, algo: algo}, nil
}

func (s *RsaSigner) Sign(message []byte) ([]byte, error) {
	h := hashFor(s.algo)
	digest := sum(h, message)
	return rsa.SignPKCS1v15(rand.Reader, s.private, h, digest)
}

func (s *RsaSigner) PublicKey() *PublicKey { return s.public }

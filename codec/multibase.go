package codec

import (
	"github.com/multiformats/go-multibase"

	twcid "github.com/twine-protocol/twine-go/cid"
	twerr "github.com/twine-protocol/twine-go/errors"
)

// multibaseNames lists the encodings shown by PrettyPrint, in a stable
// order so repeated calls produce repeated output.
var multibaseNames = []struct {
	label   string
	encoder multibase.Encoding
}{
	{"base32", multibase.Base32},
	{"base58btc", multibase.Base58BTC},
	{"base64url", multibase.Base64url},
}

// MultibaseVariants renders c's bytes in every multibase encoding
// PrettyPrint displays, keyed by a short human label.
func MultibaseVariants(c twcid.Cid) (map[string]string, error) {
	out := make(map[string]string, len(multibaseNames))
	raw := c.Bytes()
	for _, n := range multibaseNames {
		s, err := multibase.Encode(n.encoder, raw)
		if err != nil {
			return nil, twerr.WrapVerificationError(twerr.General, err)
		}
		out[n.label] = s
	}
	return out, nil
}

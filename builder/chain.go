package builder

import (
	"github.com/twine-protocol/twine-go/cryptosuite"
	"github.com/twine-protocol/twine-go/model"
)

// ChainBuilder is a convenience wrapper around StrandBuilder/TixelBuilder
// for the common case of building up a single chain tixel-by-tixel in
// one call site, without manually threading the previous Twine through
// each Next call.
type ChainBuilder struct {
	signer cryptosuite.Signer
	strand *model.Strand
	latest *model.Twine
}

// NewChain builds a fresh Strand with strandOpts applied, and returns a
// ChainBuilder ready to append Tixels to it.
func NewChain(signer cryptosuite.Signer, strandOpts ...func(*StrandBuilder)) (*ChainBuilder, error) {
	sb := NewStrandBuilder(signer)
	for _, opt := range strandOpts {
		opt(sb)
	}
	strand, err := sb.Build()
	if err != nil {
		return nil, err
	}
	return &ChainBuilder{signer: signer, strand: strand}, nil
}

// Strand returns the chain's Strand.
func (c *ChainBuilder) Strand() *model.Strand { return c.strand }

// Latest returns the most recently appended Twine, or nil if the chain
// is still empty.
func (c *ChainBuilder) Latest() *model.Twine { return c.latest }

// Append builds and appends the next Tixel on the chain, using First
// for the genesis record and Next thereafter.
func (c *ChainBuilder) Append(payload []byte, crossStitches []model.Stitch) (*model.Twine, error) {
	var tb *TixelBuilder
	if c.latest == nil {
		tb = First(c.strand, c.signer)
	} else {
		tb = Next(c.latest, c.signer)
	}
	tw, err := tb.WithPayload(payload).WithCrossStitches(crossStitches).Build()
	if err != nil {
		return nil, err
	}
	c.latest = tw
	return tw, nil
}

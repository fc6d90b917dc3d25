package builder

import (
	"testing"

	"github.com/twine-protocol/twine-go/cryptosuite"
)

func TestChainBuilderAppendsSequentialIndices(t *testing.T) {
	signer, err := cryptosuite.NewEd25519Signer(nil)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	chain, err := NewChain(signer, func(b *StrandBuilder) { b.WithRadix(4) })
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	for i := uint64(0); i < 5; i++ {
		tw, err := chain.Append([]byte("payload"), nil)
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
		if tw.Index() != i {
			t.Fatalf("Append %d: index = %d, want %d", i, tw.Index(), i)
		}
	}
}

package builder

import (
	"testing"

	"github.com/twine-protocol/twine-go/cryptosuite"
)

func TestStrandBuilderProducesVerifiedStrand(t *testing.T) {
	signer, err := cryptosuite.NewEd25519Signer(nil)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	strand, err := NewStrandBuilder(signer).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strand.Radix() != DefaultRadix {
		t.Fatalf("radix = %d, want %d", strand.Radix(), DefaultRadix)
	}
}

func TestTixelBuilderChainsIndices(t *testing.T) {
	signer, err := cryptosuite.NewEd25519Signer(nil)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	strand, err := NewStrandBuilder(signer).WithRadix(2).Build()
	if err != nil {
		t.Fatalf("strand Build: %v", err)
	}

	genesis, err := First(strand, signer).WithPayload([]byte("hello")).Build()
	if err != nil {
		t.Fatalf("genesis Build: %v", err)
	}
	if genesis.Index() != 0 {
		t.Fatalf("genesis index = %d, want 0", genesis.Index())
	}

	next, err := Next(genesis, signer).WithPayload([]byte("world")).Build()
	if err != nil {
		t.Fatalf("next Build: %v", err)
	}
	if next.Index() != 1 {
		t.Fatalf("next index = %d, want 1", next.Index())
	}
}

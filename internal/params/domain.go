package params

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Mode selects the domain tag placed in the capacity slot.
type Mode int

const (
	// MerkleTree tags an arity-n tree node with 2^n + 1.
	MerkleTree Mode = iota
	// ConstInputLen tags a fixed-length message of n elements with 2^64 * n.
	ConstInputLen
)

func (m Mode) String() string {
	switch m {
	case MerkleTree:
		return "merkle"
	case ConstInputLen:
		return "const"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "merkle":
		return MerkleTree, nil
	case "const":
		return ConstInputLen, nil
	}
	return 0, fmt.Errorf("poseidon254: unknown mode %q", s)
}

// DomainTag returns the capacity-slot value for hashing n elements in mode.
func DomainTag(mode Mode, n int) (fr.Element, error) {
	var tag fr.Element
	if n < 1 {
		return tag, fmt.Errorf("poseidon254: need at least 1 input")
	}
	v := new(big.Int)
	switch mode {
	case MerkleTree:
		v.Lsh(big.NewInt(1), uint(n))
		v.Add(v, big.NewInt(1))
	case ConstInputLen:
		v.Lsh(big.NewInt(int64(n)), 64)
	default:
		return tag, fmt.Errorf("poseidon254: unknown mode %d", int(mode))
	}
	tag.SetBigInt(v)
	return tag, nil
}

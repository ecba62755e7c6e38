package poseidon254

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/vocdoni/poseidon254/internal/params"
)

const (
	// MaxArity is the largest number of inputs a single Hash call accepts.
	MaxArity = params.MaxWidth - 1
	// MaxMerkleLeaves bounds the number of leaves MerkleRoot accepts.
	MaxMerkleLeaves = 4096
)

// permutation implements the Poseidon permutation over bn254 for one width.
type permutation struct {
	params *params.Parameters
}

// newPermutation instantiates a permutation for the given state width.
func newPermutation(width int) (*permutation, error) {
	p, err := params.For(width)
	if err != nil {
		return nil, err
	}
	if p.Width != width {
		return nil, fmt.Errorf("poseidon254: inconsistent parameter set for width %d (got %d)", width, p.Width)
	}
	return &permutation{params: p}, nil
}

// Permute applies the permutation for width len(state) to state in place.
func Permute(state []fr.Element) error {
	perm, err := newPermutation(len(state))
	if err != nil {
		return err
	}
	perm.permute(state)
	return nil
}

// Hash places the mode's domain tag in the capacity slot, permutes
// [tag, inputs...] and returns state[1].
func Hash(mode Mode, inputs ...fr.Element) (fr.Element, error) {
	if len(inputs) < 1 {
		return fr.Element{}, fmt.Errorf("poseidon254: need at least 1 input")
	}
	tag, err := DomainTag(mode, len(inputs))
	if err != nil {
		return fr.Element{}, err
	}
	return HashWithTag(tag, inputs...)
}

// HashWithTag is Hash with an explicit capacity-slot value.
func HashWithTag(tag fr.Element, inputs ...fr.Element) (fr.Element, error) {
	if len(inputs) < 1 {
		return fr.Element{}, fmt.Errorf("poseidon254: need at least 1 input")
	}
	perm, err := newPermutation(len(inputs) + 1)
	if err != nil {
		return fr.Element{}, err
	}

	state := make([]fr.Element, perm.params.Width)
	state[0] = tag
	copy(state[1:], inputs)

	perm.permute(state)
	return state[1], nil
}

// MerkleRoot hashes leaves into a single root. Each level is cut into chunks
// of MaxArity elements and every chunk is hashed in MerkleTree mode at its own
// arity, until one element is left.
func MerkleRoot(leaves ...fr.Element) (fr.Element, error) {
	if len(leaves) == 0 {
		return fr.Element{}, fmt.Errorf("poseidon254: need at least 1 leaf")
	}
	if len(leaves) > MaxMerkleLeaves {
		return fr.Element{}, fmt.Errorf("poseidon254: too many leaves (%d > %d)", len(leaves), MaxMerkleLeaves)
	}

	current := make([]fr.Element, len(leaves))
	copy(current, leaves)

	for len(current) > MaxArity {
		next := make([]fr.Element, 0, (len(current)+MaxArity-1)/MaxArity)
		for i := 0; i < len(current); i += MaxArity {
			end := min(i+MaxArity, len(current))
			h, err := Hash(MerkleTree, current[i:end]...)
			if err != nil {
				return fr.Element{}, err
			}
			next = append(next, h)
		}
		current = next
	}

	return Hash(MerkleTree, current...)
}

// permute mutates the state in place: R rounds of constant addition, S-box
// layer and MDS mixing.
func (p *permutation) permute(state []fr.Element) {
	scratch := make([]fr.Element, p.params.Width)
	for r := 0; r < p.params.Rounds(); r++ {
		addRoundConstants(state, p.params.RoundConstantsAt(r))
		if p.params.IsFullRound(r) {
			fullSBox(state)
		} else {
			partialSBox(state)
		}
		mix(state, scratch, p.params.MDS)
	}
}

// mix replaces state with MDS*state. scratch must have len(state).
func mix(state, scratch []fr.Element, mds []fr.Element) {
	t := len(state)
	for i := 0; i < t; i++ {
		var sum fr.Element
		rowOffset := i * t
		for j := 0; j < t; j++ {
			var prod fr.Element
			prod.Mul(&mds[rowOffset+j], &state[j])
			sum.Add(&sum, &prod)
		}
		scratch[i] = sum
	}
	copy(state, scratch)
}

func addRoundConstants(state, rc []fr.Element) {
	for i := range state {
		state[i].Add(&state[i], &rc[i])
	}
}

func partialSBox(state []fr.Element) {
	exp5(&state[0])
}

func fullSBox(state []fr.Element) {
	for i := range state {
		exp5(&state[i])
	}
}

func exp5(x *fr.Element) {
	var x2, x4 fr.Element
	x2.Square(x)
	x4.Square(&x2)
	x.Mul(&x4, x)
}

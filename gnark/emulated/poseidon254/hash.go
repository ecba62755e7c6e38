package poseidon254

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"

	"github.com/vocdoni/poseidon254/internal/params"
)

const (
	MaxArity        = params.MaxWidth - 1
	MaxMerkleLeaves = 256
)

// Hash computes the Poseidon hash over emulated bn254 field elements.
func Hash(api frontend.API, mode params.Mode, inputs ...emulated.Element[FrParams]) (emulated.Element[FrParams], error) {
	var zero emulated.Element[FrParams]
	if len(inputs) < 1 {
		return zero, fmt.Errorf("poseidon254: need at least 1 input")
	}
	tag, err := params.DomainTag(mode, len(inputs))
	if err != nil {
		return zero, err
	}
	p, err := params.For(len(inputs) + 1)
	if err != nil {
		return zero, err
	}

	field, err := emulated.NewField[FrParams](api)
	if err != nil {
		return zero, err
	}

	state := make([]*emulated.Element[FrParams], p.Width)
	state[0] = constElement(field, tag)
	for i := range inputs {
		state[i+1] = field.NewElement(inputs[i])
	}

	state = permute(field, p, state)
	// Ensure canonical output.
	out := field.Reduce(state[1])
	return *out, nil
}

// MerkleRoot mirrors the native MerkleRoot over emulated elements, up to
// MaxMerkleLeaves leaves.
func MerkleRoot(api frontend.API, leaves ...emulated.Element[FrParams]) (emulated.Element[FrParams], error) {
	var zero emulated.Element[FrParams]
	if len(leaves) == 0 {
		return zero, fmt.Errorf("poseidon254: need at least 1 leaf")
	}
	if len(leaves) > MaxMerkleLeaves {
		return zero, fmt.Errorf("poseidon254: too many leaves (%d > %d)", len(leaves), MaxMerkleLeaves)
	}

	current := make([]emulated.Element[FrParams], len(leaves))
	copy(current, leaves)

	for len(current) > MaxArity {
		next := make([]emulated.Element[FrParams], 0, (len(current)+MaxArity-1)/MaxArity)
		for i := 0; i < len(current); i += MaxArity {
			end := min(i+MaxArity, len(current))
			h, err := Hash(api, params.MerkleTree, current[i:end]...)
			if err != nil {
				return zero, err
			}
			next = append(next, h)
		}
		current = next
	}

	return Hash(api, params.MerkleTree, current...)
}

func permute(field *emulated.Field[FrParams], p *params.Parameters, state []*emulated.Element[FrParams]) []*emulated.Element[FrParams] {
	for r := range p.Rounds() {
		addRoundConstants(field, state, p.RoundConstantsAt(r))
		if p.IsFullRound(r) {
			for i := range state {
				state[i] = exp5(field, state[i])
			}
		} else {
			state[0] = exp5(field, state[0])
		}
		state = mix(field, p.MDS, state)
	}
	return state
}

func addRoundConstants(field *emulated.Field[FrParams], state []*emulated.Element[FrParams], rc []fr.Element) {
	for i := range state {
		state[i] = field.Add(state[i], constElement(field, rc[i]))
	}
}

func mix(field *emulated.Field[FrParams], mds []fr.Element, state []*emulated.Element[FrParams]) []*emulated.Element[FrParams] {
	t := len(state)
	newState := make([]*emulated.Element[FrParams], t)
	for i := range t {
		sum := field.Zero()
		rowOffset := i * t
		for j := range t {
			prod := field.Mul(constElement(field, mds[rowOffset+j]), state[j])
			sum = field.Add(sum, prod)
		}
		newState[i] = sum
	}
	return newState
}

func exp5(field *emulated.Field[FrParams], x *emulated.Element[FrParams]) *emulated.Element[FrParams] {
	x2 := field.Mul(x, x)
	x4 := field.Mul(x2, x2)
	return field.Mul(x4, x)
}

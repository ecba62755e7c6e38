package poseidon254

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"

	"github.com/vocdoni/poseidon254/internal/params"
)

// circuitPermutation mirrors the native permutation but emits gnark constraints.
type circuitPermutation struct {
	params *params.Parameters
}

// newCircuitPermutation builds a circuit gadget for the provided state width.
func newCircuitPermutation(api frontend.API, width int) (*circuitPermutation, error) {
	if api.Compiler().Field().Cmp(ecc.BN254.ScalarField()) != 0 {
		return nil, fmt.Errorf("poseidon254: circuit field is not the bn254 scalar field")
	}
	p, err := params.For(width)
	if err != nil {
		return nil, err
	}
	if p.Width != width {
		return nil, fmt.Errorf("poseidon254: inconsistent parameter set for width %d (got %d)", width, p.Width)
	}
	return &circuitPermutation{params: p}, nil
}

// Hash computes H_mode(inputs...) inside a gnark circuit over bn254.
func Hash(api frontend.API, mode params.Mode, inputs ...frontend.Variable) (frontend.Variable, error) {
	tag, err := params.DomainTag(mode, len(inputs))
	if err != nil {
		var zero frontend.Variable
		return zero, err
	}
	return HashWithTag(api, tag, inputs...)
}

// HashWithTag is Hash with an explicit capacity-slot value, which may itself
// be a circuit variable.
func HashWithTag(api frontend.API, tag frontend.Variable, inputs ...frontend.Variable) (frontend.Variable, error) {
	if len(inputs) < 1 {
		var zero frontend.Variable
		return zero, fmt.Errorf("poseidon254: need at least 1 input")
	}
	gadget, err := newCircuitPermutation(api, len(inputs)+1)
	if err != nil {
		var zero frontend.Variable
		return zero, err
	}
	state := make([]frontend.Variable, gadget.params.Width)
	state[0] = tag
	copy(state[1:], inputs)
	state = gadget.permute(api, state)
	return state[1], nil
}

// Permute applies the permutation for width len(state) and returns the new state.
func Permute(api frontend.API, state []frontend.Variable) ([]frontend.Variable, error) {
	gadget, err := newCircuitPermutation(api, len(state))
	if err != nil {
		return nil, err
	}
	out := make([]frontend.Variable, len(state))
	copy(out, state)
	return gadget.permute(api, out), nil
}

func (p *circuitPermutation) permute(api frontend.API, state []frontend.Variable) []frontend.Variable {
	for r := 0; r < p.params.Rounds(); r++ {
		circuitAddRoundConstants(api, state, p.params.RoundConstantsAt(r))
		if p.params.IsFullRound(r) {
			for i := range state {
				state[i] = circuitExp5(api, state[i])
			}
		} else {
			state[0] = circuitExp5(api, state[0])
		}
		state = circuitMix(api, state, p.params.MDS)
	}
	return state
}

func circuitAddRoundConstants(api frontend.API, state []frontend.Variable, rc []fr.Element) {
	for i := range state {
		state[i] = api.Add(state[i], rc[i])
	}
}

func circuitMix(api frontend.API, state []frontend.Variable, matrix []fr.Element) []frontend.Variable {
	width := len(state)
	out := make([]frontend.Variable, width)
	for i := 0; i < width; i++ {
		offset := i * width
		sum := api.Mul(state[0], matrix[offset])
		for j := 1; j < width; j++ {
			sum = api.Add(sum, api.Mul(state[j], matrix[offset+j]))
		}
		out[i] = sum
	}
	return out
}

func circuitExp5(api frontend.API, v frontend.Variable) frontend.Variable {
	v2 := api.Mul(v, v)
	v4 := api.Mul(v2, v2)
	return api.Mul(v4, v)
}

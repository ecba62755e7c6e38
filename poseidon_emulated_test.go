package poseidon254

import (
	"os"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/test"
	"github.com/rs/zerolog"

	emposeidon "github.com/vocdoni/poseidon254/gnark/emulated/poseidon254"
)

type emuSmallCircuit struct {
	Inputs   [2]emulated.Element[emposeidon.FrParams]
	Expected emulated.Element[emposeidon.FrParams] `gnark:",public"`
}

func (c *emuSmallCircuit) Define(api frontend.API) error {
	field, err := emulated.NewField[emposeidon.FrParams](api)
	if err != nil {
		return err
	}
	out, err := emposeidon.Hash(api, ConstInputLen, c.Inputs[0], c.Inputs[1])
	if err != nil {
		return err
	}
	field.AssertIsEqual(&out, &c.Expected)
	return nil
}

type emuMerkleCircuit struct {
	Leaves   []emulated.Element[emposeidon.FrParams]
	Expected emulated.Element[emposeidon.FrParams] `gnark:",public"`
}

func (c *emuMerkleCircuit) Define(api frontend.API) error {
	field, err := emulated.NewField[emposeidon.FrParams](api)
	if err != nil {
		return err
	}
	out, err := emposeidon.MerkleRoot(api, c.Leaves...)
	if err != nil {
		return err
	}
	field.AssertIsEqual(&out, &c.Expected)
	return nil
}

func TestEmulatedHashMatchesNative(t *testing.T) {
	assert := test.NewAssert(t)
	in := elements(1, 2)
	native, err := Hash(ConstInputLen, in...)
	if err != nil {
		t.Fatal(err)
	}

	witness := emuSmallCircuit{
		Inputs:   [2]emulated.Element[emposeidon.FrParams]{emposeidon.ValueOf(in[0]), emposeidon.ValueOf(in[1])},
		Expected: emposeidon.ValueOf(native),
	}

	assert.ProverSucceeded(
		&emuSmallCircuit{},
		&witness,
		test.WithCurves(ecc.BLS12_377),
		test.WithBackends(backend.GROTH16),
	)
}

func TestEmulatedMerkleRoot(t *testing.T) {
	assert := test.NewAssert(t)

	setLeaves := func(n int) []fr.Element {
		out := make([]fr.Element, n)
		for i := range out {
			out[i].SetUint64(uint64(i + 1))
		}
		return out
	}

	t.Run("size-2", func(t *testing.T) { runMerkleEmulated(t, assert, setLeaves(2)) })
	t.Run("size-18", func(t *testing.T) { runMerkleEmulated(t, assert, setLeaves(18)) })
}

func runMerkleEmulated(t *testing.T, assert *test.Assert, leaves []fr.Element) {
	expected, err := MerkleRoot(leaves...)
	if err != nil {
		t.Fatal(err)
	}
	witness := emuMerkleCircuit{
		Leaves:   make([]emulated.Element[emposeidon.FrParams], len(leaves)),
		Expected: emposeidon.ValueOf(expected),
	}
	for i, v := range leaves {
		witness.Leaves[i] = emposeidon.ValueOf(v)
	}

	ccs, err := frontend.Compile(ecc.BLS12_377.ScalarField(), r1cs.NewBuilder, &emuMerkleCircuit{
		Leaves: make([]emulated.Element[emposeidon.FrParams], len(leaves)),
	})
	if err != nil {
		t.Fatalf("compile n=%d: %v", len(leaves), err)
	}
	t.Logf("emulated merkle constraints n=%d (bls12-377 host, r1cs): %d", len(leaves), ccs.GetNbConstraints())

	assert.ProverSucceeded(
		&emuMerkleCircuit{Leaves: make([]emulated.Element[emposeidon.FrParams], len(leaves))},
		&witness,
		test.WithCurves(ecc.BLS12_377),
		test.WithBackends(backend.GROTH16),
	)
}

// Debug circuit to inspect limb outputs from emulated poseidon.
type emuDebugCircuit struct {
	Inputs [2]emulated.Element[emposeidon.FrParams]
}

func (c *emuDebugCircuit) Define(api frontend.API) error {
	out, err := emposeidon.Hash(api, ConstInputLen, c.Inputs[0], c.Inputs[1])
	if err != nil {
		return err
	}
	for i, limb := range out.Limbs {
		api.Println("out limb", i, limb)
	}
	return nil
}

func TestDebugEmulatedOutput(t *testing.T) {
	t.Skip("debug")
	in := elements(1, 2)

	ccs, err := frontend.Compile(ecc.BLS12_377.ScalarField(), r1cs.NewBuilder, &emuDebugCircuit{})
	if err != nil {
		t.Fatalf("compile debug: %v", err)
	}
	witness := &emuDebugCircuit{
		Inputs: [2]emulated.Element[emposeidon.FrParams]{emposeidon.ValueOf(in[0]), emposeidon.ValueOf(in[1])},
	}
	w, err := frontend.NewWitness(witness, ecc.BLS12_377.ScalarField())
	if err != nil {
		t.Fatalf("witness: %v", err)
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(zerolog.DebugLevel)
	if _, err := ccs.Solve(w, solver.WithLogger(zlog)); err != nil {
		t.Fatalf("solve debug: %v", err)
	}
}

package poseidon254

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/math/emulated/emparams"
)

// FrParams defines the emulated parameters for the bn254 scalar field.
type FrParams = emparams.BN254Fr

func constElement(f *emulated.Field[FrParams], fe fr.Element) *emulated.Element[FrParams] {
	return f.NewElement(fe.BigInt(new(big.Int)))
}

// ValueOf converts a native element into an emulated witness value.
func ValueOf(e fr.Element) emulated.Element[FrParams] {
	return emulated.ValueOf[FrParams](e.BigInt(new(big.Int)))
}

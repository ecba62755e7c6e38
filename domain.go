package poseidon254

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/vocdoni/poseidon254/internal/params"
)

// Mode selects the domain tag placed in the capacity slot.
type Mode = params.Mode

const (
	MerkleTree    = params.MerkleTree
	ConstInputLen = params.ConstInputLen
)

// ParseMode parses "merkle" or "const".
func ParseMode(s string) (Mode, error) {
	return params.ParseMode(s)
}

// DomainTag returns the capacity-slot value for hashing n elements in mode:
// 2^n + 1 for MerkleTree, 2^64 * n for ConstInputLen.
func DomainTag(mode Mode, n int) (fr.Element, error) {
	return params.DomainTag(mode, n)
}

// SetParameterSource makes every subsequent hash read its constants from src.
// Parameter sets already handed out stay valid.
func SetParameterSource(src params.Source) {
	params.SetDefaultSource(src)
}

// LoadConstantsTable switches the process to the JSON constants table at path.
func LoadConstantsTable(path string) error {
	t, err := params.LoadTableFile(path)
	if err != nil {
		return err
	}
	params.SetDefaultSource(t)
	return nil
}

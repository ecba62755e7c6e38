package poseidon254

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/vocdoni/poseidon254/internal/params"
)

const (
	MaxArity        = params.MaxWidth - 1
	MaxMerkleLeaves = 4096
)

// MerkleRoot computes the same root as the native MerkleRoot: chunks of
// MaxArity hashed in MerkleTree mode, level by level.
func MerkleRoot(api frontend.API, leaves ...frontend.Variable) (frontend.Variable, error) {
	if len(leaves) == 0 {
		var zero frontend.Variable
		return zero, fmt.Errorf("poseidon254: need at least 1 leaf")
	}
	if len(leaves) > MaxMerkleLeaves {
		var zero frontend.Variable
		return zero, fmt.Errorf("poseidon254: too many leaves (%d > %d)", len(leaves), MaxMerkleLeaves)
	}

	current := make([]frontend.Variable, len(leaves))
	copy(current, leaves)

	for len(current) > MaxArity {
		next := make([]frontend.Variable, 0, (len(current)+MaxArity-1)/MaxArity)
		for i := 0; i < len(current); i += MaxArity {
			end := min(i+MaxArity, len(current))
			h, err := Hash(api, params.MerkleTree, current[i:end]...)
			if err != nil {
				var zero frontend.Variable
				return zero, err
			}
			next = append(next, h)
		}
		current = next
	}

	return Hash(api, params.MerkleTree, current...)
}

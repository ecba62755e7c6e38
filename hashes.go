package poseidon254

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

func Hash1(a fr.Element) (fr.Element, error) {
	return Hash(ConstInputLen, a)
}

func Hash2(a, b fr.Element) (fr.Element, error) {
	return Hash(ConstInputLen, a, b)
}

func Hash3(a, b, c fr.Element) (fr.Element, error) {
	return Hash(ConstInputLen, a, b, c)
}

func Hash4(a, b, c, d fr.Element) (fr.Element, error) {
	return Hash(ConstInputLen, a, b, c, d)
}

// HashPair hashes two Merkle tree children into their parent.
func HashPair(left, right fr.Element) (fr.Element, error) {
	return Hash(MerkleTree, left, right)
}

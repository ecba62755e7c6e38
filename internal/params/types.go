package params

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Policy constants shared by every width.
const (
	Alpha         = 5
	FullRounds    = 57
	PartialRounds = 8

	// MinWidth is the smallest state: one capacity slot plus one input.
	MinWidth = 2
	// MaxWidth is the largest width the built-in Grain source derives.
	MaxWidth = 17
)

var (
	// ErrUnsupportedWidth is returned when no constants exist for a state width.
	ErrUnsupportedWidth = errors.New("unsupported state width")
	// ErrMalformedConstant is returned when a table entry is not a valid field element.
	ErrMalformedConstant = errors.New("malformed constant")
)

// Parameters bundles all constants needed by the permutation. It is read-only
// once built and may be shared between goroutines.
type Parameters struct {
	Width         int
	Alpha         uint64
	FullRounds    int
	PartialRounds int

	// MDS is the Width x Width mixing matrix, row-major.
	MDS []fr.Element
	// RoundConstants holds Width constants per round, round after round.
	RoundConstants []fr.Element
}

// Rounds returns the total number of rounds of the permutation.
func (p *Parameters) Rounds() int {
	return p.FullRounds + p.PartialRounds
}

// IsFullRound reports whether round i applies the S-box to the whole state.
// Partial rounds form the band [PartialRounds/2, PartialRounds/2+FullRounds].
func (p *Parameters) IsFullRound(i int) bool {
	half := p.PartialRounds / 2
	return i < half || i > half+p.FullRounds
}

// RoundConstantsAt returns the Width constants injected at round i.
func (p *Parameters) RoundConstantsAt(i int) []fr.Element {
	return p.RoundConstants[i*p.Width : (i+1)*p.Width]
}

// Row is the external decimal-string form of one width's constants.
type Row struct {
	Width          int        `json:"width"`
	MDS            [][]string `json:"mds"`
	RoundConstants []string   `json:"roundConstants"`
}

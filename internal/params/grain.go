package params

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

const grainStateBits = 80

// grain is the 80-bit LFSR of the Poseidon reference parameter generator.
type grain struct {
	bits [grainStateBits]uint8
	pos  int
}

// newGrain seeds the LFSR with the instance description
// field(2) | sbox(4) | n(12) | t(12) | R_F(10) | R_P(10) | 1^30
// and discards the first 160 output bits.
func newGrain(fieldBits, width, fullRounds, partialRounds int) *grain {
	g := &grain{}
	i := 0
	push := func(v uint64, n int) {
		for k := n - 1; k >= 0; k-- {
			g.bits[i] = uint8((v >> uint(k)) & 1)
			i++
		}
	}
	push(1, 2) // prime field
	push(0, 4) // x^alpha S-box
	push(uint64(fieldBits), 12)
	push(uint64(width), 12)
	push(uint64(fullRounds), 10)
	push(uint64(partialRounds), 10)
	push(1<<30-1, 30)

	for range 160 {
		g.next()
	}
	return g
}

func (g *grain) at(k int) uint8 {
	return g.bits[(g.pos+k)%grainStateBits]
}

// next clocks the register once. Taps: 0, 13, 23, 38, 51, 62.
func (g *grain) next() uint8 {
	r := g.at(0) ^ g.at(13) ^ g.at(23) ^ g.at(38) ^ g.at(51) ^ g.at(62)
	g.bits[g.pos] = r
	g.pos = (g.pos + 1) % grainStateBits
	return r
}

// readBits draws n bits through the self-shrinking filter, MSB first.
func (g *grain) readBits(n int) *big.Int {
	out := new(big.Int)
	for got := 0; got < n; {
		first := g.next()
		second := g.next()
		if first == 1 {
			out.Lsh(out, 1)
			if second == 1 {
				out.SetBit(out, 0, 1)
			}
			got++
		}
	}
	return out
}

// readElement rejection-samples a canonical field element.
func (g *grain) readElement(out *fr.Element) {
	mod := fr.Modulus()
	for {
		v := g.readBits(fr.Bits)
		if v.Cmp(mod) < 0 {
			out.SetBigInt(v)
			return
		}
	}
}

// GrainSource derives parameters for widths MinWidth..MaxWidth. Round
// constants come from the Grain LFSR; the MDS matrix is the Cauchy matrix
// M[i][j] = 1/(i + (t+j)).
type GrainSource struct{}

// Row implements Source.
func (GrainSource) Row(width int) (*Row, error) {
	p, err := Derive(width)
	if err != nil {
		return nil, err
	}
	return rowFromParameters(p), nil
}

// Derive computes the parameter set for width directly in the field.
func Derive(width int) (*Parameters, error) {
	if width < MinWidth || width > MaxWidth {
		return nil, fmt.Errorf("poseidon254: width %d: %w", width, ErrUnsupportedWidth)
	}
	p := &Parameters{
		Width:         width,
		Alpha:         Alpha,
		FullRounds:    FullRounds,
		PartialRounds: PartialRounds,
	}

	g := newGrain(fr.Bits, width, p.FullRounds, p.PartialRounds)
	p.RoundConstants = make([]fr.Element, width*p.Rounds())
	for i := range p.RoundConstants {
		g.readElement(&p.RoundConstants[i])
	}

	p.MDS = cauchy(width)
	return p, Validate(p)
}

func cauchy(t int) []fr.Element {
	m := make([]fr.Element, t*t)
	for i := 0; i < t; i++ {
		for j := 0; j < t; j++ {
			var d fr.Element
			d.SetUint64(uint64(i + t + j))
			m[i*t+j].Inverse(&d)
		}
	}
	return m
}

package params

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Parse turns a decimal-string row into a validated parameter set. Only the
// first Width*(FullRounds+PartialRounds) round constants are read; a row
// carrying fewer is rejected.
func Parse(row *Row) (*Parameters, error) {
	t := row.Width
	if t < MinWidth {
		return nil, fmt.Errorf("poseidon254: width %d: %w", t, ErrUnsupportedWidth)
	}
	p := &Parameters{
		Width:         t,
		Alpha:         Alpha,
		FullRounds:    FullRounds,
		PartialRounds: PartialRounds,
	}

	need := t * p.Rounds()
	if len(row.RoundConstants) < need {
		return nil, fmt.Errorf("poseidon254: width %d has %d round constants, want %d", t, len(row.RoundConstants), need)
	}
	p.RoundConstants = make([]fr.Element, need)
	for i, s := range row.RoundConstants[:need] {
		if err := setDecimal(&p.RoundConstants[i], s); err != nil {
			return nil, fmt.Errorf("poseidon254: width %d round constant %d: %w", t, i, err)
		}
	}

	if len(row.MDS) != t {
		return nil, fmt.Errorf("poseidon254: width %d mds has %d rows", t, len(row.MDS))
	}
	p.MDS = make([]fr.Element, t*t)
	for i, mdsRow := range row.MDS {
		if len(mdsRow) != t {
			return nil, fmt.Errorf("poseidon254: width %d mds row %d has %d entries", t, i, len(mdsRow))
		}
		for j, s := range mdsRow {
			if err := setDecimal(&p.MDS[i*t+j], s); err != nil {
				return nil, fmt.Errorf("poseidon254: width %d mds[%d][%d]: %w", t, i, j, err)
			}
		}
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// setDecimal parses a canonical decimal string. Values outside [0, r) are
// rejected instead of being reduced.
func setDecimal(e *fr.Element, s string) error {
	return setCanonical(e, s, 10)
}

// ParseElement parses a canonical field element written in decimal or with a
// 0x prefix in hex. Unlike fr.Element.SetString it never reduces modulo r.
func ParseElement(s string) (fr.Element, error) {
	var e fr.Element
	var err error
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		err = setCanonical(&e, hex, 16)
	} else {
		err = setCanonical(&e, s, 10)
	}
	return e, err
}

func setCanonical(e *fr.Element, s string, base int) error {
	if s == "" {
		return fmt.Errorf("%w: empty string", ErrMalformedConstant)
	}
	for _, c := range s {
		if !isDigit(c, base) {
			return fmt.Errorf("%w: %q is not a base-%d integer", ErrMalformedConstant, s, base)
		}
	}
	b, ok := new(big.Int).SetString(s, base)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMalformedConstant, s)
	}
	if b.Cmp(fr.Modulus()) >= 0 {
		return fmt.Errorf("%w: %q exceeds the field modulus", ErrMalformedConstant, s)
	}
	e.SetBigInt(b)
	return nil
}

func isDigit(c rune, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && (c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'):
		return true
	}
	return false
}

// rowFromParameters renders p back to decimal strings.
func rowFromParameters(p *Parameters) *Row {
	row := &Row{
		Width:          p.Width,
		MDS:            make([][]string, p.Width),
		RoundConstants: make([]string, len(p.RoundConstants)),
	}
	for i := range p.RoundConstants {
		row.RoundConstants[i] = p.RoundConstants[i].String()
	}
	for i := 0; i < p.Width; i++ {
		row.MDS[i] = make([]string, p.Width)
		for j := 0; j < p.Width; j++ {
			row.MDS[i][j] = p.MDS[i*p.Width+j].String()
		}
	}
	return row
}

package params

import "fmt"

// Validate checks basic shape and sizes of the parameter set.
func Validate(p *Parameters) error {
	if p.Width < MinWidth {
		return fmt.Errorf("poseidon254: width %d below minimum %d", p.Width, MinWidth)
	}
	if p.Alpha != Alpha {
		return fmt.Errorf("poseidon254: unsupported alpha %d", p.Alpha)
	}
	if p.FullRounds < 0 || p.PartialRounds < 0 {
		return fmt.Errorf("poseidon254: negative round count")
	}
	expectedRounds := p.Rounds() * p.Width
	if len(p.RoundConstants) != expectedRounds {
		return fmt.Errorf("poseidon254: round constants length %d, want %d", len(p.RoundConstants), expectedRounds)
	}
	if len(p.MDS) != p.Width*p.Width {
		return fmt.Errorf("poseidon254: mds length %d, want %d", len(p.MDS), p.Width*p.Width)
	}
	return nil
}

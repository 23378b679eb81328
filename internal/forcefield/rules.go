package forcefield

import (
	"fmt"
	"math"

	"github.com/san-kum/molsim/internal/dynamo"
)

// Rule derives pair van der Waals parameters from per-atom ones.
type Rule int

const (
	// Geometric treats (v, w) as (c12, c6) and takes geometric means.
	Geometric Rule = iota
	// LorentzBerthelot treats (v, w) as (sigma, epsilon): arithmetic mean
	// of sigma, geometric mean of epsilon.
	LorentzBerthelot
)

// ParseRule maps "geom" and "LB" to a Rule. Names are case sensitive.
func ParseRule(name string) (Rule, error) {
	switch name {
	case "geom":
		return Geometric, nil
	case "LB":
		return LorentzBerthelot, nil
	default:
		return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownRule, name)
	}
}

func (r Rule) String() string {
	switch r {
	case Geometric:
		return "geom"
	case LorentzBerthelot:
		return "LB"
	default:
		return "unknown"
	}
}

// Combine returns the pair parameters for atoms with (vi, wi) and (vj, wj).
func (r Rule) Combine(vi, wi, vj, wj float64) (v, w float64) {
	w = math.Sqrt(wi * wj)
	if r == LorentzBerthelot {
		return 0.5 * (vi + vj), w
	}
	return math.Sqrt(vi * vj), w
}

// LJ converts pair parameters in the rule's form to (c12, c6).
func (r Rule) LJ(v, w float64) (c12, c6 float64) {
	if r == LorentzBerthelot {
		s6 := math.Pow(v, 6)
		return 4 * w * s6 * s6, 4 * w * s6
	}
	return v, w
}

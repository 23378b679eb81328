package forcefield

import (
	"fmt"
	"slices"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// ForceField owns one list per interaction kind. Lists only grow through
// Add, so every stored index has been checked against the atom count.
type ForceField struct {
	Box     geom.Box
	Rule    Rule
	LJScale float64
	QQScale float64

	bonds           []BondHarmonic
	angles          []AngleHarmonic
	dihedrals       []DihedralPeriodic
	impropers       []ImproperDihedralHarmonic
	rbDihedrals     []DihedralRB
	ljPairs         []LJPair
	coulombPairs    []CoulombPair
	buckinghamPairs []BuckinghamPair

	natoms int
}

// New returns an empty force field over natoms atoms with unit scale
// factors.
func New(natoms int, box geom.Box) *ForceField {
	return &ForceField{
		Box:     box,
		LJScale: 1.0,
		QQScale: 1.0,
		natoms:  natoms,
	}
}

// NAtoms returns the number of atoms the force field was built for.
func (ff *ForceField) NAtoms() int { return ff.natoms }

// The accessors below return copies of the per-kind lists.

func (ff *ForceField) Bonds() []BondHarmonic                 { return slices.Clone(ff.bonds) }
func (ff *ForceField) Angles() []AngleHarmonic               { return slices.Clone(ff.angles) }
func (ff *ForceField) Dihedrals() []DihedralPeriodic         { return slices.Clone(ff.dihedrals) }
func (ff *ForceField) Impropers() []ImproperDihedralHarmonic { return slices.Clone(ff.impropers) }
func (ff *ForceField) RBDihedrals() []DihedralRB             { return slices.Clone(ff.rbDihedrals) }
func (ff *ForceField) LJPairs() []LJPair                     { return slices.Clone(ff.ljPairs) }
func (ff *ForceField) CoulombPairs() []CoulombPair           { return slices.Clone(ff.coulombPairs) }
func (ff *ForceField) BuckinghamPairs() []BuckinghamPair     { return slices.Clone(ff.buckinghamPairs) }

// Add appends an interaction after checking its atom indices.
func (ff *ForceField) Add(in Interaction) error {
	for _, i := range in.Indices() {
		if i < 0 || i >= ff.natoms {
			return fmt.Errorf("%w: %s references atom %d, system has %d", dynamo.ErrAtomIndex, in.Kind(), i, ff.natoms)
		}
	}

	switch v := in.(type) {
	case BondHarmonic:
		ff.bonds = append(ff.bonds, v)
	case AngleHarmonic:
		ff.angles = append(ff.angles, v)
	case DihedralPeriodic:
		ff.dihedrals = append(ff.dihedrals, v)
	case ImproperDihedralHarmonic:
		ff.impropers = append(ff.impropers, v)
	case DihedralRB:
		ff.rbDihedrals = append(ff.rbDihedrals, v)
	case LJPair:
		ff.ljPairs = append(ff.ljPairs, v)
	case CoulombPair:
		ff.coulombPairs = append(ff.coulombPairs, v)
	case BuckinghamPair:
		ff.buckinghamPairs = append(ff.buckinghamPairs, v)
	default:
		return fmt.Errorf("%w: %T", dynamo.ErrUnknownKeyword, in)
	}
	return nil
}

// Count returns the number of interactions of kind k.
func (ff *ForceField) Count(k Kind) int {
	switch k {
	case KindBondHarmonic:
		return len(ff.bonds)
	case KindAngleHarmonic:
		return len(ff.angles)
	case KindDihedralPeriodic:
		return len(ff.dihedrals)
	case KindImproperDihedralHarmonic:
		return len(ff.impropers)
	case KindDihedralRB:
		return len(ff.rbDihedrals)
	case KindLJPair:
		return len(ff.ljPairs)
	case KindCoulombPair:
		return len(ff.coulombPairs)
	case KindBuckinghamPair:
		return len(ff.buckinghamPairs)
	default:
		return 0
	}
}

// Len returns the total number of interactions.
func (ff *ForceField) Len() int {
	n := 0
	for _, k := range Kinds {
		n += ff.Count(k)
	}
	return n
}

// Evaluate adds the forces at pos into forces and returns the total
// potential energy. forces is not cleared.
func (ff *ForceField) Evaluate(pos, forces []r3.Vec) float64 {
	return ff.evalTerms(pos, forces, 0, ff.Len())
}

// Compute returns the energy and a freshly allocated force array.
func (ff *ForceField) Compute(pos []r3.Vec) (float64, []r3.Vec) {
	forces := make([]r3.Vec, len(pos))
	u := ff.Evaluate(pos, forces)
	return u, forces
}

// EnergyByKind returns the energy of every non-empty kind at pos.
func (ff *ForceField) EnergyByKind(pos []r3.Vec) map[Kind]float64 {
	scratch := make([]r3.Vec, len(pos))
	out := make(map[Kind]float64)
	off := 0
	for _, k := range Kinds {
		n := ff.Count(k)
		if n > 0 {
			out[k] = ff.evalTerms(pos, scratch, off, off+n)
		}
		off += n
	}
	return out
}

// evalTerms evaluates the interactions with flat index in [start, end),
// where the flat index runs over the kinds in Kinds order.
func (ff *ForceField) evalTerms(pos, forces []r3.Vec, start, end int) float64 {
	var u float64
	off := 0
	u += accumulateRange(ff, ff.bonds, pos, forces, &off, start, end)
	u += accumulateRange(ff, ff.angles, pos, forces, &off, start, end)
	u += accumulateRange(ff, ff.dihedrals, pos, forces, &off, start, end)
	u += accumulateRange(ff, ff.impropers, pos, forces, &off, start, end)
	u += accumulateRange(ff, ff.rbDihedrals, pos, forces, &off, start, end)
	u += accumulateRange(ff, ff.ljPairs, pos, forces, &off, start, end)
	u += accumulateRange(ff, ff.coulombPairs, pos, forces, &off, start, end)
	u += accumulateRange(ff, ff.buckinghamPairs, pos, forces, &off, start, end)
	return u
}

func accumulateRange[T Interaction](ff *ForceField, terms []T, pos, forces []r3.Vec, off *int, start, end int) float64 {
	lo := max(start-*off, 0)
	hi := min(end-*off, len(terms))
	*off += len(terms)

	var u float64
	for i := lo; i < hi; i++ {
		u += terms[i].accumulate(ff, pos, forces)
	}
	return u
}

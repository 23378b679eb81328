package forcefield

import (
	"github.com/san-kum/molsim/internal/geom"
	"github.com/san-kum/molsim/internal/potential"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind identifies an interaction variant.
type Kind int

const (
	KindBondHarmonic Kind = iota
	KindAngleHarmonic
	KindDihedralPeriodic
	KindImproperDihedralHarmonic
	KindDihedralRB
	KindLJPair
	KindCoulombPair
	KindBuckinghamPair
)

// Kinds lists every interaction kind in evaluation order.
var Kinds = []Kind{
	KindBondHarmonic,
	KindAngleHarmonic,
	KindDihedralPeriodic,
	KindImproperDihedralHarmonic,
	KindDihedralRB,
	KindLJPair,
	KindCoulombPair,
	KindBuckinghamPair,
}

// String returns the topology keyword of the kind.
func (k Kind) String() string {
	switch k {
	case KindBondHarmonic:
		return "bond_harm"
	case KindAngleHarmonic:
		return "angle_harm"
	case KindDihedralPeriodic:
		return "pdih"
	case KindImproperDihedralHarmonic:
		return "idih_harm"
	case KindDihedralRB:
		return "rb_dih"
	case KindLJPair:
		return "lj_pair"
	case KindCoulombPair:
		return "coul_pair"
	case KindBuckinghamPair:
		return "buck_pair"
	default:
		return "unknown"
	}
}

// IsPair reports whether the kind is a nonbonded pair term subject to the
// force field scale factors.
func (k Kind) IsPair() bool {
	return k == KindLJPair || k == KindCoulombPair || k == KindBuckinghamPair
}

// Interaction is one concrete term. The set of implementations is closed
// to this package.
type Interaction interface {
	Kind() Kind
	Indices() []int
	accumulate(ff *ForceField, pos, forces []r3.Vec) float64
}

// BondHarmonic is a harmonic bond stretch between atoms i and j.
type BondHarmonic struct {
	K, R0 float64
	Atoms [2]int
}

func (b BondHarmonic) Kind() Kind     { return KindBondHarmonic }
func (b BondHarmonic) Indices() []int { return b.Atoms[:] }

// Calc returns the energy and the forces on i and j.
func (b BondHarmonic) Calc(box geom.Box, pos []r3.Vec) (float64, [2]r3.Vec) {
	rij := box.Displace(pos[b.Atoms[0]], pos[b.Atoms[1]])
	r := geom.Bond(rij)
	u, f := potential.Harmonic(b.K, b.R0, r)
	return u, geom.BondForces(rij, r, f)
}

func (b BondHarmonic) accumulate(ff *ForceField, pos, forces []r3.Vec) float64 {
	u, f := b.Calc(ff.Box, pos)
	scatter(forces, b.Atoms[:], f[:])
	return u
}

// AngleHarmonic is a harmonic bend with vertex at the middle atom.
type AngleHarmonic struct {
	K, T0 float64
	Atoms [3]int
}

func (a AngleHarmonic) Kind() Kind     { return KindAngleHarmonic }
func (a AngleHarmonic) Indices() []int { return a.Atoms[:] }

func (a AngleHarmonic) Calc(box geom.Box, pos []r3.Vec) (float64, [3]r3.Vec) {
	rj := pos[a.Atoms[1]]
	ang := geom.NewAngle(box.Displace(rj, pos[a.Atoms[0]]), box.Displace(rj, pos[a.Atoms[2]]))
	u, f := potential.Harmonic(a.K, a.T0, ang.Theta)
	return u, ang.Forces(f)
}

func (a AngleHarmonic) accumulate(ff *ForceField, pos, forces []r3.Vec) float64 {
	u, f := a.Calc(ff.Box, pos)
	scatter(forces, a.Atoms[:], f[:])
	return u
}

// DihedralPeriodic is a proper torsion with a cosine potential.
type DihedralPeriodic struct {
	K, N, P0 float64
	Atoms    [4]int
}

func (d DihedralPeriodic) Kind() Kind     { return KindDihedralPeriodic }
func (d DihedralPeriodic) Indices() []int { return d.Atoms[:] }

func (d DihedralPeriodic) Calc(box geom.Box, pos []r3.Vec) (float64, [4]r3.Vec) {
	dih := torsion(box, pos, d.Atoms)
	u, f := potential.Periodic(d.K, d.N, d.P0, dih.Psi)
	return u, dih.Forces(f)
}

func (d DihedralPeriodic) accumulate(ff *ForceField, pos, forces []r3.Vec) float64 {
	u, f := d.Calc(ff.Box, pos)
	scatter(forces, d.Atoms[:], f[:])
	return u
}

// ImproperDihedralHarmonic keeps a torsion angle near P0. The deviation is
// not wrapped into [-pi, pi).
type ImproperDihedralHarmonic struct {
	K, P0 float64
	Atoms [4]int
}

func (d ImproperDihedralHarmonic) Kind() Kind     { return KindImproperDihedralHarmonic }
func (d ImproperDihedralHarmonic) Indices() []int { return d.Atoms[:] }

func (d ImproperDihedralHarmonic) Calc(box geom.Box, pos []r3.Vec) (float64, [4]r3.Vec) {
	dih := torsion(box, pos, d.Atoms)
	u, f := potential.Harmonic(d.K, d.P0, dih.Psi)
	return u, dih.Forces(f)
}

func (d ImproperDihedralHarmonic) accumulate(ff *ForceField, pos, forces []r3.Vec) float64 {
	u, f := d.Calc(ff.Box, pos)
	scatter(forces, d.Atoms[:], f[:])
	return u
}

// DihedralRB is a Ryckaert-Bellemans torsion.
type DihedralRB struct {
	C     [6]float64
	Atoms [4]int
}

func (d DihedralRB) Kind() Kind     { return KindDihedralRB }
func (d DihedralRB) Indices() []int { return d.Atoms[:] }

func (d DihedralRB) Calc(box geom.Box, pos []r3.Vec) (float64, [4]r3.Vec) {
	dih := torsion(box, pos, d.Atoms)
	u, f := potential.RyckaertBellemans(d.C, dih.Psi)
	return u, dih.Forces(f)
}

func (d DihedralRB) accumulate(ff *ForceField, pos, forces []r3.Vec) float64 {
	u, f := d.Calc(ff.Box, pos)
	scatter(forces, d.Atoms[:], f[:])
	return u
}

// LJPair is a Lennard-Jones pair with resolved c12 and c6 coefficients.
type LJPair struct {
	C12, C6 float64
	Atoms   [2]int
}

func (p LJPair) Kind() Kind     { return KindLJPair }
func (p LJPair) Indices() []int { return p.Atoms[:] }

// Calc returns the unscaled energy and forces.
func (p LJPair) Calc(box geom.Box, pos []r3.Vec) (float64, [2]r3.Vec) {
	return p.scaled(box, pos, 1)
}

func (p LJPair) scaled(box geom.Box, pos []r3.Vec, scale float64) (float64, [2]r3.Vec) {
	rij := box.Displace(pos[p.Atoms[0]], pos[p.Atoms[1]])
	r := geom.Bond(rij)
	u, f := potential.LennardJones(p.C12, p.C6, r)
	return scale * u, geom.BondForces(rij, r, scale*f)
}

func (p LJPair) accumulate(ff *ForceField, pos, forces []r3.Vec) float64 {
	u, f := p.scaled(ff.Box, pos, ff.LJScale)
	scatter(forces, p.Atoms[:], f[:])
	return u
}

// CoulombPair is an electrostatic pair between two point charges.
type CoulombPair struct {
	Qi, Qj float64
	Atoms  [2]int
}

func (p CoulombPair) Kind() Kind     { return KindCoulombPair }
func (p CoulombPair) Indices() []int { return p.Atoms[:] }

// Calc returns the unscaled energy and forces.
func (p CoulombPair) Calc(box geom.Box, pos []r3.Vec) (float64, [2]r3.Vec) {
	return p.scaled(box, pos, 1)
}

func (p CoulombPair) scaled(box geom.Box, pos []r3.Vec, scale float64) (float64, [2]r3.Vec) {
	rij := box.Displace(pos[p.Atoms[0]], pos[p.Atoms[1]])
	r := geom.Bond(rij)
	u, f := potential.Coulomb(p.Qi, p.Qj, r)
	return scale * u, geom.BondForces(rij, r, scale*f)
}

func (p CoulombPair) accumulate(ff *ForceField, pos, forces []r3.Vec) float64 {
	u, f := p.scaled(ff.Box, pos, ff.QQScale)
	scatter(forces, p.Atoms[:], f[:])
	return u
}

// BuckinghamPair is an exp-6 pair.
type BuckinghamPair struct {
	A, B, C float64
	Atoms   [2]int
}

func (p BuckinghamPair) Kind() Kind     { return KindBuckinghamPair }
func (p BuckinghamPair) Indices() []int { return p.Atoms[:] }

// Calc returns the unscaled energy and forces.
func (p BuckinghamPair) Calc(box geom.Box, pos []r3.Vec) (float64, [2]r3.Vec) {
	return p.scaled(box, pos, 1)
}

func (p BuckinghamPair) scaled(box geom.Box, pos []r3.Vec, scale float64) (float64, [2]r3.Vec) {
	rij := box.Displace(pos[p.Atoms[0]], pos[p.Atoms[1]])
	r := geom.Bond(rij)
	u, f := potential.Buckingham(p.A, p.B, p.C, r)
	return scale * u, geom.BondForces(rij, r, scale*f)
}

func (p BuckinghamPair) accumulate(ff *ForceField, pos, forces []r3.Vec) float64 {
	u, f := p.scaled(ff.Box, pos, ff.LJScale)
	scatter(forces, p.Atoms[:], f[:])
	return u
}

func torsion(box geom.Box, pos []r3.Vec, at [4]int) geom.Dihedral {
	ri, rj, rk, rl := pos[at[0]], pos[at[1]], pos[at[2]], pos[at[3]]
	return geom.NewDihedral(box.Displace(ri, rj), box.Displace(rj, rk), box.Displace(rk, rl))
}

func scatter(forces []r3.Vec, atoms []int, f []r3.Vec) {
	for n, i := range atoms {
		forces[i] = r3.Add(forces[i], f[n])
	}
}

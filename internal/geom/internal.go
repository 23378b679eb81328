package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bond returns the length of the bond vector rij = rj - ri.
func Bond(rij r3.Vec) float64 {
	return r3.Norm(rij)
}

// BondForces projects the generalized force f = -dU/dr onto the bond
// vector rij = rj - ri of length r. The two forces are exact negatives of
// each other.
func BondForces(rij r3.Vec, r, f float64) [2]r3.Vec {
	fi := r3.Scale(-f/r, rij)
	return [2]r3.Vec{fi, r3.Scale(-1, fi)}
}

// Angle is the bend angle at vertex j between rji = ri - rj and
// rjk = rk - rj.
type Angle struct {
	Uji, Ujk r3.Vec
	Nji, Njk float64
	Cos      float64
	Theta    float64
}

// NewAngle measures the angle between rji and rjk.
func NewAngle(rji, rjk r3.Vec) Angle {
	nji := r3.Norm(rji)
	njk := r3.Norm(rjk)
	uji := r3.Scale(1/nji, rji)
	ujk := r3.Scale(1/njk, rjk)
	c := clampCos(r3.Dot(uji, ujk))
	return Angle{
		Uji:   uji,
		Ujk:   ujk,
		Nji:   nji,
		Njk:   njk,
		Cos:   c,
		Theta: math.Acos(c),
	}
}

// Forces maps f = -dU/dtheta onto atoms i, j and k. The 1/sin(theta)
// factor is taken as sqrt(1-cos^2) so that theta = 0 or pi yields Inf/NaN
// rather than a large finite value.
func (a Angle) Forces(f float64) [3]r3.Vec {
	g := f / math.Sqrt(1-a.Cos*a.Cos)
	fi := r3.Scale(g/a.Nji, r3.Sub(r3.Scale(a.Cos, a.Uji), a.Ujk))
	fk := r3.Scale(g/a.Njk, r3.Sub(r3.Scale(a.Cos, a.Ujk), a.Uji))
	fj := r3.Scale(-1, r3.Add(fi, fk))
	return [3]r3.Vec{fi, fj, fk}
}

// Dihedral is the signed torsion angle of the chain i-j-k-l built from the
// bond vectors rij = rj - ri, rjk = rk - rj and rkl = rl - rk.
//
// Psi is acos of the angle between the plane normals nijk = rij x rjk and
// njkl = rjk x rkl, negated when nijk . rkl < 0. The trans conformation is
// +-pi and cis is 0.
type Dihedral struct {
	Rij, Rjk, Rkl r3.Vec
	Nijk, Njkl    r3.Vec
	Psi           float64
}

// NewDihedral measures the torsion angle of the three bond vectors.
func NewDihedral(rij, rjk, rkl r3.Vec) Dihedral {
	nijk := r3.Cross(rij, rjk)
	njkl := r3.Cross(rjk, rkl)
	c := clampCos(r3.Dot(nijk, njkl) / math.Sqrt(r3.Norm2(nijk)*r3.Norm2(njkl)))
	psi := math.Acos(c)
	if r3.Dot(nijk, rkl) < 0 {
		psi = -psi
	}
	return Dihedral{
		Rij:  rij,
		Rjk:  rjk,
		Rkl:  rkl,
		Nijk: nijk,
		Njkl: njkl,
		Psi:  psi,
	}
}

// Forces maps f = -dU/dpsi onto atoms i, j, k and l. The outer atoms move
// along their plane normals; the inner pair takes the remainder so that
// both the net force and the net torque vanish.
func (d Dihedral) Forces(f float64) [4]r3.Vec {
	rjk2 := r3.Norm2(d.Rjk)
	rjk := math.Sqrt(rjk2)

	fi := r3.Scale(-f*rjk/r3.Norm2(d.Nijk), d.Nijk)
	fl := r3.Scale(f*rjk/r3.Norm2(d.Njkl), d.Njkl)

	// projections of ri-rj and rk-rl onto rk-rj, in units of |rjk|^2
	p := -r3.Dot(d.Rij, d.Rjk) / rjk2
	q := -r3.Dot(d.Rkl, d.Rjk) / rjk2

	fj := r3.Sub(r3.Scale(p-1, fi), r3.Scale(q, fl))
	fk := r3.Sub(r3.Scale(q-1, fl), r3.Scale(p, fi))
	return [4]r3.Vec{fi, fj, fk, fl}
}

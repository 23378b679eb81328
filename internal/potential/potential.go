// Package potential holds the scalar potential functions of the force
// field. Every function takes an internal coordinate (bond length, angle or
// torsion) and returns the energy together with the generalized force
// -dU/dq along that coordinate.
package potential

import "math"

// CoulombConst is the electrostatic conversion factor 1/(4 pi eps0) in
// kJ mol^-1 nm e^-2.
const CoulombConst = 138.93549

// Harmonic is U = k/2 (x - x0)^2.
func Harmonic(k, x0, x float64) (u, f float64) {
	dx := x - x0
	kdx := k * dx
	return 0.5 * kdx * dx, -kdx
}

// Periodic is U = k (1 + cos(n x - x0)).
func Periodic(k, n, x0, x float64) (u, f float64) {
	s, c := math.Sincos(n*x - x0)
	return k * (1 + c), k * n * s
}

// RyckaertBellemans is U = sum_i c_i cos(psi - pi)^i for i = 0..5.
func RyckaertBellemans(c [6]float64, psi float64) (u, f float64) {
	cp := math.Cos(psi - math.Pi)
	pow := 1.0
	var du float64
	for i, ci := range c {
		if i > 0 {
			du += float64(i) * ci * pow
			pow *= cp
		}
		u += ci * pow
	}
	// d/dpsi cos(psi-pi)^i = i cos(psi-pi)^(i-1) sin(psi)
	return u, -math.Sin(psi) * du
}

// LennardJones is U = c12/r^12 - c6/r^6.
func LennardJones(c12, c6, r float64) (u, f float64) {
	ir2 := 1 / (r * r)
	ir6 := ir2 * ir2 * ir2
	rep := c12 * ir6 * ir6
	disp := c6 * ir6
	return rep - disp, (12*rep - 6*disp) / r
}

// Buckingham is U = a exp(-b r) - c/r^6.
func Buckingham(a, b, c, r float64) (u, f float64) {
	ex := a * math.Exp(-b*r)
	ir6 := 1 / (r * r * r * r * r * r)
	return ex - c*ir6, b*ex - 6*c*ir6/r
}

// Coulomb is U = CoulombConst qi qj / r.
func Coulomb(qi, qj, r float64) (u, f float64) {
	u = CoulombConst * qi * qj / r
	return u, u / r
}

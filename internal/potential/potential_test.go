package potential

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestHarmonic(t *testing.T) {
	tests := []struct {
		k, x0, x float64
		u, f     float64
	}{
		{1, 1, 1, 0, 0},
		{1, 1, 2, 0.5, -1},
		{100, 0.15, 0.1, 0.125, 5},
	}
	for _, tt := range tests {
		u, f := Harmonic(tt.k, tt.x0, tt.x)
		if !scalar.EqualWithinAbs(u, tt.u, 1e-12) || !scalar.EqualWithinAbs(f, tt.f, 1e-12) {
			t.Errorf("Harmonic(%v,%v,%v) = (%v,%v), want (%v,%v)", tt.k, tt.x0, tt.x, u, f, tt.u, tt.f)
		}
	}
}

func TestPeriodicGolden(t *testing.T) {
	u, f := Periodic(1, 1, 0, math.Pi/2)
	if !scalar.EqualWithinAbs(u, 1.0, 1e-12) {
		t.Errorf("energy: got %v, want 1.0", u)
	}
	if !scalar.EqualWithinAbs(math.Abs(f), 1.0, 1e-12) {
		t.Errorf("generalized force magnitude: got %v, want 1.0", math.Abs(f))
	}
}

func TestGeneralizedForceIsNegativeDerivative(t *testing.T) {
	rb := [6]float64{9.28, 12.16, -13.12, -3.06, 26.24, -31.5}

	tests := []struct {
		name string
		fn   func(x float64) (float64, float64)
		x    float64
	}{
		{"harmonic", func(x float64) (float64, float64) { return Harmonic(250, 1.9, x) }, 2.05},
		{"periodic", func(x float64) (float64, float64) { return Periodic(3.5, 3, 0.3, x) }, -1.2},
		{"ryckaert-bellemans", func(x float64) (float64, float64) { return RyckaertBellemans(rb, x) }, 0.7},
		{"ryckaert-bellemans-negative", func(x float64) (float64, float64) { return RyckaertBellemans(rb, x) }, -2.4},
		{"lennard-jones", func(x float64) (float64, float64) { return LennardJones(2.6e-6, 2.6e-3, x) }, 0.33},
		{"buckingham", func(x float64) (float64, float64) { return Buckingham(1e5, 30, 1e-3, x) }, 0.29},
		{"coulomb", func(x float64) (float64, float64) { return Coulomb(-0.8, 0.4, x) }, 0.5},
	}

	const h = 1e-6
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, f := tt.fn(tt.x)
			up, _ := tt.fn(tt.x + h)
			down, _ := tt.fn(tt.x - h)
			want := -(up - down) / (2 * h)
			if !scalar.EqualWithinAbsOrRel(f, want, 1e-6, 1e-6) {
				t.Errorf("generalized force: got %v, finite difference %v", f, want)
			}
		})
	}
}

func TestRyckaertBellemansTrans(t *testing.T) {
	c := [6]float64{1, 2, 3, 4, 5, 6}
	// cos(pi - pi) = 1, so U is the coefficient sum and the force vanishes
	u, f := RyckaertBellemans(c, math.Pi)
	if !scalar.EqualWithinAbs(u, 21, 1e-12) {
		t.Errorf("energy: got %v, want 21", u)
	}
	if !scalar.EqualWithinAbs(f, 0, 1e-12) {
		t.Errorf("force: got %v, want 0", f)
	}
}

func TestLennardJonesMinimum(t *testing.T) {
	c12, c6 := 1.0, 2.0
	rmin := math.Pow(2*c12/c6, 1.0/6)
	u, f := LennardJones(c12, c6, rmin)
	if !scalar.EqualWithinAbs(f, 0, 1e-12) {
		t.Errorf("force at minimum: got %v, want 0", f)
	}
	if !scalar.EqualWithinAbs(u, -c6*c6/(4*c12), 1e-12) {
		t.Errorf("well depth: got %v, want %v", u, -c6*c6/(4*c12))
	}
}

func TestCoulombConst(t *testing.T) {
	u, _ := Coulomb(1, 1, 1)
	if u != CoulombConst {
		t.Errorf("got %v, want %v", u, CoulombConst)
	}
}

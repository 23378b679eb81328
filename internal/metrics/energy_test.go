package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/geom"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func twoAtoms(t *testing.T, v0, v1 r3.Vec) *dynamo.System {
	t.Helper()
	s, err := dynamo.NewSystem(
		[]dynamo.Atom{{Index: 0, Mass: 2}, {Index: 1, Mass: 4}},
		[]r3.Vec{{}, {X: 1}},
		geom.Box{},
	)
	if err != nil {
		t.Fatal(err)
	}
	s.Velocities[0] = v0
	s.Velocities[1] = v1
	return s
}

func TestKineticEnergyAndTemperature(t *testing.T) {
	s := twoAtoms(t, r3.Vec{X: 1}, r3.Vec{Y: 2})

	ke := KineticEnergy(s)
	if ke != 9 {
		t.Errorf("kinetic energy: got %v, want 9", ke)
	}
	want := 2 * 9 / (3 * Boltzmann)
	if !scalar.EqualWithinRel(Temperature(s), want, 1e-12) {
		t.Errorf("temperature: got %v, want %v", Temperature(s), want)
	}
	if p := Momentum(s); p != (r3.Vec{X: 2, Y: 8}) {
		t.Errorf("momentum: got %v", p)
	}
}

func TestEnergyDrift(t *testing.T) {
	s := twoAtoms(t, r3.Vec{X: 1}, r3.Vec{})
	m := NewEnergyDrift()

	m.Observe(s, 0, 9)
	m.Observe(s, 1, 10)
	m.Observe(s, 2, 9.5)
	if !scalar.EqualWithinAbs(m.Value(), 0.1, 1e-12) {
		t.Errorf("drift: got %v, want 0.1", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestEnergyMean(t *testing.T) {
	s := twoAtoms(t, r3.Vec{}, r3.Vec{})
	m := NewEnergy()
	m.Observe(s, 0, -2)
	m.Observe(s, 1, -4)
	if m.Value() != -3 {
		t.Errorf("mean energy: got %v, want -3", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestStability(t *testing.T) {
	s := twoAtoms(t, r3.Vec{X: 1}, r3.Vec{})
	m := NewStability(5)
	m.Observe(s, 0, 0)
	s.Velocities[1] = r3.Vec{X: math.NaN()}
	m.Observe(s, 1, 0)
	if m.Value() != 0.5 {
		t.Errorf("stability: got %v, want 0.5", m.Value())
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4})
	if s.N != 4 || s.Mean != 2.5 || s.Min != 1 || s.Max != 4 {
		t.Errorf("summary: got %+v", s)
	}
	if !scalar.EqualWithinAbs(s.StdDev, math.Sqrt(5.0/3), 1e-12) {
		t.Errorf("std dev: got %v", s.StdDev)
	}
	if z := Summarize(nil); z.N != 0 {
		t.Errorf("empty summary: got %+v", z)
	}
	if d := RelativeDrift([]float64{-10, -9, -11}); d != 0.1 {
		t.Errorf("relative drift: got %v, want 0.1", d)
	}
}

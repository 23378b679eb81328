package dynamo

import (
	"fmt"

	"github.com/san-kum/molsim/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Atom holds the constant per-particle parameters of one atom. V and W are
// the van der Waals parameters whose meaning depends on the combination
// rule in use.
type Atom struct {
	Index   int
	Name    string
	Type    string
	Element int
	Mass    float64
	Charge  float64
	V       float64
	W       float64
}

// System is the particle arena. Every slice is indexed by atom index and
// only Positions, Velocities and Forces change during a run.
type System struct {
	Atoms      []Atom
	Positions  []r3.Vec
	Velocities []r3.Vec
	Forces     []r3.Vec
	Box        geom.Box
}

// NewSystem returns a system at rest with zero forces.
func NewSystem(atoms []Atom, positions []r3.Vec, box geom.Box) (*System, error) {
	if len(atoms) != len(positions) {
		return nil, fmt.Errorf("%w: %d atoms, %d positions", ErrDimensionMismatch, len(atoms), len(positions))
	}
	pos := make([]r3.Vec, len(positions))
	copy(pos, positions)
	return &System{
		Atoms:      atoms,
		Positions:  pos,
		Velocities: make([]r3.Vec, len(atoms)),
		Forces:     make([]r3.Vec, len(atoms)),
		Box:        box,
	}, nil
}

func (s *System) Len() int { return len(s.Atoms) }

// Masses returns the atom masses in index order.
func (s *System) Masses() []float64 {
	m := make([]float64, len(s.Atoms))
	for i, a := range s.Atoms {
		m[i] = a.Mass
	}
	return m
}

// Snapshot returns a copy of the current positions.
func (s *System) Snapshot() []r3.Vec {
	c := make([]r3.Vec, len(s.Positions))
	copy(c, s.Positions)
	return c
}

// IsValid reports whether all positions and velocities are finite.
func (s *System) IsValid() bool {
	for i := range s.Positions {
		if !geom.IsFinite(s.Positions[i]) || !geom.IsFinite(s.Velocities[i]) {
			return false
		}
	}
	return true
}

// Evaluator computes the potential energy at positions and adds the
// resulting per-atom forces into forces. It does not clear forces.
type Evaluator interface {
	Evaluate(positions, forces []r3.Vec) float64
}

// Integrator advances a System in time using an Evaluator.
type Integrator interface {
	// Init evaluates forces at the current positions. It must run once
	// before the first Step.
	Init(ff Evaluator, s *System) float64
	// Step advances one time step and returns the new potential energy.
	// It fails with ErrNotInitialized if Init has not run.
	Step(ff Evaluator, s *System) (float64, error)
	Dt() float64
	Time() float64
	Steps() int
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(s *System, step int, t, epot float64) error
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(s *System, t, epot float64)
	Value() float64
	Reset()
}

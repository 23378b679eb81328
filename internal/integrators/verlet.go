package integrators

import (
	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// minChunk is the smallest per-goroutine share of atoms in the update loops.
const minChunk = 512

// VelocityVerlet is the velocity form of the Verlet scheme. It keeps the
// previous step's forces so the velocity update can average old and new
// forces.
type VelocityVerlet struct {
	dt    float64
	time  float64
	step  int
	cache []r3.Vec
	ready bool
}

func NewVelocityVerlet(dt float64) *VelocityVerlet {
	return &VelocityVerlet{dt: dt}
}

func (v *VelocityVerlet) Dt() float64   { return v.dt }
func (v *VelocityVerlet) Time() float64 { return v.time }
func (v *VelocityVerlet) Steps() int    { return v.step }

func (v *VelocityVerlet) ensureScratch(n int) {
	if len(v.cache) != n {
		v.cache = make([]r3.Vec, n)
	}
}

// Init evaluates the forces at the current positions.
func (v *VelocityVerlet) Init(ff dynamo.Evaluator, s *dynamo.System) float64 {
	v.ensureScratch(s.Len())
	geom.Zero(s.Forces)
	v.ready = true
	return ff.Evaluate(s.Positions, s.Forces)
}

// Step moves positions with the current forces, re-evaluates the force
// field and then updates velocities with the mean of old and new forces.
func (v *VelocityVerlet) Step(ff dynamo.Evaluator, s *dynamo.System) (float64, error) {
	if !v.ready {
		return 0, dynamo.ErrNotInitialized
	}
	n := s.Len()
	v.ensureScratch(n)

	dt := v.dt
	halfDt2 := 0.5 * dt * dt
	dynamo.ParallelFor(n, minChunk, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			invm := 1 / s.Atoms[i].Mass
			s.Positions[i] = r3.Add(s.Positions[i],
				r3.Add(r3.Scale(dt, s.Velocities[i]), r3.Scale(halfDt2*invm, s.Forces[i])))
			v.cache[i] = s.Forces[i]
			s.Forces[i] = r3.Vec{}
		}
	})

	u := ff.Evaluate(s.Positions, s.Forces)

	halfDt := 0.5 * dt
	dynamo.ParallelFor(n, minChunk, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			invm := 1 / s.Atoms[i].Mass
			s.Velocities[i] = r3.Add(s.Velocities[i],
				r3.Scale(halfDt*invm, r3.Add(s.Forces[i], v.cache[i])))
		}
	})

	v.step++
	v.time += dt
	return u, nil
}

// Leapfrog is the kick-drift-kick form: half a velocity kick with the old
// forces, a full drift, a force evaluation and a second half kick. It
// needs no force cache.
type Leapfrog struct {
	dt    float64
	time  float64
	step  int
	ready bool
}

func NewLeapfrog(dt float64) *Leapfrog {
	return &Leapfrog{dt: dt}
}

func (l *Leapfrog) Dt() float64   { return l.dt }
func (l *Leapfrog) Time() float64 { return l.time }
func (l *Leapfrog) Steps() int    { return l.step }

func (l *Leapfrog) Init(ff dynamo.Evaluator, s *dynamo.System) float64 {
	geom.Zero(s.Forces)
	l.ready = true
	return ff.Evaluate(s.Positions, s.Forces)
}

func (l *Leapfrog) Step(ff dynamo.Evaluator, s *dynamo.System) (float64, error) {
	if !l.ready {
		return 0, dynamo.ErrNotInitialized
	}
	n := s.Len()
	dt := l.dt
	halfDt := 0.5 * dt

	dynamo.ParallelFor(n, minChunk, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			invm := 1 / s.Atoms[i].Mass
			s.Velocities[i] = r3.Add(s.Velocities[i], r3.Scale(halfDt*invm, s.Forces[i]))
			s.Positions[i] = r3.Add(s.Positions[i], r3.Scale(dt, s.Velocities[i]))
			s.Forces[i] = r3.Vec{}
		}
	})

	u := ff.Evaluate(s.Positions, s.Forces)

	dynamo.ParallelFor(n, minChunk, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			invm := 1 / s.Atoms[i].Mass
			s.Velocities[i] = r3.Add(s.Velocities[i], r3.Scale(halfDt*invm, s.Forces[i]))
		}
	})

	l.step++
	l.time += dt
	return u, nil
}

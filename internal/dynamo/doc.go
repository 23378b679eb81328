// Package dynamo provides the core primitives shared by the molecular
// dynamics engine.
//
// The package defines the flat, index-addressed particle arena and the
// contracts between the force field, the integrators and the run loop:
//
//   - [Atom]: per-particle constants (mass, charge, van der Waals v/w)
//   - [System]: positions, velocities and forces indexed by atom
//   - [Evaluator]: anything that turns positions into energy and forces
//   - [Integrator]: time stepper driving an [Evaluator] once per step
//
// Atoms never reference each other. Every relationship between atoms is an
// integer index tuple held by an interaction in the force field.
//
// # Example
//
//	ff, atoms, _ := forcefield.Build(top, log)
//	sys, _ := dynamo.NewSystem(atoms, coords, top.Box())
//	vv := integrators.NewVelocityVerlet(0.001)
//	vv.Init(ff, sys)
//	for i := 0; i < 1000; i++ {
//	    epot, err := vv.Step(ff, sys)
//	}
//
// # Thread Safety
//
// A System is mutated in place by its integrator and must not be shared
// between goroutines while a step runs.
package dynamo

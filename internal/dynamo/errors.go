package dynamo

import (
	"errors"
	"fmt"
)

// Build-time errors. All of them are fatal and reported before the first
// step runs.
var (
	// ErrUnknownKeyword indicates an interaction keyword outside the known set.
	ErrUnknownKeyword = errors.New("dynamo: unknown interaction keyword")

	// ErrUnknownRule indicates an unknown combination-rule name.
	ErrUnknownRule = errors.New("dynamo: unknown combination rule")

	// ErrBadParameter indicates a malformed or missing numeric parameter.
	ErrBadParameter = errors.New("dynamo: malformed interaction parameter")

	// ErrArity indicates an interaction with the wrong number of atoms.
	ErrArity = errors.New("dynamo: wrong number of atoms for interaction")

	// ErrAtomIndex indicates an atom index outside the system.
	ErrAtomIndex = errors.New("dynamo: atom index out of range")

	// ErrUnknownAtomType indicates a template atom whose type is not defined.
	ErrUnknownAtomType = errors.New("dynamo: unknown atom type")

	// ErrDimensionMismatch indicates per-atom arrays of different lengths.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between atoms and coordinates")
)

// Run-time errors.
var (
	// ErrInvalidState indicates a NaN or Inf in positions or velocities.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrNotInitialized indicates a step before the initial force evaluation.
	ErrNotInitialized = errors.New("dynamo: integrator stepped before initial force evaluation")
)

// BuildError wraps a build failure with the topology entry it came from.
type BuildError struct {
	Molecule string
	Entry    int
	Keyword  string
	Wrapped  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("molecule %s, interaction %d (%s): %v", e.Molecule, e.Entry+1, e.Keyword, e.Wrapped)
}

func (e *BuildError) Unwrap() error {
	return e.Wrapped
}

// SimError reports a failure at a given step of a run.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

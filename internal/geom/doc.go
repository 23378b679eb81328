// Package geom provides the vector and internal-coordinate kernels used by
// the force field.
//
// Vectors are [r3.Vec] values. The package covers:
//
//   - [Box]: orthorhombic periodic box with minimum image and wrapping
//   - [Bond], [Angle], [Dihedral]: internal coordinates built from
//     displacement vectors
//   - BondForces, [Angle.Forces], [Dihedral.Forces]: chain-rule kernels
//     mapping a generalized force -dU/dq onto per-atom Cartesian forces
//
// Every kernel returns contributions that sum to the zero vector.
//
// # Singular geometries
//
// An angle of exactly 0 or pi makes the 1/sin(theta) factor infinite, and
// three colinear atoms in a dihedral give a zero-length plane normal. These
// are not reported as errors: the resulting Inf and NaN values propagate
// through the forces unchanged.
package geom

// Package forcefield turns a topology into concrete, globally indexed
// interactions and evaluates their energy and forces.
//
// The set of interaction kinds is closed:
//
//	bond_harm   BondHarmonic              k r0
//	angle_harm  AngleHarmonic             k t0
//	pdih        DihedralPeriodic          k n p0
//	idih_harm   ImproperDihedralHarmonic  k p0
//	rb_dih      DihedralRB                c0 .. c5
//	lj_pair     LJPair                    [v w]
//	coul_pair   CoulombPair               [qi qj]
//	buck_pair   BuckinghamPair            a b c
//
// Atom indices are validated once by [ForceField.Add]; evaluation never
// checks them again. [ForceField.Evaluate] is the sequential reference.
// [Parallel] splits the interaction list across workers, each writing to a
// private force buffer, and sums the buffers afterwards.
package forcefield

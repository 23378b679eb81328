package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/molsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// LyapunovExponent estimates the largest Lyapunov exponent, in 1/ps, by
// integrating sys alongside a copy whose first atom is displaced by
// perturbation along x. Every renorm steps the phase-space separation is
// logged and the copy is pulled back to distance perturbation. sys itself is
// advanced by steps steps.
func LyapunovExponent(
	ff dynamo.Evaluator,
	newIntegrator func() dynamo.Integrator,
	sys *dynamo.System,
	perturbation float64,
	steps, renorm int,
) (float64, error) {
	if sys.Len() == 0 || steps <= 0 {
		return 0, nil
	}
	if perturbation <= 0 {
		return 0, fmt.Errorf("perturbation must be positive, got %g", perturbation)
	}
	renorm = max(renorm, 1)

	twin, err := dynamo.NewSystem(sys.Atoms, sys.Positions, sys.Box)
	if err != nil {
		return 0, err
	}
	copy(twin.Velocities, sys.Velocities)
	twin.Positions[0].X += perturbation

	integ := newIntegrator()
	twinInteg := newIntegrator()
	integ.Init(ff, sys)
	twinInteg.Init(ff, twin)

	sumLog := 0.0
	for i := 1; i <= steps; i++ {
		if _, err := integ.Step(ff, sys); err != nil {
			return 0, err
		}
		if _, err := twinInteg.Step(ff, twin); err != nil {
			return 0, err
		}
		if i%renorm != 0 && i != steps {
			continue
		}

		sep := separation(sys, twin)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, fmt.Errorf("%w: separation %g at step %d", dynamo.ErrInvalidState, sep, i)
		}
		sumLog += math.Log(sep / perturbation)

		// Pull the twin back; its cached forces are stale after the move.
		scale := perturbation / sep
		for a := range twin.Positions {
			twin.Positions[a] = r3.Add(sys.Positions[a], r3.Scale(scale, r3.Sub(twin.Positions[a], sys.Positions[a])))
			twin.Velocities[a] = r3.Add(sys.Velocities[a], r3.Scale(scale, r3.Sub(twin.Velocities[a], sys.Velocities[a])))
		}
		twinInteg.Init(ff, twin)
	}

	return sumLog / (float64(steps) * integ.Dt()), nil
}

func separation(a, b *dynamo.System) float64 {
	var d2 float64
	for i := range a.Positions {
		d2 += r3.Norm2(r3.Sub(b.Positions[i], a.Positions[i]))
		d2 += r3.Norm2(r3.Sub(b.Velocities[i], a.Velocities[i]))
	}
	return math.Sqrt(d2)
}

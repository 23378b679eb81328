package experiment

import (
	"math"
	"math/rand"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/metrics"
	"gonum.org/v1/gonum/spatial/r3"
)

// InitVelocities draws Maxwell-Boltzmann velocities at temperature (K),
// removes the centre-of-mass motion and rescales to hit temperature
// exactly. temperature <= 0 leaves the system at rest.
func InitVelocities(s *dynamo.System, temperature float64, rng *rand.Rand) {
	for i := range s.Velocities {
		s.Velocities[i] = r3.Vec{}
	}
	if temperature <= 0 || s.Len() == 0 {
		return
	}

	for i, a := range s.Atoms {
		sigma := math.Sqrt(metrics.Boltzmann * temperature / a.Mass)
		s.Velocities[i] = r3.Vec{
			X: sigma * rng.NormFloat64(),
			Y: sigma * rng.NormFloat64(),
			Z: sigma * rng.NormFloat64(),
		}
	}
	RemoveCOMMotion(s)

	if cur := metrics.Temperature(s); cur > 0 {
		scale := math.Sqrt(temperature / cur)
		for i := range s.Velocities {
			s.Velocities[i] = r3.Scale(scale, s.Velocities[i])
		}
	}
}

// RemoveCOMMotion subtracts the centre-of-mass velocity from every atom.
func RemoveCOMMotion(s *dynamo.System) {
	var total float64
	for _, a := range s.Atoms {
		total += a.Mass
	}
	if total == 0 {
		return
	}
	vcom := r3.Scale(1/total, metrics.Momentum(s))
	for i := range s.Velocities {
		s.Velocities[i] = r3.Sub(s.Velocities[i], vcom)
	}
}

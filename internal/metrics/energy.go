package metrics

import (
	"math"

	"github.com/san-kum/molsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Boltzmann is the Boltzmann constant in kJ/(mol K).
const Boltzmann = 0.0083144626

// KineticEnergy returns sum(m v^2)/2.
func KineticEnergy(s *dynamo.System) float64 {
	var ke float64
	for i, v := range s.Velocities {
		ke += 0.5 * s.Atoms[i].Mass * r3.Norm2(v)
	}
	return ke
}

// DegreesOfFreedom returns 3N-3, the count after removing centre-of-mass
// motion. It is never below 1.
func DegreesOfFreedom(n int) int {
	return max(3*n-3, 1)
}

// Temperature returns the instantaneous temperature in K.
func Temperature(s *dynamo.System) float64 {
	return 2 * KineticEnergy(s) / (float64(DegreesOfFreedom(s.Len())) * Boltzmann)
}

// Momentum returns the total linear momentum.
func Momentum(s *dynamo.System) r3.Vec {
	var p r3.Vec
	for i, v := range s.Velocities {
		p = r3.Add(p, r3.Scale(s.Atoms[i].Mass, v))
	}
	return p
}

// Energy is the mean total energy over the observed steps.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s *dynamo.System, t, epot float64) {
	e.totalEnergy += KineticEnergy(s) + epot
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation of the total energy from
// its first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *dynamo.System, t, epot float64) {
	energy := KineticEnergy(s) + epot

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MeanTemperature averages the instantaneous temperature.
type MeanTemperature struct {
	name    string
	sum     float64
	samples int
}

func NewMeanTemperature() *MeanTemperature {
	return &MeanTemperature{name: "temperature"}
}

func (m *MeanTemperature) Name() string { return m.name }

func (m *MeanTemperature) Observe(s *dynamo.System, t, epot float64) {
	m.sum += Temperature(s)
	m.samples++
}

func (m *MeanTemperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanTemperature) Reset() {
	m.sum = 0
	m.samples = 0
}

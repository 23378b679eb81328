package sim

import "github.com/san-kum/molsim/internal/dynamo"

// Config controls a single run.
type Config struct {
	// Steps is the number of integration steps after the initial force
	// evaluation.
	Steps int
	// RecordEvery samples the energy series every n steps. Zero means
	// every step.
	RecordEvery int
	// ValidateState stops the run at the first NaN or Inf in positions or
	// velocities.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Steps:         1000,
		RecordEvery:   1,
		ValidateState: true,
	}
}

// Result holds the energy series of a run. Series share their index.
type Result struct {
	Times       []float64
	Potential   []float64
	Kinetic     []float64
	Total       []float64
	Temperature []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

func newResult(capacity int) *Result {
	return &Result{
		Times:       make([]float64, 0, capacity),
		Potential:   make([]float64, 0, capacity),
		Kinetic:     make([]float64, 0, capacity),
		Total:       make([]float64, 0, capacity),
		Temperature: make([]float64, 0, capacity),
		Metrics:     make(map[string]float64),
		Errors:      make([]error, 0),
	}
}

// Callback is invoked after every step. Returning false stops the run.
type Callback func(s *dynamo.System, step int, t, epot float64) bool

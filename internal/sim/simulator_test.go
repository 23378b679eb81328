package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/forcefield"
	"github.com/san-kum/molsim/internal/geom"
	"github.com/san-kum/molsim/internal/integrators"
	"github.com/san-kum/molsim/internal/metrics"
	"gonum.org/v1/gonum/spatial/r3"
)

type zeroForces struct{}

func (zeroForces) Evaluate(pos, forces []r3.Vec) float64 { return 0 }

// blowUp returns NaN forces from the given call onwards.
type blowUp struct {
	after int
	calls int
}

func (b *blowUp) Evaluate(pos, forces []r3.Vec) float64 {
	b.calls++
	if b.calls > b.after {
		for i := range forces {
			forces[i] = r3.Vec{X: math.NaN()}
		}
	}
	return 0
}

type countingObserver struct {
	steps []int
	err   error
}

func (c *countingObserver) OnStep(s *dynamo.System, step int, t, epot float64) error {
	c.steps = append(c.steps, step)
	return c.err
}

func bondSystem(t testing.TB) (*forcefield.ForceField, *dynamo.System) {
	t.Helper()
	ff := forcefield.New(2, geom.Box{})
	if err := ff.Add(forcefield.BondHarmonic{K: 1000, R0: 0.1, Atoms: [2]int{0, 1}}); err != nil {
		t.Fatal(err)
	}
	sys, err := dynamo.NewSystem(
		[]dynamo.Atom{{Index: 0, Mass: 12}, {Index: 1, Mass: 16}},
		[]r3.Vec{{}, {X: 0.11}},
		geom.Box{},
	)
	if err != nil {
		t.Fatal(err)
	}
	return ff, sys
}

func TestSimulatorRun(t *testing.T) {
	ff, sys := bondSystem(t)
	s := New(ff, integrators.NewVelocityVerlet(0.0005), nil)
	s.AddMetric(metrics.NewEnergyDrift())

	result, err := s.Run(context.Background(), sys, Config{Steps: 2000, RecordEvery: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 2000 {
		t.Errorf("steps: got %d, want 2000", result.StepsTaken)
	}
	if len(result.Times) != 201 || len(result.Total) != 201 {
		t.Errorf("expected 201 samples, got %d", len(result.Times))
	}
	if math.Abs(result.Times[200]-1.0) > 1e-9 {
		t.Errorf("final time: got %v, want 1.0", result.Times[200])
	}
	if result.Metrics["energy_drift"] > 1e-3 {
		t.Errorf("energy drift too large: %v", result.Metrics["energy_drift"])
	}
	if result.Potential[0] <= 0 || result.Kinetic[0] != 0 {
		t.Errorf("initial energies: U=%v K=%v", result.Potential[0], result.Kinetic[0])
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	_, sys := bondSystem(t)
	s := New(zeroForces{}, integrators.NewVelocityVerlet(0.001), nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative steps", Config{Steps: -1}},
		{"negative record interval", Config{Steps: 10, RecordEvery: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), sys, tt.cfg); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestSimulatorObserversSeeEveryStep(t *testing.T) {
	_, sys := bondSystem(t)
	s := New(zeroForces{}, integrators.NewVelocityVerlet(0.001), nil)
	obs := &countingObserver{}
	s.AddObserver(obs)

	if _, err := s.Run(context.Background(), sys, Config{Steps: 5}); err != nil {
		t.Fatal(err)
	}
	want := []int{0, 1, 2, 3, 4, 5}
	if len(obs.steps) != len(want) {
		t.Fatalf("observed steps %v, want %v", obs.steps, want)
	}
	for i := range want {
		if obs.steps[i] != want[i] {
			t.Errorf("observed steps %v, want %v", obs.steps, want)
			break
		}
	}
}

func TestSimulatorObserverErrorAborts(t *testing.T) {
	_, sys := bondSystem(t)
	s := New(zeroForces{}, integrators.NewVelocityVerlet(0.001), nil)
	sentinel := errors.New("disk full")
	s.AddObserver(&countingObserver{err: sentinel})

	if _, err := s.Run(context.Background(), sys, Config{Steps: 5}); !errors.Is(err, sentinel) {
		t.Errorf("got %v, want wrapped observer error", err)
	}
}

func TestSimulatorValidateState(t *testing.T) {
	_, sys := bondSystem(t)
	s := New(&blowUp{after: 3}, integrators.NewVelocityVerlet(0.001), nil)

	result, err := s.Run(context.Background(), sys, Config{Steps: 100, ValidateState: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors: got %v", result.Errors)
	}
	var serr dynamo.SimError
	if !errors.As(result.Errors[0], &serr) || serr.Step != 3 {
		t.Errorf("got %v, want SimError at step 3", result.Errors[0])
	}
	if result.StepsTaken != 3 {
		t.Errorf("steps taken: got %d, want 3", result.StepsTaken)
	}
}

func TestSimulatorContextCancel(t *testing.T) {
	_, sys := bondSystem(t)
	s := New(zeroForces{}, integrators.NewVelocityVerlet(0.001), nil)

	ctx, cancel := context.WithCancel(context.Background())
	result, err := s.RunWithCallback(ctx, sys, Config{Steps: 1000}, func(_ *dynamo.System, step int, _, _ float64) bool {
		if step == 10 {
			cancel()
		}
		return true
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if result == nil || result.StepsTaken != 10 {
		t.Errorf("partial result: %+v", result)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	_, sys := bondSystem(t)
	s := New(zeroForces{}, integrators.NewVelocityVerlet(0.001), nil)

	result, err := s.RunWithCallback(context.Background(), sys, Config{Steps: 1000}, func(_ *dynamo.System, step int, _, _ float64) bool {
		return step < 7
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.StepsTaken != 7 {
		t.Errorf("steps taken: got %d, want 7", result.StepsTaken)
	}
}

func TestStepBeforeInitSurfaces(t *testing.T) {
	_, sys := bondSystem(t)
	vv := integrators.NewVelocityVerlet(0.001)
	if _, err := vv.Step(zeroForces{}, sys); !errors.Is(err, dynamo.ErrNotInitialized) {
		t.Errorf("got %v, want ErrNotInitialized", err)
	}
}

func TestEnsemble(t *testing.T) {
	factory := func(seed int64) (*Simulator, *dynamo.System, error) {
		ff, sys := bondSystem(t)
		sys.Velocities[0] = r3.Vec{Y: 0.01 * float64(seed)}
		return New(ff, integrators.NewVelocityVerlet(0.001), nil), sys, nil
	}

	results, err := NewEnsemble(factory, 4, 1).Run(context.Background(), Config{Steps: 50})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("results: got %d, want 4", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Kinetic[0] <= results[i-1].Kinetic[0] {
			t.Errorf("replica %d kinetic %v not above replica %d %v", i, results[i].Kinetic[0], i-1, results[i-1].Kinetic[0])
		}
	}
}

func TestEnsembleFactoryError(t *testing.T) {
	boom := errors.New("boom")
	factory := func(seed int64) (*Simulator, *dynamo.System, error) {
		if seed == 2 {
			return nil, nil, boom
		}
		ff, sys := bondSystem(t)
		return New(ff, integrators.NewVelocityVerlet(0.001), nil), sys, nil
	}
	if _, err := NewEnsemble(factory, 3, 0).Run(context.Background(), Config{Steps: 10}); !errors.Is(err, boom) {
		t.Errorf("got %v, want factory error", err)
	}
}

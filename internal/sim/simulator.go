package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/logging"
	"github.com/san-kum/molsim/internal/metrics"
)

// Simulator drives an integrator over a force field and feeds every step
// to its metrics and observers.
type Simulator struct {
	ff         dynamo.Evaluator
	integrator dynamo.Integrator
	log        logging.Logger
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(ff dynamo.Evaluator, integrator dynamo.Integrator, log logging.Logger) *Simulator {
	if log == nil {
		log = logging.NewNoOp()
	}
	return &Simulator{
		ff:         ff,
		integrator: integrator,
		log:        log,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Integrator() dynamo.Integrator { return s.integrator }

// Run evaluates the initial forces, then takes cfg.Steps steps. The
// context is checked between steps; on cancellation the partial result is
// returned with the context error.
func (s *Simulator) Run(ctx context.Context, sys *dynamo.System, cfg Config) (*Result, error) {
	var result *Result
	err := s.run(ctx, sys, cfg, func(r *Result) { result = r }, nil)
	return result, err
}

// RunWithCallback is Run with a per-step callback that may stop the run
// early.
func (s *Simulator) RunWithCallback(ctx context.Context, sys *dynamo.System, cfg Config, callback Callback) (*Result, error) {
	var result *Result
	err := s.run(ctx, sys, cfg, func(r *Result) { result = r }, callback)
	return result, err
}

func (s *Simulator) run(ctx context.Context, sys *dynamo.System, cfg Config, out func(*Result), callback Callback) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	every := cfg.RecordEvery
	if every == 0 {
		every = 1
	}

	result := newResult(cfg.Steps/every + 1)
	out(result)

	for _, m := range s.metrics {
		m.Reset()
	}

	epot := s.integrator.Init(s.ff, sys)
	if err := s.observe(sys, 0, epot); err != nil {
		return err
	}
	s.record(result, sys, epot)
	if callback != nil && !callback(sys, 0, s.integrator.Time(), epot) {
		s.finish(result)
		return nil
	}

	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return ctx.Err()
		default:
		}

		var err error
		epot, err = s.integrator.Step(s.ff, sys)
		if err != nil {
			return err
		}
		result.StepsTaken++

		if cfg.ValidateState && !sys.IsValid() {
			serr := dynamo.SimError{Time: s.integrator.Time(), Step: i, Message: dynamo.ErrInvalidState.Error()}
			result.Errors = append(result.Errors, serr)
			s.log.Warnf("stopping: %v", serr)
			break
		}

		if err := s.observe(sys, i, epot); err != nil {
			return err
		}
		if i%every == 0 {
			s.record(result, sys, epot)
		}
		if callback != nil && !callback(sys, i, s.integrator.Time(), epot) {
			break
		}
	}

	s.finish(result)
	return nil
}

func (s *Simulator) observe(sys *dynamo.System, step int, epot float64) error {
	t := s.integrator.Time()
	for _, m := range s.metrics {
		m.Observe(sys, t, epot)
	}
	for _, obs := range s.observers {
		if err := obs.OnStep(sys, step, t, epot); err != nil {
			return fmt.Errorf("observer at step %d: %w", step, err)
		}
	}
	return nil
}

func (s *Simulator) record(r *Result, sys *dynamo.System, epot float64) {
	ke := metrics.KineticEnergy(sys)
	r.Times = append(r.Times, s.integrator.Time())
	r.Potential = append(r.Potential, epot)
	r.Kinetic = append(r.Kinetic, ke)
	r.Total = append(r.Total, ke+epot)
	r.Temperature = append(r.Temperature, metrics.Temperature(sys))
}

func (s *Simulator) finish(r *Result) {
	r.EnergyDrift = metrics.RelativeDrift(r.Total)
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	s.log.Infof("run finished: %d steps, t=%.4f, energy drift %.3g", r.StepsTaken, s.integrator.Time(), r.EnergyDrift)
}

func validateConfig(cfg Config) error {
	if cfg.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", cfg.Steps)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must be non-negative, got %d", cfg.RecordEvery)
	}
	return nil
}

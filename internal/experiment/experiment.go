package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/forcefield"
	"github.com/san-kum/molsim/internal/logging"
	"github.com/san-kum/molsim/internal/sim"
	"github.com/san-kum/molsim/internal/topology"
	"github.com/san-kum/molsim/internal/trajectory"
	"gonum.org/v1/gonum/spatial/r3"
)

// Experiment wires a config file into a ready-to-run simulation: topology,
// force field, starting system, integrator, metrics and trajectory output.
type Experiment struct {
	cfg       *config.Config
	log       logging.Logger
	registry  *Registry
	top       *topology.Topology
	ff        *forcefield.ForceField
	evaluator dynamo.Evaluator
	system    *dynamo.System
	simulator *sim.Simulator
	traj      *trajectory.Writer
}

func New(cfg *config.Config, log logging.Logger) *Experiment {
	if log == nil {
		log = logging.NewNoOp()
	}
	return &Experiment{
		cfg:      cfg,
		log:      log,
		registry: NewRegistry(),
	}
}

// Prepare loads the topology and coordinates and builds the force field and
// starting system, without creating an integrator or opening output files.
func (e *Experiment) Prepare() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	top, err := topology.Load(e.cfg.Topology)
	if err != nil {
		return fmt.Errorf("load topology: %w", err)
	}
	ff, atoms, err := forcefield.Build(top, e.log)
	if err != nil {
		return fmt.Errorf("build force field: %w", err)
	}

	box, coords, err := trajectory.LoadCoords(e.cfg.Coordinates)
	if err != nil {
		return fmt.Errorf("load coordinates: %w", err)
	}
	if !box.Periodic() {
		box = top.Box()
	}
	ff.Box = box

	sys, err := dynamo.NewSystem(atoms, coords, box)
	if err != nil {
		return err
	}
	for _, a := range atoms {
		if a.Mass <= 0 {
			return fmt.Errorf("%w: atom %d (%s) has mass %g", dynamo.ErrBadParameter, a.Index+1, a.Name, a.Mass)
		}
	}
	InitVelocities(sys, e.cfg.Temperature, rand.New(rand.NewSource(e.cfg.Seed)))

	e.top = top
	e.ff = ff
	e.system = sys
	e.evaluator = newEvaluator(ff, e.cfg.Workers)
	e.log.Infof("system ready: %d atoms, %d interactions, box %v", sys.Len(), ff.Len(), box.L)
	return nil
}

// Setup prepares the system and assembles the simulator around it.
func (e *Experiment) Setup() error {
	if err := e.Prepare(); err != nil {
		return err
	}

	simulator, err := e.newSimulator()
	if err != nil {
		return err
	}

	if path := e.cfg.Output.Trajectory; path != "" {
		w, err := trajectory.Open(path, e.cfg.Output.Stride, !e.cfg.Output.Append)
		if err != nil {
			return fmt.Errorf("open trajectory: %w", err)
		}
		e.traj = w
		simulator.AddObserver(w)
	}

	e.simulator = simulator
	return nil
}

func (e *Experiment) newSimulator() (*sim.Simulator, error) {
	integ, err := e.NewIntegrator()
	if err != nil {
		return nil, err
	}
	s := sim.New(e.evaluator, integ, e.log)
	for _, m := range e.registry.Metrics() {
		s.AddMetric(m)
	}
	return s, nil
}

// NewIntegrator returns a fresh integrator of the configured kind.
func (e *Experiment) NewIntegrator() (dynamo.Integrator, error) {
	return e.registry.GetIntegrator(e.cfg.Integrator, e.cfg.Dt)
}

func (e *Experiment) simConfig() sim.Config {
	return sim.Config{
		Steps:         e.cfg.Steps,
		RecordEvery:   e.cfg.Output.RecordEvery,
		ValidateState: e.cfg.ValidateState,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.system, e.simConfig())
}

func (e *Experiment) RunWithCallback(ctx context.Context, callback sim.Callback) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.RunWithCallback(ctx, e.system, e.simConfig(), callback)
}

// RunReplicas runs n independent copies of the prepared system, each with
// velocities drawn from its own seed starting at the configured one. No
// trajectory is written for replicas.
func (e *Experiment) RunReplicas(ctx context.Context, n int) ([]*sim.Result, error) {
	if e.system == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if n < 1 {
		return nil, fmt.Errorf("replica count must be positive, got %d", n)
	}
	return sim.NewEnsemble(e.replica, n, e.cfg.Seed).Run(ctx, e.simConfig())
}

func (e *Experiment) replica(seed int64) (*sim.Simulator, *dynamo.System, error) {
	sys, err := dynamo.NewSystem(e.system.Atoms, e.system.Positions, e.system.Box)
	if err != nil {
		return nil, nil, err
	}
	InitVelocities(sys, e.cfg.Temperature, rand.New(rand.NewSource(seed)))
	s, err := e.newSimulator()
	if err != nil {
		return nil, nil, err
	}
	return s, sys, nil
}

// SinglePoint evaluates the prepared system once, returning the total
// potential energy, its split by interaction kind and the forces.
func (e *Experiment) SinglePoint() (float64, map[forcefield.Kind]float64, []r3.Vec, error) {
	if e.system == nil {
		return 0, nil, nil, fmt.Errorf("experiment not setup")
	}
	forces := make([]r3.Vec, e.system.Len())
	epot := e.evaluator.Evaluate(e.system.Positions, forces)
	return epot, e.ff.EnergyByKind(e.system.Positions), forces, nil
}

// Close flushes and closes the trajectory, if any.
func (e *Experiment) Close() error {
	if e.traj == nil {
		return nil
	}
	err := e.traj.Close()
	e.traj = nil
	return err
}

func (e *Experiment) Config() *config.Config             { return e.cfg }
func (e *Experiment) Topology() *topology.Topology       { return e.top }
func (e *Experiment) ForceField() *forcefield.ForceField { return e.ff }
func (e *Experiment) System() *dynamo.System             { return e.system }
func (e *Experiment) Registry() *Registry                { return e.registry }
func (e *Experiment) Evaluator() dynamo.Evaluator        { return e.evaluator }
func (e *Experiment) Trajectory() *trajectory.Writer     { return e.traj }

// Bonds lists the atom pairs of every harmonic bond, for drawing.
func (e *Experiment) Bonds() [][2]int {
	if e.ff == nil {
		return nil
	}
	list := e.ff.Bonds()
	bonds := make([][2]int, len(list))
	for i, b := range list {
		bonds[i] = b.Atoms
	}
	return bonds
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// newEvaluator returns ff itself for a single worker and a parallel
// evaluator otherwise. workers == 0 uses every CPU.
func newEvaluator(ff *forcefield.ForceField, workers int) dynamo.Evaluator {
	if workers == 1 {
		return ff
	}
	return forcefield.NewParallel(ff, workers)
}

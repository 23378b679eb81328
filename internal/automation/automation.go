// Package automation runs scripted sequences of simulations and parameter
// sweeps over a base configuration.
package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/experiment"
	"github.com/san-kum/molsim/internal/logging"
	"github.com/san-kum/molsim/internal/metrics"
	"github.com/san-kum/molsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one config file, optionally with numeric overrides.
// Config paths are relative to the scenario file.
type ScenarioStep struct {
	Config string             `yaml:"config"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Name   string
	Config *config.Config
	NAtoms int
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// RunScenario executes all steps in order. baseDir is the directory the
// step config paths are relative to. The results of the steps completed
// before a failure are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, baseDir string, log logging.Logger) ([]StepResult, error) {
	if log == nil {
		log = logging.NewNoOp()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		path := step.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		cfg, err := config.Load(path)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		cfg.Resolve(filepath.Dir(path))
		for k, v := range step.Params {
			if err := cfg.SetParam(k, v); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s-%d", scenario.Name, i+1)
		}
		log.Infof("scenario %s: step %d/%d (%s)", scenario.Name, i+1, len(scenario.Steps), name)

		result, natoms, err := runOnce(ctx, cfg, log)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, StepResult{Name: name, Config: cfg, NAtoms: natoms, Result: result})
	}

	return results, nil
}

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult summarises one sweep point.
type SweepResult struct {
	ParamValue  float64
	StepsTaken  int
	EnergyDrift float64
	MinEnergy   float64
	MaxEnergy   float64
	Stable      bool
}

// RunSweep runs base once per parameter value, evenly spaced from ParamMin
// to ParamMax inclusive. A point whose run blows up is reported unstable
// rather than failing the sweep.
func RunSweep(ctx context.Context, base *config.Config, sweep *ParameterSweep, log logging.Logger) ([]SweepResult, error) {
	if log == nil {
		log = logging.NewNoOp()
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one point, got %d", sweep.NumSteps)
	}
	if err := base.Clone().SetParam(sweep.ParamName, sweep.ParamMin); err != nil {
		return nil, err
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := base.Clone()
		cfg.Output.Trajectory = ""
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		result, _, err := runOnce(ctx, cfg, log)
		if err != nil {
			return results, err
		}

		sum := metrics.Summarize(result.Total)
		results = append(results, SweepResult{
			ParamValue:  paramVal,
			StepsTaken:  result.StepsTaken,
			EnergyDrift: result.EnergyDrift,
			MinEnergy:   sum.Min,
			MaxEnergy:   sum.Max,
			Stable:      len(result.Errors) == 0 && result.Metrics["stability"] == 1,
		})
		log.Infof("sweep %d/%d: %s=%.4g drift=%.3g", i+1, sweep.NumSteps, sweep.ParamName, paramVal, result.EnergyDrift)
	}

	return results, nil
}

// runOnce sets up, runs and closes a single experiment, returning its
// result and atom count.
func runOnce(ctx context.Context, cfg *config.Config, log logging.Logger) (*sim.Result, int, error) {
	exp := experiment.New(cfg, log)
	if err := exp.Setup(); err != nil {
		return nil, 0, err
	}
	result, err := exp.Run(ctx)
	if cerr := exp.Close(); err == nil {
		err = cerr
	}
	return result, exp.System().Len(), err
}

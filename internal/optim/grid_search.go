// Package optim searches run settings for the values that minimise a run
// metric, such as the largest time step that still conserves energy.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/experiment"
)

// BuildFunc returns a set-up experiment for one point of the grid.
type BuildFunc func(params map[string]float64) (*experiment.Experiment, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	failed     int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Failed is the number of grid points of the last search whose experiment
// could not be built or run.
func (g *GridSearch) Failed() int { return g.failed }

// Search evaluates every combination of parameter values and returns the
// one with the smallest metricName. Points that fail to build or run are
// skipped; an error is returned only if none succeeded or ctx was
// cancelled.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment BuildFunc,
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%d parameter names for %d ranges", len(g.paramNames), len(g.ranges))
	}
	g.failed = 0

	best := math.Inf(1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no grid point produced metric %q (%d failed)", metricName, g.failed)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment BuildFunc,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		val, ok := g.evaluate(ctx, current, buildExperiment, metricName)
		if ok && val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, params map[string]float64, build BuildFunc, metricName string) (float64, bool) {
	exp, err := build(params)
	if err != nil {
		g.failed++
		return 0, false
	}
	defer exp.Close()

	result, err := exp.Run(ctx)
	if err != nil || len(result.Errors) > 0 {
		g.failed++
		return 0, false
	}
	val, ok := result.Metrics[metricName]
	if !ok || math.IsNaN(val) {
		g.failed++
		return 0, false
	}
	return val, true
}

// ConfigBuilder returns a BuildFunc that applies the grid point to a copy
// of base. Grid runs never write a trajectory.
func ConfigBuilder(base *config.Config) BuildFunc {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		cfg.Output.Trajectory = ""
		for k, v := range params {
			if err := cfg.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg, nil)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

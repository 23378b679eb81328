package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/integrators"
	"github.com/san-kum/molsim/internal/metrics"
)

// StabilityThreshold is the atom speed, in nm/ps, above which a step counts
// as unstable.
const StabilityThreshold = 100.0

type Registry struct {
	integrators map[string]func(dt float64) dynamo.Integrator
	metrics     map[string]func() dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func(dt float64) dynamo.Integrator),
		metrics:     make(map[string]func() dynamo.Metric),
	}

	r.integrators["verlet"] = func(dt float64) dynamo.Integrator { return integrators.NewVelocityVerlet(dt) }
	r.integrators["leapfrog"] = func(dt float64) dynamo.Integrator { return integrators.NewLeapfrog(dt) }

	r.metrics["energy"] = func() dynamo.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() dynamo.Metric { return metrics.NewEnergyDrift() }
	r.metrics["temperature"] = func() dynamo.Metric { return metrics.NewMeanTemperature() }
	r.metrics["stability"] = func() dynamo.Metric { return metrics.NewStability(StabilityThreshold) }
	r.metrics["momentum_drift"] = func() dynamo.Metric { return metrics.NewMomentumDrift() }

	return r
}

func (r *Registry) GetIntegrator(name string, dt float64) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(dt), nil
}

func (r *Registry) GetMetric(name string) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

// Metrics returns a fresh instance of every registered metric, sorted by
// name.
func (r *Registry) Metrics() []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package optim

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/experiment"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join("testdata", "run.yaml")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Resolve(filepath.Dir(path))
	return cfg
}

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"dt", "temperature"}, [][]float64{{0.0001, 0.0002}, {50, 100}})

	calls := 0
	build := ConfigBuilder(baseConfig(t))
	params, best, err := g.Search(context.Background(), func(p map[string]float64) (*experiment.Experiment, error) {
		calls++
		return build(p)
	}, "energy_drift")
	if err != nil {
		t.Fatal(err)
	}
	if calls != 4 {
		t.Errorf("evaluations: got %d, want 4", calls)
	}
	if len(params) != 2 {
		t.Errorf("best params: %v", params)
	}
	if best < 0 {
		t.Errorf("best drift: %v", best)
	}
	if g.Failed() != 0 {
		t.Errorf("failed points: %d", g.Failed())
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	g := NewGridSearch([]string{"dt"}, [][]float64{{-1, 0.0002}})
	params, _, err := g.Search(context.Background(), ConfigBuilder(baseConfig(t)), "energy_drift")
	if err != nil {
		t.Fatal(err)
	}
	if params["dt"] != 0.0002 {
		t.Errorf("best dt: %v", params["dt"])
	}
	if g.Failed() != 1 {
		t.Errorf("failed points: got %d, want 1", g.Failed())
	}
}

func TestGridSearchAllFailed(t *testing.T) {
	g := NewGridSearch([]string{"dt"}, [][]float64{{0.0002}})
	if _, _, err := g.Search(context.Background(), ConfigBuilder(baseConfig(t)), "no_such_metric"); err == nil {
		t.Error("expected error when no point succeeds")
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"dt"}, [][]float64{{0.0002}})
	if _, _, err := g.Search(ctx, ConfigBuilder(baseConfig(t)), "energy_drift"); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/molsim/internal/analysis"
	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/forcefield"
	"github.com/san-kum/molsim/internal/geom"
	"github.com/san-kum/molsim/internal/integrators"
	"github.com/san-kum/molsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCanvasSetAndLine(t *testing.T) {
	c := NewCanvas(3, 2)
	if c.DotWidth() != 6 || c.DotHeight() != 8 {
		t.Fatalf("dot size: %dx%d", c.DotWidth(), c.DotHeight())
	}

	c.DrawLine(0, 0, 5, 0)
	for x := 0; x < 6; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("dot (%d,0) not set", x)
		}
	}
	if c.IsSet(0, 1) {
		t.Error("dot (0,1) should be clear")
	}

	c.Set(-1, 3)
	c.Set(100, 3)
	c.Clear()
	if strings.Count(c.String(), "\n") != 2 {
		t.Errorf("rows: %q", c.String())
	}
	for _, r := range c.String() {
		if r != '⠀' && r != '\n' {
			t.Fatalf("canvas not clear: %q", c.String())
		}
	}
}

func TestCameraProjectsCenterToMiddle(t *testing.T) {
	cam := NewCamera()
	cam.Fit([]r3.Vec{{X: 1, Y: 1, Z: 1}, {X: 3, Y: 3, Z: 3}})

	x, y, _, ok := cam.Project(r3.Vec{X: 2, Y: 2, Z: 2}, 100, 80)
	if !ok || x != 50 || y != 40 {
		t.Errorf("got (%d,%d,%v), want (50,40,true)", x, y, ok)
	}
}

func TestMoleculeWireframe(t *testing.T) {
	pos := []r3.Vec{{X: 0.1}, {X: 0.2}, {X: 2.9}}
	bonds := [][2]int{{0, 1}, {0, 2}}

	open := MoleculeWireframe(pos, bonds, geom.Box{})
	if len(open.Edges) != 5 {
		t.Errorf("open edges: got %d, want 5", len(open.Edges))
	}

	boxed := MoleculeWireframe(pos, bonds, geom.NewBox(3, 3, 3))
	if len(boxed.Edges) != 5+12 {
		t.Errorf("boxed edges: got %d, want 17", len(boxed.Edges))
	}
	// the 0-2 bond crosses the boundary and is drawn to the nearest image
	if end := boxed.Edges[4].End; end.X > 0 {
		t.Errorf("bond end: got %v, want the image at -0.1", end)
	}

	c := NewCanvas(20, 10)
	cam := NewCamera()
	cam.Fit(open.Points())
	Render3D(c, open, cam)
	if strings.Trim(c.String(), "⠀\n") == "" {
		t.Error("nothing rendered")
	}
}

func TestSparklineChart(t *testing.T) {
	out := SparklineChart([]float64{1, 2, 3, 4, 5}, 3)
	if n := strings.Count(out, "▁") + strings.Count(out, "▄") + strings.Count(out, "█"); n != 3 {
		t.Errorf("got %q", out)
	}
	if SparklineChart(nil, 4) != "────" {
		t.Error("empty sparkline")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("retro").Name != "retro" {
		t.Error("retro theme not found")
	}
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}

	start := CurrentTheme
	defer ApplyTheme(start)
	seen := map[string]bool{}
	for range Themes {
		ApplyTheme(NextTheme())
		seen[CurrentTheme.Name] = true
	}
	if len(seen) != len(Themes) {
		t.Errorf("cycled through %d of %d themes", len(seen), len(Themes))
	}
}

func sampleResult() *sim.Result {
	r := &sim.Result{Metrics: map[string]float64{}}
	for i := 0; i < 20; i++ {
		ts := float64(i) * 0.01
		r.Times = append(r.Times, ts)
		r.Potential = append(r.Potential, -5+ts)
		r.Kinetic = append(r.Kinetic, 2-ts)
		r.Total = append(r.Total, -3)
		r.Temperature = append(r.Temperature, 300)
	}
	return r
}

func TestEnergyGraph(t *testing.T) {
	if out := EnergyGraph(sampleResult(), 40, 6); !strings.Contains(out, "energy") {
		t.Errorf("missing caption in %q", out)
	}
	if EnergyGraph(&sim.Result{}, 40, 6) != "" {
		t.Error("empty result should render nothing")
	}
}

func TestSavePlots(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"energy.png", "energy.svg"} {
		path := filepath.Join(dir, name)
		if err := SaveEnergyPlot(path, "test", sampleResult()); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	portrait := analysis.NewPortrait([]float64{-1, 0, 1}, []float64{1, 0, -1})
	if err := SavePortraitPlot(filepath.Join(dir, "rama.png"), "rama", "phi", "psi", portrait); err != nil {
		t.Fatal(err)
	}
	if err := SaveEnergyPlot(filepath.Join(dir, "x.png"), "x", &sim.Result{}); err == nil {
		t.Error("expected error for empty result")
	}
}

func TestLiveModelAdvances(t *testing.T) {
	ff := forcefield.New(2, geom.Box{})
	if err := ff.Add(forcefield.BondHarmonic{K: 1000, R0: 0.1, Atoms: [2]int{0, 1}}); err != nil {
		t.Fatal(err)
	}
	atoms := []dynamo.Atom{{Mass: 1}, {Index: 1, Mass: 1}}
	sys, err := dynamo.NewSystem(atoms, []r3.Vec{{}, {X: 0.11}}, geom.Box{})
	if err != nil {
		t.Fatal(err)
	}

	m := NewModel(ff, integrators.NewVelocityVerlet(0.001), sys, [][2]int{{0, 1}},
		LiveOptions{Title: "bond", StepsPerFrame: 5, MaxSteps: 12})
	if m.Init() == nil {
		t.Fatal("Init should schedule a tick")
	}

	var model tea.Model = m
	for i := 0; i < 4; i++ {
		model, _ = model.Update(TickMsg(time.Now()))
	}
	live := model.(Model)
	if got := live.integ.Steps(); got != 12 {
		t.Errorf("steps: got %d, want 12", got)
	}
	if live.running {
		t.Error("model should stop at MaxSteps")
	}
	if !strings.Contains(live.View(), "DONE") {
		t.Error("view should report DONE")
	}

	model, _ = live.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if sys.Positions[1] != (r3.Vec{X: 0.11}) {
		t.Errorf("reset positions: got %v", sys.Positions[1])
	}

	if _, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd == nil {
		t.Error("q should quit")
	}
}

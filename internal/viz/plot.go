package viz

import (
	"fmt"

	"github.com/san-kum/molsim/internal/analysis"
	"github.com/san-kum/molsim/internal/sim"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SaveEnergyPlot writes the energy series of r as an image. The format
// follows the extension of path (png, svg, pdf, ...).
func SaveEnergyPlot(path, title string, r *sim.Result) error {
	if r == nil || len(r.Times) == 0 {
		return fmt.Errorf("no samples to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (ps)"
	p.Y.Label.Text = "E (kJ/mol)"
	p.Add(plotter.NewGrid())

	series := []struct {
		name   string
		values []float64
	}{
		{"potential", r.Potential},
		{"kinetic", r.Kinetic},
		{"total", r.Total},
	}
	for i, s := range series {
		line, err := plotter.NewLine(xys(r.Times, s.values))
		if err != nil {
			return fmt.Errorf("%s series: %w", s.name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// SavePortraitPlot writes a scatter plot of a portrait, e.g. two dihedral
// angles against each other.
func SavePortraitPlot(path, title, xLabel, yLabel string, portrait *analysis.Portrait) error {
	if portrait == nil || len(portrait.Points) == 0 {
		return fmt.Errorf("no points to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(portrait.Points))
	for i, pt := range portrait.Points {
		pts[i].X, pts[i].Y = pt.X, pt.Y
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = plotutil.Color(0)
	s.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(s)

	return p.Save(5*vg.Inch, 5*vg.Inch, path)
}

func xys(xs, ys []float64) plotter.XYs {
	n := min(len(xs), len(ys))
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	return pts
}

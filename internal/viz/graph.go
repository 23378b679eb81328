package viz

import (
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/molsim/internal/sim"
)

// EnergyGraph plots the potential, kinetic and total energy of a result as
// a terminal line chart.
func EnergyGraph(r *sim.Result, width, height int) string {
	if r == nil || len(r.Total) < 2 {
		return ""
	}
	return asciigraph.PlotMany(
		[][]float64{r.Potential, r.Kinetic, r.Total},
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
		asciigraph.SeriesLegends("potential", "kinetic", "total"),
		asciigraph.Caption("energy (kJ/mol)"),
	)
}

// SeriesGraph plots one series with a caption.
func SeriesGraph(values []float64, caption string, width, height int) string {
	if len(values) < 2 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/molsim/internal/viz"
)

// CanvasToSVG draws every set dot of a braille canvas as a circle. scale is
// the dot pitch in SVG units.
func CanvasToSVG(w io.Writer, canvas *viz.Canvas, scale float64, fill string) error {
	if canvas == nil {
		return fmt.Errorf("nil canvas")
	}

	width := float64(canvas.DotWidth()) * scale
	height := float64(canvas.DotHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, fill)

	r := scale * 0.4
	for y := 0; y < canvas.DotHeight(); y++ {
		for x := 0; x < canvas.DotWidth(); x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// SeriesToSVG draws ys against xs as a single polyline scaled to fill a
// width x height image.
func SeriesToSVG(w io.Writer, xs, ys []float64, width, height int, stroke string) error {
	n := min(len(xs), len(ys))
	if n < 2 {
		return fmt.Errorf("need at least 2 points, got %d", n)
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 0; i < n; i++ {
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, ys[i]), max(maxY, ys[i])
	}

	// pad by 10% on every side
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, stroke)

	for i := 0; i < n; i++ {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString("\"/>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(46)

	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	statusRunning  = lipgloss.NewStyle().Bold(true)
	statusPaused   = lipgloss.NewStyle().Bold(true)
	statusUnstable = lipgloss.NewStyle().Bold(true).Blink(true)

	sparkHigh = lipgloss.NewStyle()
	sparkMid  = lipgloss.NewStyle()
	sparkLow  = lipgloss.NewStyle()
)

func init() {
	ApplyTheme(CurrentTheme)
}

// ApplyTheme recolours every style and makes t the current theme.
func ApplyTheme(t Theme) {
	CurrentTheme = t
	headerStyle = headerStyle.Foreground(t.Primary)
	graphStyle = graphStyle.Foreground(t.Secondary)
	helpStyle = helpStyle.Foreground(t.Muted)
	statusRunning = statusRunning.Foreground(t.Success)
	statusPaused = statusPaused.Foreground(t.Warning)
	statusUnstable = statusUnstable.Foreground(t.Error)
	sparkHigh = sparkHigh.Foreground(t.Error)
	sparkMid = sparkMid.Foreground(t.Warning)
	sparkLow = sparkLow.Foreground(t.Success)
}

// GradientText colours each character of text along a linear gradient
// between two hex colours.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	n := max(len(runes)-1, 1)
	for i, c := range runes {
		t := float64(i) / float64(n)
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b)))
		result.WriteString(style.Render(string(c)))
	}
	return result.String()
}

// ProgressBar renders fraction in [0, 1] as a bar of width cells.
func ProgressBar(fraction float64, width int) string {
	filled := min(max(int(fraction*float64(width)), 0), width)
	return valueStyle.Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}

// SparklineChart renders the last width values as a one-line sparkline,
// coloured by height.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		c := string(chars[min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)])
		switch {
		case norm > 0.7:
			result.WriteString(sparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(sparkMid.Render(c))
		default:
			result.WriteString(sparkLow.Render(c))
		}
	}
	return result.String()
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	clamp := func(v int) int { return min(max(v, 0), 255) }
	return "#" + hexByte(clamp(r)) + hexByte(clamp(g)) + hexByte(clamp(b))
}

func hexByte(v int) string {
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}

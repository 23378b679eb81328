package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/metrics"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 600
	frameRate       = 30
)

type TickMsg time.Time

// LiveOptions configures a live view.
type LiveOptions struct {
	Title string
	// StepsPerFrame is the number of integration steps between redraws.
	StepsPerFrame int
	// MaxSteps stops integrating after this many steps; 0 runs until quit.
	MaxSteps int
	// GIFPath is where the G key saves its recording.
	GIFPath string
}

// Model is a bubbletea model that integrates a system and draws it as a
// rotating wireframe next to its energy history.
type Model struct {
	ff     dynamo.Evaluator
	integ  dynamo.Integrator
	sys    *dynamo.System
	bonds  [][2]int
	opts   LiveOptions
	canvas *Canvas
	camera *Camera

	initialPos []r3.Vec
	initialVel []r3.Vec

	epot        float64
	total       []float64
	temperature []float64
	running     bool
	unstable    bool
	showHelp    bool
	err         error

	recording bool
	frames    []*image.Paletted
}

// NewModel evaluates the initial forces and returns a running live view.
func NewModel(ff dynamo.Evaluator, integ dynamo.Integrator, sys *dynamo.System, bonds [][2]int, opts LiveOptions) Model {
	if opts.StepsPerFrame < 1 {
		opts.StepsPerFrame = 1
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "molsim.gif"
	}

	m := Model{
		ff:          ff,
		integ:       integ,
		sys:         sys,
		bonds:       bonds,
		opts:        opts,
		canvas:      NewCanvas(canvasWidth, canvasHeight),
		camera:      NewCamera(),
		initialPos:  sys.Snapshot(),
		initialVel:  append([]r3.Vec(nil), sys.Velocities...),
		total:       make([]float64, 0, historyCapacity),
		temperature: make([]float64, 0, historyCapacity),
		running:     true,
	}
	m.epot = integ.Init(ff, sys)
	m.camera.Fit(MoleculeWireframe(sys.Positions, bonds, sys.Box).Points())
	m.record()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles keys and advances the integration on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running && !m.unstable
		case "r":
			m.reset()
		case "g":
			if m.recording {
				m.saveGIF()
				m.frames = nil
			} else {
				m.frames = make([]*image.Paletted, 0)
			}
			m.recording = !m.recording
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			ApplyTheme(NextTheme())
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) done() bool {
	return m.opts.MaxSteps > 0 && m.integ.Steps() >= m.opts.MaxSteps
}

// advance takes StepsPerFrame steps, stopping at the first invalid state.
func (m *Model) advance() {
	for i := 0; i < m.opts.StepsPerFrame && !m.done(); i++ {
		epot, err := m.integ.Step(m.ff, m.sys)
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.epot = epot
		if !m.sys.IsValid() {
			m.unstable = true
			m.running = false
			break
		}
	}
	m.record()
	if m.done() {
		m.running = false
	}
}

func (m *Model) record() {
	m.total = appendRing(m.total, metrics.KineticEnergy(m.sys)+m.epot)
	m.temperature = appendRing(m.temperature, metrics.Temperature(m.sys))
}

func appendRing(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// reset restores the starting positions and velocities.
func (m *Model) reset() {
	copy(m.sys.Positions, m.initialPos)
	copy(m.sys.Velocities, m.initialVel)
	m.epot = m.integ.Init(m.ff, m.sys)
	m.total = m.total[:0]
	m.temperature = m.temperature[:0]
	m.unstable = false
	m.err = nil
	m.running = true
	m.record()
}

func (m *Model) draw() {
	m.canvas.Clear()
	Render3D(m.canvas, MoleculeWireframe(m.sys.Positions, m.bonds, m.sys.Box), m.camera)
}

// View renders the molecule next to the run statistics.
func (m Model) View() string {
	status := statusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = statusUnstable.Render("ERROR: " + m.err.Error())
	case m.unstable:
		status = statusUnstable.Render("UNSTABLE")
	case m.done():
		status = statusPaused.Render("DONE")
	case !m.running:
		status = statusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + statusUnstable.Render("● REC")
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(GradientText(strings.ToUpper(m.opts.Title), CurrentTheme.Primary, CurrentTheme.Secondary)) + "\n")
	s.WriteString(status + "\n")
	if m.opts.MaxSteps > 0 {
		s.WriteString(ProgressBar(float64(m.integ.Steps())/float64(m.opts.MaxSteps), 30) + "\n")
	}
	if chart := SeriesGraph(m.total, "total energy (kJ/mol)", 30, 5); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	kin := metrics.KineticEnergy(m.sys)
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.4f ps", m.integ.Time()))
	row("Step", fmt.Sprintf("%d", m.integ.Steps()))
	row("Atoms", fmt.Sprintf("%d", m.sys.Len()))
	row("Potential", fmt.Sprintf("%.4f", m.epot))
	row("Kinetic", fmt.Sprintf("%.4f", kin))
	row("Total", fmt.Sprintf("%.4f", m.epot+kin))
	row("Temperature", fmt.Sprintf("%.1f K", metrics.Temperature(m.sys)))
	s.WriteString("\n" + SparklineChart(m.temperature, 30) + "\n")
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help\nXYZ:Rotate +-:Zoom"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space    pause or resume
  R        restore the starting state
  Q        quit
  X/Y/Z    rotate (shift reverses)
  + / -    zoom
  G        start or stop GIF recording
  T        cycle themes
  ?        toggle this help
`

// captureFrame rasterises the canvas into a two-colour GIF frame.
func (m *Model) captureFrame() {
	const charW, charH = 8, 16
	dotW, dotH := charW/2, charH/4
	img := image.NewPaletted(image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH),
		color.Palette{color.Black, color.White})
	for y := 0; y < m.canvas.DotHeight(); y++ {
		for x := 0; x < m.canvas.DotWidth(); x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 100/frameRate)
	}
	f, err := os.Create(m.opts.GIFPath)
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.err = err
	}
}

// RunLive runs the live view until the user quits.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/control"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/experiment"
	"github.com/san-kum/ropesim/internal/sim"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 600

	// World area shown at scale 1, matching the desktop window.
	worldWidth  = 800.0
	worldHeight = 600.0
)

// Snapshot stores a frame for replay.
type Snapshot struct {
	Positions []dynamo.Vec2
	Time      float64
	Energy    float64
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model runs one chain in the terminal. The left mouse button drags the free
// end; releasing it hands the end back to the configured driver.
type Model struct {
	sim           *sim.Simulator
	driver        dynamo.Driver
	hand          *control.Manual
	name          string
	canvas        *Canvas
	view          Viewport
	running       bool
	lastTick      time.Time
	initialParams dynamo.Params
	paramKeys     []string
	driverKeys    []string
	selected      int
	energyHistory []float64
	history       []Snapshot
	playHead      int
	recorder      *Recorder
	showHelp      bool
	err           error
}

// tunable drivers expose their settings to the parameter panel.
type tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}

// NewModel builds the chain described by cfg. name labels the view.
func NewModel(cfg *config.Config, name string) (Model, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return Model{}, err
	}
	s := exp.GetSimulator()

	var driverKeys []string
	if d, ok := s.Driver().(tunable); ok {
		for k := range d.GetParams() {
			driverKeys = append(driverKeys, k)
		}
		sort.Strings(driverKeys)
	}

	canvas := NewCanvas(width, height)
	return Model{
		sim:           s,
		driver:        s.Driver(),
		hand:          control.NewManual(),
		name:          name,
		canvas:        canvas,
		view:          FitWindow(viewCenter(cfg), worldWidth, worldHeight, cfg.View.Scale, canvas.DotWidth(), canvas.DotHeight()),
		running:       true,
		initialParams: cfg.Params,
		paramKeys:     dynamo.ParamNames(),
		driverKeys:    driverKeys,
		energyHistory: make([]float64, 0, historyCapacity),
		history:       make([]Snapshot, 0, historyCapacity),
		playHead:      -1,
	}, nil
}

// viewCenter keeps the anchor near the top of the view, where the desktop
// window puts it.
func viewCenter(cfg *config.Config) dynamo.Vec2 {
	scale := cfg.View.Scale
	if scale <= 0 {
		scale = 1
	}
	return cfg.Origin.Add(dynamo.V(0, (worldHeight/2-config.DefaultOriginY)/scale))
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "tab":
			m.selected = (m.selected + 1) % (len(m.paramKeys) + len(m.driverKeys))
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "g":
			if m.recorder != nil {
				m.stopRecording()
			} else {
				m.recorder = NewRecorder(m.canvas.Width, m.canvas.Height)
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		now := time.Time(msg)
		measured := 0.0
		if !m.lastTick.IsZero() && !now.IsZero() {
			measured = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		if m.running {
			if m.playHead == -1 {
				m.step(measured)
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

// mouseWorld converts a terminal cell to world coordinates, aiming at the
// middle of the cell's dots.
func (m *Model) mouseWorld(x, y int) dynamo.Vec2 {
	col, row := x-canvasPadX, y-canvasPadY
	return m.view.ToWorld(col*2+1, row*4+2)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.showHelp || m.playHead != -1 {
		return
	}
	p := m.mouseWorld(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.hand.Hold(p)
			m.sim.SetDriver(m.hand)
		}
	case tea.MouseActionMotion:
		if m.hand.Holding() {
			m.hand.Hold(p)
		}
	case tea.MouseActionRelease:
		if m.hand.Holding() {
			m.hand.Release()
			m.sim.SetDriver(m.driver)
		}
	}
}

// adjustParam scales the selected parameter. Zero values are nudged so they
// can grow again; changes that would make the parameters invalid are ignored.
func (m *Model) adjustParam(factor float64) {
	if m.selected >= len(m.paramKeys) {
		m.adjustDriver(factor)
		return
	}
	p := m.sim.Params()
	key := m.paramKeys[m.selected]
	val, _ := p.Get(key)
	next := val * factor
	if val == 0 && factor > 1 {
		initial, _ := m.initialParams.Get(key)
		next = max(0.05*initial, 0.1)
	}
	if q, ok := p.With(key, next); ok && q.Validate() == nil {
		m.sim.SetParams(q)
	}
}

func (m *Model) adjustDriver(factor float64) {
	d, ok := m.driver.(tunable)
	if !ok {
		return
	}
	key := m.driverKeys[m.selected-len(m.paramKeys)]
	val := d.GetParams()[key]
	next := val * factor
	if val == 0 && factor > 1 {
		next = 0.1
	}
	d.SetParam(key, next)
}

// step advances the chain by the measured tick interval and records it.
func (m *Model) step(measured float64) {
	if m.err != nil {
		return
	}
	p := m.sim.Params()
	if err := m.sim.Advance(sim.FrameStep(measured, p.TimeStep)); err != nil {
		m.err = err
		m.running = false
		return
	}
	chain := m.sim.Chain()
	if !chain.IsValid() {
		m.err = dynamo.SimError{Time: m.sim.Time(), Message: "chain diverged"}
		m.running = false
		return
	}

	energy := chain.Energy(p)
	m.energyHistory = append(m.energyHistory, energy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	m.history = append(m.history, Snapshot{Positions: chain.Positions(), Time: m.sim.Time(), Energy: energy})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead = max(m.playHead+dir, 0)
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset restores the initial layout and parameters.
func (m *Model) reset() {
	m.sim.Reset()
	m.sim.SetParams(m.initialParams)
	m.hand.Release()
	m.sim.SetDriver(m.driver)
	m.energyHistory = m.energyHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.err = nil
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Save("rope.gif"); err != nil {
		m.err = err
	}
	m.recorder = nil
}

func (m *Model) positions() []dynamo.Vec2 {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead].Positions
	}
	return m.sim.Chain().Positions()
}

func (m *Model) draw() {
	m.canvas.Clear()
	DrawChain(m.canvas, m.view, m.positions())
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusError.Render("ERROR " + m.err.Error())
	case m.playHead != -1:
		back := m.history[m.playHead].Time - m.history[len(m.history)-1].Time
		if m.running {
			return statusPaused.Render(fmt.Sprintf("REPLAYING (%.1fs)", back))
		}
		return statusPaused.Render(fmt.Sprintf("REPLAY PAUSED (%.1fs)", back))
	case !m.running:
		return statusPaused.Render("PAUSED")
	case m.hand.Holding():
		return statusRunning.Render("DRAGGING")
	}
	return statusRunning.Render("RUNNING")
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(chainStyle.Render(m.canvas.String()))

	chain := m.sim.Chain()
	p := m.sim.Params()
	t, energy := m.sim.Time(), 0.0
	if len(m.energyHistory) > 0 {
		energy = m.energyHistory[len(m.energyHistory)-1]
	}
	if m.playHead != -1 {
		t, energy = m.history[m.playHead].Time, m.history[m.playHead].Energy
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")
	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", t)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.2f", energy)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", chain.Len())) + "\n")
	s.WriteString(labelStyle.Render("Length") + valueStyle.Render(fmt.Sprintf("%.1f", chain.Length())) + "\n")
	s.WriteString(labelStyle.Render("Stretch") + Sparkline(chain.Extensions(p.RestLength), 24) + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i, k := range m.paramKeys {
		val, _ := p.Get(k)
		initial, _ := m.initialParams.Get(k)
		ratio := 0.5
		if initial != 0 {
			ratio = val / (2 * initial)
		}
		line := fmt.Sprintf("%-12s %s %.4g", k, Bar(ratio, 10), val)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.UnsetWidth().Render(line) + "\n")
		}
	}
	if d, ok := m.driver.(tunable); ok && len(m.driverKeys) > 0 {
		s.WriteString("\nDRIVER\n")
		vals := d.GetParams()
		for i, k := range m.driverKeys {
			line := fmt.Sprintf("%-12s %.4g", k, vals[k])
			if len(m.paramKeys)+i == m.selected {
				s.WriteString(activeParamStyle.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + labelStyle.UnsetWidth().Render(line) + "\n")
			}
		}
	}
	s.WriteString(helpStyle.Render("─────────────────────\nDRAG:Move end SP:Pause R:Reset\nQ:Quit T:Theme G:Record ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Mouse    - Drag the free end        ║
║  Space    - Pause/Resume simulation  ║
║  R        - Reset chain and params   ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  [        - Rewind (time travel)     ║
║  ]        - Forward (time travel)    ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// RunLive opens the live view for cfg with mouse tracking enabled.
func RunLive(cfg *config.Config, name string) error {
	m, err := NewModel(cfg, name)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

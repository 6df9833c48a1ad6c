package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/ropesim/internal/audio"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/control"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/experiment"
	"github.com/san-kum/ropesim/internal/sim"
)

const (
	WindowWidth  = 800
	WindowHeight = 600
	TargetFPS    = 60

	particleRadius = 3
	segmentWidth   = 2
	telemetryLen   = 200
)

var (
	ColBg      = rl.Black
	ColSegment = rl.Green
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.White
)

type Options struct {
	Audio bool
}

// App is a desktop window around one chain. Holding the left mouse button
// pins the free end to the cursor.
type App struct {
	Sim       *sim.Simulator
	Driver    dynamo.Driver
	Hand      *control.Manual
	Name      string
	Running   bool
	Telemetry []float64
	Audio     *audio.Processor

	cfg *config.Config
}

func initWindow() {
	rl.InitWindow(WindowWidth, WindowHeight, "ropesim")
	rl.SetTargetFPS(TargetFPS)
}

// NewApp builds the chain described by cfg. It needs no window, so the
// update logic can run headless.
func NewApp(cfg *config.Config, name string) (*App, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	s := exp.GetSimulator()
	return &App{
		Sim:       s,
		Driver:    s.Driver(),
		Hand:      control.NewManual(),
		Name:      name,
		Running:   true,
		Telemetry: make([]float64, 0, telemetryLen),
		cfg:       cfg,
	}, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, name string, opts Options) error {
	app, err := NewApp(cfg, name)
	if err != nil {
		return err
	}

	initWindow()
	defer rl.CloseWindow()

	if opts.Audio {
		app.Audio = audio.NewProcessor()
		if err := app.Audio.Start(); err != nil {
			fmt.Printf("audio disabled: %v\n", err)
			app.Audio = nil
		} else {
			defer app.Audio.Stop()
		}
	}

	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.handleInput()
		if err := a.Step(float64(rl.GetFrameTime())); err != nil {
			fmt.Printf("simulation stopped: %v\n", err)
			a.Running = false
		}
		a.Draw()
	}
}

func (a *App) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Reset()
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		m := rl.GetMousePosition()
		a.Grab(dynamo.V(float64(m.X), float64(m.Y)))
	} else {
		a.Let()
	}
}

// Grab pins the free end at p until Let is called.
func (a *App) Grab(p dynamo.Vec2) {
	if !a.Hand.Holding() {
		a.Sim.SetDriver(a.Hand)
	}
	a.Hand.Hold(p)
}

func (a *App) Let() {
	if a.Hand.Holding() {
		a.Hand.Release()
		a.Sim.SetDriver(a.Driver)
	}
}

func (a *App) Reset() {
	a.Let()
	a.Sim.Reset()
	a.Telemetry = a.Telemetry[:0]
	a.Running = true
}

// Step advances one frame with the measured frame time.
func (a *App) Step(measured float64) error {
	if !a.Running {
		return nil
	}
	if err := a.Sim.Advance(sim.FrameStep(measured, a.cfg.Params.TimeStep)); err != nil {
		return err
	}

	chain := a.Sim.Chain()
	if !chain.IsValid() {
		return dynamo.SimError{Time: a.Sim.Time(), Message: "chain diverged"}
	}

	p := a.Sim.Params()
	energy := chain.Energy(p)
	a.Telemetry = append(a.Telemetry, energy)
	if len(a.Telemetry) > telemetryLen {
		a.Telemetry = a.Telemetry[1:]
	}
	if a.Audio != nil {
		a.Audio.UpdateTension(MeanExtension(chain.Extensions(p.RestLength)), energy)
	}
	return nil
}

// MeanExtension is the average spring stretch beyond rest length, with
// compressed springs counted as zero.
func MeanExtension(ext []float64) float64 {
	if len(ext) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range ext {
		sum += math.Max(e, 0)
	}
	return sum / float64(len(ext))
}

package gui

import (
	"testing"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
)

func TestMeanExtension(t *testing.T) {
	if MeanExtension(nil) != 0 {
		t.Error("empty chain has no extension")
	}
	if got := MeanExtension([]float64{2, -1, 4}); got != 2 {
		t.Errorf("expected 2, got %f", got)
	}
}

func TestAppHeadlessDrag(t *testing.T) {
	app, err := NewApp(config.DefaultConfig(), "classic")
	if err != nil {
		t.Fatalf("app: %v", err)
	}

	target := dynamo.V(500, 300)
	start := app.Sim.Chain().End()
	app.Grab(target)
	if err := app.Step(0); err != nil {
		t.Fatalf("step: %v", err)
	}
	end := app.Sim.Chain().End()
	if end.Sub(target).Len() >= start.Sub(target).Len()/2 {
		t.Errorf("end should follow the cursor, got %+v", end)
	}

	app.Let()
	if app.Hand.Holding() || app.Sim.Driver() != app.Driver {
		t.Error("letting go should restore the configured driver")
	}

	app.Running = false
	before := app.Sim.Time()
	if err := app.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	if app.Sim.Time() != before {
		t.Error("paused app should not advance")
	}

	app.Reset()
	if app.Sim.Time() != 0 || len(app.Telemetry) != 0 || !app.Running {
		t.Error("reset should rewind and resume")
	}
}

func TestAppResetRegrabsPID(t *testing.T) {
	app, err := NewApp(config.GetPreset("pull"), "pull")
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	start := app.Sim.Chain().End()

	for i := 0; i < 300; i++ {
		if err := app.Step(1.0 / 60); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if app.Sim.Chain().End().Sub(start).Len() < 10 {
		t.Fatalf("pid should have pulled the end away, at %v", app.Sim.Chain().End())
	}

	app.Reset()
	if err := app.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	if d := app.Sim.Chain().End().Sub(start).Len(); d > 2 {
		t.Errorf("after reset the end should be grabbed in place, moved %f from %v", d, start)
	}
}

func TestAppLetRegrabsPID(t *testing.T) {
	app, err := NewApp(config.GetPreset("pull"), "pull")
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	for i := 0; i < 60; i++ {
		if err := app.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}

	app.Grab(dynamo.V(200, 300))
	if err := app.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	app.Let()

	end := app.Sim.Chain().End()
	if got, _ := app.Driver.Target(app.Sim.Time(), end); got != end {
		t.Errorf("pid should pick the end up where it was let go at %v, got %v", end, got)
	}
}

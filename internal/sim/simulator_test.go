package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ropesim/internal/control"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
)

type countingStepper struct {
	steps int
	dts   []float64
}

func (s *countingStepper) Step(c *physics.Chain, p dynamo.Params) error {
	s.steps++
	s.dts = append(s.dts, p.TimeStep)
	return nil
}

type poisonStepper struct{}

func (poisonStepper) Step(c *physics.Chain, p dynamo.Params) error {
	c.SetControlledPosition(dynamo.V(math.NaN(), 0))
	return nil
}

type testMetric struct {
	count int
}

func (t *testMetric) Name() string                                          { return "test" }
func (t *testMetric) Observe(c *physics.Chain, p dynamo.Params, tm float64) { t.count++ }
func (t *testMetric) Value() float64                                        { return float64(t.count) }
func (t *testMetric) Reset()                                                { t.count = 0 }

func testParams() dynamo.Params {
	p := dynamo.DefaultParams()
	p.TimeStep = 0.1
	return p
}

func newChain(t *testing.T) *physics.Chain {
	t.Helper()
	c, err := physics.NewChain(5, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSimulatorRun(t *testing.T) {
	stepper := &countingStepper{}
	sim := New(newChain(t), stepper, testParams(), nil)

	result, err := sim.Run(context.Background(), dynamo.Config{Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if stepper.steps != 10 || result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d/%d", stepper.steps, result.StepsTaken)
	}
	for _, f := range result.Frames {
		if len(f) != 5 {
			t.Fatalf("frame has %d positions, want 5", len(f))
		}
	}
}

func TestSimulatorRecordEvery(t *testing.T) {
	sim := New(newChain(t), &countingStepper{}, testParams(), nil)

	result, err := sim.Run(context.Background(), dynamo.Config{Duration: 1.0, RecordEvery: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Frames) != 3 {
		t.Errorf("expected 3 frames, got %d", len(result.Frames))
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	bad := testParams()
	bad.Damping = 1.5

	tests := []struct {
		name   string
		params dynamo.Params
		cfg    dynamo.Config
		want   error
	}{
		{"zero duration", testParams(), dynamo.Config{Duration: 0}, nil},
		{"negative duration", testParams(), dynamo.Config{Duration: -1.0}, nil},
		{"bad damping", bad, dynamo.Config{Duration: 1.0}, dynamo.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := New(newChain(t), &countingStepper{}, tt.params, nil)
			_, err := sim.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(newChain(t), &countingStepper{}, testParams(), nil)

	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), dynamo.Config{Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestSimulatorDriver(t *testing.T) {
	drv := control.NewManual()
	drv.Hold(dynamo.V(500, 500))
	sim := New(newChain(t), &countingStepper{}, testParams(), drv)

	if _, err := sim.Run(context.Background(), dynamo.Config{Duration: 0.5}); err != nil {
		t.Fatal(err)
	}
	if sim.Chain().End() != dynamo.V(500, 500) {
		t.Errorf("driver target not applied, end at %v", sim.Chain().End())
	}
}

func TestSimulatorDivergence(t *testing.T) {
	sim := New(newChain(t), poisonStepper{}, testParams(), nil)

	result, err := sim.Run(context.Background(), dynamo.Config{Duration: 1.0, ValidateState: true})
	if err != nil {
		t.Fatalf("divergence should not fail the run: %v", err)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], dynamo.ErrUnstable) {
		t.Errorf("expected one unstable error, got %v", result.Errors)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected run to stop at first step, took %d", result.StepsTaken)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(newChain(t), &countingStepper{}, testParams(), nil)
	if _, err := sim.Run(ctx, dynamo.Config{Duration: 1.0}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSimulatorAdvance(t *testing.T) {
	stepper := &countingStepper{}
	sim := New(newChain(t), stepper, testParams(), nil)

	for _, dt := range []float64{0.016, 0.02, 0.017} {
		if err := sim.Advance(dt); err != nil {
			t.Fatal(err)
		}
	}

	if math.Abs(sim.Time()-0.053) > 1e-12 {
		t.Errorf("expected t=0.053, got %v", sim.Time())
	}
	if stepper.dts[1] != 0.02 {
		t.Errorf("measured dt not passed through: %v", stepper.dts)
	}
	if sim.Params().TimeStep != 0.1 {
		t.Error("Advance changed the configured time step")
	}

	sim.Reset()
	if sim.Time() != 0 {
		t.Error("reset did not rewind time")
	}
}

func TestFrameStep(t *testing.T) {
	tests := []struct {
		name     string
		measured float64
		want     float64
	}{
		{"first frame", 0, 0.01},
		{"negative", -1, 0.01},
		{"nan", math.NaN(), 0.01},
		{"normal", 1.0 / 60, 1.0 / 60},
		{"stall", 2, MaxFrameStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrameStep(tt.measured, 0.01); got != tt.want {
				t.Errorf("FrameStep(%f) = %f, want %f", tt.measured, got, tt.want)
			}
		})
	}
}

func TestSimulatorResetRegrabsEnd(t *testing.T) {
	pid := control.NewPID(4, 0, 0.1, dynamo.V(100, 0))
	sim := New(newChain(t), &countingStepper{}, testParams(), pid)
	start := sim.Chain().End()

	for i := 0; i < 30; i++ {
		if err := sim.Advance(0.1); err != nil {
			t.Fatal(err)
		}
	}
	if sim.Chain().End().Sub(start).Len() < 10 {
		t.Fatalf("pid should have pulled the end away, at %v", sim.Chain().End())
	}

	sim.Reset()
	if err := sim.Advance(0.1); err != nil {
		t.Fatal(err)
	}
	if got := sim.Chain().End(); got != start {
		t.Errorf("after reset the end should be grabbed in place at %v, got %v", start, got)
	}
}

func TestSimulatorSetDriverRegrabsEnd(t *testing.T) {
	pid := control.NewPID(4, 0, 0.1, dynamo.V(100, 0))
	sim := New(newChain(t), &countingStepper{}, testParams(), pid)
	for i := 0; i < 10; i++ {
		if err := sim.Advance(0.1); err != nil {
			t.Fatal(err)
		}
	}

	hand := control.NewManual()
	hand.Hold(dynamo.V(50, 50))
	sim.SetDriver(hand)
	if err := sim.Advance(0.1); err != nil {
		t.Fatal(err)
	}

	sim.SetDriver(pid)
	if err := sim.Advance(0.1); err != nil {
		t.Fatal(err)
	}
	if got := sim.Chain().End(); got != dynamo.V(50, 50) {
		t.Errorf("handing back to the pid should start from the released end, got %v", got)
	}
}

func TestSimulatorRunWithCallback(t *testing.T) {
	sim := New(newChain(t), physics.NewSpringSolver(), testParams(), nil)

	calls := 0
	err := sim.RunWithCallback(context.Background(), dynamo.Config{Duration: 10}, func(ps []dynamo.Vec2, tm float64) bool {
		calls++
		return calls < 3
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("expected 3 callbacks, got %d", calls)
	}
}

func TestEnsemble(t *testing.T) {
	ens := NewEnsemble(2)
	for _, g := range []float64{0, 5, 10} {
		p := dynamo.DefaultParams()
		p.Gravity = g
		c, _ := physics.NewChain(10, p.RestLength)
		ens.Add("g", New(c, physics.NewSpringSolver(), p, nil), dynamo.Config{Duration: 1.0})
	}

	results, err := ens.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	still := results[0].Frames[len(results[0].Frames)-1]
	for i, p := range still {
		if p != dynamo.V(0, float64(i)) {
			t.Errorf("weightless chain moved: particle %d at %v", i, p)
		}
	}

	sagged := results[2].Frames[len(results[2].Frames)-1]
	if sagged[9].Y <= 9 {
		t.Errorf("expected gravity to stretch the chain, end at %v", sagged[9])
	}
}

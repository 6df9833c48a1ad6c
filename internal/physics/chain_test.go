package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ropesim/internal/dynamo"
)

func TestNewChain(t *testing.T) {
	tests := []struct {
		name  string
		count int
		ok    bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"two", 2, true},
		{"default", dynamo.DefaultParticles, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewChain(tt.count, 1.0)
			if !tt.ok {
				if !errors.Is(err, dynamo.ErrInvalidConfiguration) {
					t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Len() != tt.count {
				t.Errorf("expected %d particles, got %d", tt.count, c.Len())
			}
		})
	}
}

func TestNewChain_NonFiniteSpacing(t *testing.T) {
	for _, s := range []float64{math.NaN(), math.Inf(1)} {
		if _, err := NewChain(3, s); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
			t.Errorf("spacing %v: expected ErrInvalidConfiguration, got %v", s, err)
		}
	}
}

func TestNewChainAt_Layout(t *testing.T) {
	c, err := NewChainAt(dynamo.V(300, 100), 4, 2.5)
	if err != nil {
		t.Fatal(err)
	}

	for i, p := range c.Positions() {
		want := dynamo.V(300, 100+float64(i)*2.5)
		if p != want {
			t.Errorf("particle %d at %v, want %v", i, p, want)
		}
		pt := c.Particle(i)
		if pt.Vel != (dynamo.Vec2{}) || pt.Fixed {
			t.Errorf("particle %d not at rest and free: %+v", i, pt)
		}
	}
}

func TestChain_SetControlledPosition(t *testing.T) {
	c, _ := NewChain(5, 1.0)
	c.particles[4].Vel = dynamo.V(1, 2)

	c.SetControlledPosition(dynamo.V(500, 500))

	if c.End() != dynamo.V(500, 500) {
		t.Errorf("end at %v, want (500,500)", c.End())
	}
	if c.Particle(4).Vel != dynamo.V(1, 2) {
		t.Errorf("velocity changed to %v", c.Particle(4).Vel)
	}
	for i := 0; i < 4; i++ {
		if c.Particle(i).Pos != dynamo.V(0, float64(i)) {
			t.Errorf("particle %d moved", i)
		}
	}
}

func TestChain_PositionsIsACopy(t *testing.T) {
	c, _ := NewChain(3, 1.0)
	ps := c.Positions()
	ps[0] = dynamo.V(99, 99)

	if c.Particle(0).Pos == dynamo.V(99, 99) {
		t.Error("Positions exposed internal storage")
	}
}

func TestChain_ResetAndClone(t *testing.T) {
	c, _ := NewChainAt(dynamo.V(1, 1), 3, 1.0)
	c.SetFixed(1, true)
	clone := c.Clone()

	c.SetControlledPosition(dynamo.V(10, 10))
	c.particles[2].Vel = dynamo.V(3, 3)

	if clone.End() != dynamo.V(1, 3) {
		t.Errorf("clone followed the original: %v", clone.End())
	}

	c.Reset()
	if c.End() != dynamo.V(1, 3) || c.Particle(2).Vel != (dynamo.Vec2{}) {
		t.Errorf("reset did not restore layout: %+v", c.Particle(2))
	}
	if !c.Particle(1).Fixed {
		t.Error("reset cleared the fixed flag")
	}
}

func TestFromPositions(t *testing.T) {
	if _, err := FromPositions([]dynamo.Vec2{{}}); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
	if _, err := FromPositions([]dynamo.Vec2{{}, dynamo.V(math.NaN(), 0)}); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration for NaN, got %v", err)
	}

	c, err := FromPositions([]dynamo.Vec2{dynamo.V(0, 0), dynamo.V(3, 4)})
	if err != nil {
		t.Fatal(err)
	}
	c.SetControlledPosition(dynamo.V(7, 7))
	c.Reset()
	if c.End() != dynamo.V(3, 4) {
		t.Errorf("reset went to %v, want (3,4)", c.End())
	}
}

func TestChain_Energy(t *testing.T) {
	p := dynamo.DefaultParams()
	c, _ := NewChain(4, p.RestLength)

	if c.KineticEnergy() != 0 {
		t.Errorf("expected zero kinetic energy at rest, got %f", c.KineticEnergy())
	}
	if c.SpringEnergy(p) != 0 {
		t.Errorf("expected zero spring energy at rest length, got %f", c.SpringEnergy(p))
	}
	if len(c.Extensions(p.RestLength)) != 3 {
		t.Errorf("expected 3 segments, got %d", len(c.Extensions(p.RestLength)))
	}
	if c.Length() != 3 {
		t.Errorf("expected length 3, got %f", c.Length())
	}

	c.SetControlledPosition(dynamo.V(0, 4))
	want := 0.5 * p.Stiffness * 1.0
	if math.Abs(c.SpringEnergy(p)-want) > 1e-9 {
		t.Errorf("spring energy %f, want %f", c.SpringEnergy(p), want)
	}
}

func TestHangingLength(t *testing.T) {
	p := dynamo.DefaultParams()

	if got := HangingLength(2, dynamo.Params{RestLength: 1, Stiffness: 1, TimeStep: 1}); got != 1 {
		t.Errorf("weightless pair should hang at rest length, got %f", got)
	}
	if HangingLength(40, p) <= HangingLength(20, p) {
		t.Error("longer chain should hang longer")
	}
	p.Stiffness = 0
	if !math.IsInf(HangingLength(20, p), 1) {
		t.Error("chain without springs has no finite length")
	}
}

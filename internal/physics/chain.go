package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/ropesim/internal/dynamo"
)

// Particle is a point mass of the chain.
type Particle struct {
	Pos   dynamo.Vec2
	Vel   dynamo.Vec2
	Fixed bool
}

// Chain is an ordered run of particles joined by springs between
// consecutive indices. Index 0 is the anchor, the last index is the
// controlled end. The length never changes after construction.
type Chain struct {
	particles []Particle
	initial   []dynamo.Vec2
}

// NewChain lays count particles on a vertical line from the origin.
func NewChain(count int, spacing float64) (*Chain, error) {
	return NewChainAt(dynamo.Vec2{}, count, spacing)
}

// NewChainAt lays count particles downward from origin, spacing apart,
// at rest and free.
func NewChainAt(origin dynamo.Vec2, count int, spacing float64) (*Chain, error) {
	if count < 2 {
		return nil, fmt.Errorf("%w: need at least 2 particles, got %d", dynamo.ErrInvalidConfiguration, count)
	}
	if math.IsNaN(spacing) || math.IsInf(spacing, 0) || !origin.IsValid() {
		return nil, fmt.Errorf("%w: layout must be finite", dynamo.ErrInvalidConfiguration)
	}

	c := &Chain{
		particles: make([]Particle, count),
		initial:   make([]dynamo.Vec2, count),
	}
	for i := range c.initial {
		c.initial[i] = origin.Add(dynamo.V(0, float64(i)*spacing))
	}
	c.Reset()
	return c, nil
}

// FromPositions builds a chain from an explicit layout.
func FromPositions(positions []dynamo.Vec2) (*Chain, error) {
	if len(positions) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 particles, got %d", dynamo.ErrInvalidConfiguration, len(positions))
	}
	c := &Chain{
		particles: make([]Particle, len(positions)),
		initial:   make([]dynamo.Vec2, len(positions)),
	}
	for i, p := range positions {
		if !p.IsValid() {
			return nil, fmt.Errorf("%w: particle %d position is not finite", dynamo.ErrInvalidConfiguration, i)
		}
		c.initial[i] = p
	}
	c.Reset()
	return c, nil
}

// Reset restores the construction layout and zeroes every velocity.
// Fixed flags are kept.
func (c *Chain) Reset() {
	for i := range c.particles {
		c.particles[i].Pos = c.initial[i]
		c.particles[i].Vel = dynamo.Vec2{}
	}
}

func (c *Chain) Len() int { return len(c.particles) }

// Particle returns a copy of particle i.
func (c *Chain) Particle(i int) Particle { return c.particles[i] }

// End returns the controlled particle's position.
func (c *Chain) End() dynamo.Vec2 { return c.particles[len(c.particles)-1].Pos }

// SetControlledPosition moves the last particle to p. Its velocity is left
// alone, so the next step integrates from the new position.
func (c *Chain) SetControlledPosition(p dynamo.Vec2) {
	c.particles[len(c.particles)-1].Pos = p
}

// SetFixed pins or releases particle i.
func (c *Chain) SetFixed(i int, fixed bool) {
	c.particles[i].Fixed = fixed
}

// Positions returns a copy of the current positions in chain order.
func (c *Chain) Positions() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(c.particles))
	for i := range c.particles {
		out[i] = c.particles[i].Pos
	}
	return out
}

// Velocities returns a copy of the current velocities in chain order.
func (c *Chain) Velocities() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(c.particles))
	for i := range c.particles {
		out[i] = c.particles[i].Vel
	}
	return out
}

func (c *Chain) Clone() *Chain {
	cp := &Chain{
		particles: make([]Particle, len(c.particles)),
		initial:   make([]dynamo.Vec2, len(c.initial)),
	}
	copy(cp.particles, c.particles)
	copy(cp.initial, c.initial)
	return cp
}

// IsValid reports whether every position and velocity is finite.
func (c *Chain) IsValid() bool {
	for i := range c.particles {
		if !c.particles[i].Pos.IsValid() || !c.particles[i].Vel.IsValid() {
			return false
		}
	}
	return true
}

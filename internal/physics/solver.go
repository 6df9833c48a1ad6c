package physics

import (
	"fmt"

	"github.com/san-kum/ropesim/internal/dynamo"
)

// SpringSolver advances a chain by one explicit step, relaxing adjacent
// pairs in index order. Each pair sees the positions already moved by the
// pair before it.
type SpringSolver struct{}

func NewSpringSolver() SpringSolver { return SpringSolver{} }

func (SpringSolver) Name() string { return "gauss-seidel" }

// Step applies one update for pairs (i-1, i), i = 1..N-1. Particle 0 never
// receives the reaction, gravity or damping: the anchor stays where it is.
func (SpringSolver) Step(c *Chain, p dynamo.Params) error {
	if err := checkStep(c, p); err != nil {
		return err
	}

	ps := c.particles
	for i := 1; i < len(ps); i++ {
		d := ps[i-1].Pos.Sub(ps[i].Pos)
		force := pairForce(d, p)
		dir := d.Normalize()

		integrate(&ps[i], dir, force, p)
		if i != 1 {
			integrate(&ps[i-1], dir, -force, p)
		}
	}
	return nil
}

// JacobiSolver evaluates every pair from the start-of-step positions and
// then applies the same per-particle updates. It exists to compare against
// SpringSolver, whose chain responds differently to the same input.
type JacobiSolver struct {
	dirs   []dynamo.Vec2
	forces []float64
}

func NewJacobiSolver() *JacobiSolver { return &JacobiSolver{} }

func (*JacobiSolver) Name() string { return "jacobi" }

func (s *JacobiSolver) Step(c *Chain, p dynamo.Params) error {
	if err := checkStep(c, p); err != nil {
		return err
	}

	ps := c.particles
	n := len(ps)
	if cap(s.dirs) < n {
		s.dirs = make([]dynamo.Vec2, n)
		s.forces = make([]float64, n)
	}
	s.dirs, s.forces = s.dirs[:n], s.forces[:n]

	for i := 1; i < n; i++ {
		d := ps[i-1].Pos.Sub(ps[i].Pos)
		s.forces[i] = pairForce(d, p)
		s.dirs[i] = d.Normalize()
	}
	for i := 1; i < n; i++ {
		integrate(&ps[i], s.dirs[i], s.forces[i], p)
		if i != 1 {
			integrate(&ps[i-1], s.dirs[i], -s.forces[i], p)
		}
	}
	return nil
}

func checkStep(c *Chain, p dynamo.Params) error {
	if c == nil || len(c.particles) < 2 {
		return fmt.Errorf("%w: chain needs at least 2 particles", dynamo.ErrInvalidConfiguration)
	}
	return p.Validate()
}

// pairForce is scaled by the time step on top of the dt applied in
// integrate.
func pairForce(d dynamo.Vec2, p dynamo.Params) float64 {
	extension := d.Len() - p.RestLength
	return p.Stiffness * extension * p.TimeStep
}

func integrate(pt *Particle, dir dynamo.Vec2, force float64, p dynamo.Params) {
	if pt.Fixed {
		return
	}
	pt.Vel = pt.Vel.Add(dir.Scale(force * p.TimeStep))
	pt.Vel = pt.Vel.Scale(p.Damping)
	pt.Vel.Y += p.Gravity * p.TimeStep
	pt.Pos = pt.Pos.Add(pt.Vel)
}

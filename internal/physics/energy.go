package physics

import (
	"math"

	"github.com/san-kum/ropesim/internal/dynamo"
)

// Energy is a diagnostic total of kinetic, spring and gravitational
// energy with unit masses. Gravity pulls toward +Y, so potential falls as
// Y grows. The model is damped and not conservative; use it for trends.
func (c *Chain) Energy(p dynamo.Params) float64 {
	return c.KineticEnergy() + c.SpringEnergy(p) - p.Gravity*c.sumY()
}

func (c *Chain) KineticEnergy() float64 {
	e := 0.0
	for i := range c.particles {
		v := c.particles[i].Vel
		e += 0.5 * v.Dot(v)
	}
	return e
}

func (c *Chain) SpringEnergy(p dynamo.Params) float64 {
	e := 0.0
	for i := 1; i < len(c.particles); i++ {
		ext := c.particles[i-1].Pos.Sub(c.particles[i].Pos).Len() - p.RestLength
		e += 0.5 * p.Stiffness * ext * ext
	}
	return e
}

// Extensions returns the signed extension of each of the N-1 segments.
func (c *Chain) Extensions(restLength float64) []float64 {
	out := make([]float64, len(c.particles)-1)
	for i := 1; i < len(c.particles); i++ {
		out[i-1] = c.particles[i-1].Pos.Sub(c.particles[i].Pos).Len() - restLength
	}
	return out
}

// Length is the summed segment length.
func (c *Chain) Length() float64 {
	l := 0.0
	for i := 1; i < len(c.particles); i++ {
		l += c.particles[i-1].Pos.Sub(c.particles[i].Pos).Len()
	}
	return l
}

func (c *Chain) sumY() float64 {
	s := 0.0
	for i := range c.particles {
		s += c.particles[i].Pos.Y
	}
	return s
}

// HangingLength estimates how long an n-particle chain hanging from its
// anchor stretches under p. Interior particles receive gravity twice per
// step, once from each pair, which the (n-1)^2 term reflects. The estimate
// ignores damping; use it for scale, not for assertions.
func HangingLength(n int, p dynamo.Params) float64 {
	segs := float64(n - 1)
	if p.Stiffness == 0 {
		return math.Inf(1)
	}
	return segs*p.RestLength + segs*segs*p.Gravity/(p.Stiffness*p.TimeStep)
}

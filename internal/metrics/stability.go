package metrics

import (
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
)

// Stability is the fraction of steps in which every particle stays within
// radius of the anchor and is finite.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(c *physics.Chain, p dynamo.Params, t float64) {
	s.samples++
	anchor := c.Particle(0).Pos
	for _, pos := range c.Positions() {
		if !pos.IsValid() || pos.Sub(anchor).Len() > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

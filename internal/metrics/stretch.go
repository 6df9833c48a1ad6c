package metrics

import (
	"math"

	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
)

// Stretch records the largest segment extension (in either direction)
// seen during a run.
type Stretch struct {
	name string
	max  float64
}

func NewStretch() *Stretch {
	return &Stretch{name: "max_stretch"}
}

func (s *Stretch) Name() string { return s.name }

func (s *Stretch) Observe(c *physics.Chain, p dynamo.Params, t float64) {
	for _, ext := range c.Extensions(p.RestLength) {
		s.max = math.Max(s.max, math.Abs(ext))
	}
}

func (s *Stretch) Value() float64 { return s.max }

func (s *Stretch) Reset() { s.max = 0 }

// Travel averages how far the controlled end moves between steps.
type Travel struct {
	name    string
	last    dynamo.Vec2
	sum     float64
	samples int
}

func NewTravel() *Travel {
	return &Travel{name: "end_travel"}
}

func (tr *Travel) Name() string {
	return tr.name
}

func (tr *Travel) Observe(c *physics.Chain, p dynamo.Params, t float64) {
	end := c.End()
	if tr.samples > 0 {
		tr.sum += end.Sub(tr.last).Len()
	}
	tr.last = end
	tr.samples++
}

func (tr *Travel) Value() float64 {
	if tr.samples < 2 {
		return 0
	}
	return tr.sum / float64(tr.samples-1)
}

func (tr *Travel) Reset() {
	tr.sum = 0
	tr.samples = 0
}

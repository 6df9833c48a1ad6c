package control

import "github.com/san-kum/ropesim/internal/dynamo"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Target(t float64, end dynamo.Vec2) (dynamo.Vec2, bool) {
	return end, false
}

package control

import "github.com/san-kum/ropesim/internal/dynamo"

// Manual passes a host-supplied position to the chain while held.
// Used for dragging the free end with a pointer.
type Manual struct {
	pos     dynamo.Vec2
	holding bool
}

func NewManual() *Manual {
	return &Manual{}
}

// Hold grabs the end at p. Calling it again moves the grip.
func (m *Manual) Hold(p dynamo.Vec2) {
	m.pos = p
	m.holding = true
}

// Release lets the end swing freely from the next step on.
func (m *Manual) Release() {
	m.holding = false
}

func (m *Manual) Holding() bool { return m.holding }

func (m *Manual) Target(t float64, end dynamo.Vec2) (dynamo.Vec2, bool) {
	if !m.holding {
		return end, false
	}
	return m.pos, true
}

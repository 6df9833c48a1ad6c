package control

import "github.com/san-kum/ropesim/internal/dynamo"

// PID moves a hand from wherever the free end is toward Setpoint, with the
// PID output used as the hand's velocity on each axis.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Setpoint dynamo.Vec2

	hand     dynamo.Vec2
	integral dynamo.Vec2
	prevErr  dynamo.Vec2
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd float64, target dynamo.Vec2) *PID {
	return &PID{
		Kp:       kp,
		Ki:       ki,
		Kd:       kd,
		Setpoint: target,
		first:    true,
	}
}

func (p *PID) Target(t float64, end dynamo.Vec2) (dynamo.Vec2, bool) {
	if p.first {
		p.hand = end
		p.prevErr = p.Setpoint.Sub(end)
		p.prevT = t
		p.first = false
		return p.hand, true
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.hand, true
	}

	err := p.Setpoint.Sub(p.hand)
	p.integral = p.integral.Add(err.Scale(dt))
	derivative := err.Sub(p.prevErr).Scale(1 / dt)

	u := err.Scale(p.Kp).Add(p.integral.Scale(p.Ki)).Add(derivative.Scale(p.Kd))
	p.hand = p.hand.Add(u.Scale(dt))

	p.prevErr = err
	p.prevT = t
	return p.hand, true
}

// Reset clears integral and derivative state; the next call grabs the end
// where it is.
func (p *PID) Reset() {
	p.integral = dynamo.Vec2{}
	p.prevErr = dynamo.Vec2{}
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":       p.Kp,
		"ki":       p.Ki,
		"kd":       p.Kd,
		"target_x": p.Setpoint.X,
		"target_y": p.Setpoint.Y,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "target_x":
		p.Setpoint.X = value
	case "target_y":
		p.Setpoint.Y = value
	}
}

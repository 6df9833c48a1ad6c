package control

import (
	"math"

	"github.com/san-kum/ropesim/internal/dynamo"
)

// Orbit walks the free end around a circle at a constant angular speed.
type Orbit struct {
	Center dynamo.Vec2
	Radius float64
	Speed  float64 // rad/s
}

func NewOrbit(center dynamo.Vec2, radius, speed float64) *Orbit {
	return &Orbit{Center: center, Radius: radius, Speed: speed}
}

func (o *Orbit) Target(t float64, end dynamo.Vec2) (dynamo.Vec2, bool) {
	sin, cos := math.Sincos(o.Speed * t)
	return o.Center.Add(dynamo.V(o.Radius*cos, o.Radius*sin)), true
}

func (o *Orbit) GetParams() map[string]float64 {
	return map[string]float64{
		"radius": o.Radius,
		"speed":  o.Speed,
	}
}

func (o *Orbit) SetParam(name string, value float64) {
	switch name {
	case "radius":
		o.Radius = value
	case "speed":
		o.Speed = value
	}
}

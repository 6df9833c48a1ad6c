package viz

import (
	"math"

	"github.com/san-kum/ropesim/internal/dynamo"
)

// Viewport maps a world rectangle onto canvas dots with a uniform scale.
// World y grows downward, as on screen.
type Viewport struct {
	Min, Max dynamo.Vec2
	scale    float64
	offX     float64
	offY     float64
}

// Fit centers the world rectangle lo..hi inside a dotsW by dotsH area.
func Fit(lo, hi dynamo.Vec2, dotsW, dotsH int) Viewport {
	w, h := hi.X-lo.X, hi.Y-lo.Y
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	s := math.Min(float64(dotsW-1)/w, float64(dotsH-1)/h)
	return Viewport{
		Min:   lo,
		Max:   hi,
		scale: s,
		offX:  (float64(dotsW-1) - w*s) / 2,
		offY:  (float64(dotsH-1) - h*s) / 2,
	}
}

// FitWindow frames a window-sized world area around center, zoomed by scale.
func FitWindow(center dynamo.Vec2, winW, winH, scale float64, dotsW, dotsH int) Viewport {
	if scale <= 0 {
		scale = 1
	}
	half := dynamo.V(winW/scale/2, winH/scale/2)
	return Fit(center.Sub(half), center.Add(half), dotsW, dotsH)
}

// ToCanvas returns the dot nearest to world point p.
func (v Viewport) ToCanvas(p dynamo.Vec2) (int, int) {
	x := v.offX + (p.X-v.Min.X)*v.scale
	y := v.offY + (p.Y-v.Min.Y)*v.scale
	return int(math.Round(x)), int(math.Round(y))
}

// ToWorld inverts ToCanvas for pointer input.
func (v Viewport) ToWorld(x, y int) dynamo.Vec2 {
	return dynamo.V(
		v.Min.X+(float64(x)-v.offX)/v.scale,
		v.Min.Y+(float64(y)-v.offY)/v.scale,
	)
}

// DrawChain draws segments between consecutive positions and marks the
// anchor and the free end. Non-finite positions are skipped.
func DrawChain(c *Canvas, v Viewport, positions []dynamo.Vec2) {
	for i := 1; i < len(positions); i++ {
		a, b := positions[i-1], positions[i]
		if !a.IsValid() || !b.IsValid() {
			continue
		}
		x0, y0 := v.ToCanvas(a)
		x1, y1 := v.ToCanvas(b)
		c.DrawLine(x0, y0, x1, y1)
	}
	if len(positions) == 0 {
		return
	}
	for _, p := range []dynamo.Vec2{positions[0], positions[len(positions)-1]} {
		if p.IsValid() {
			x, y := v.ToCanvas(p)
			c.Dot(x, y, 1)
		}
	}
}

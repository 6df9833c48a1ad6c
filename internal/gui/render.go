package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/ropesim/internal/dynamo"
)

func vec(p dynamo.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(p.Y))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawChain()
	a.drawHUD()
	a.drawTelemetry()

	rl.EndDrawing()
}

// drawChain draws every particle as a circle and every spring as a line.
func (a *App) drawChain() {
	pos := a.Sim.Chain().Positions()
	rl.DrawCircleV(vec(pos[0]), particleRadius, rl.White)
	for i := 1; i < len(pos); i++ {
		rl.DrawCircleV(vec(pos[i]), particleRadius, rl.White)
		rl.DrawLineEx(vec(pos[i]), vec(pos[i-1]), segmentWidth, ColSegment)
	}
}

func (a *App) drawHUD() {
	rl.DrawText("ropesim", 20, 20, 20, ColSelect)
	rl.DrawText(fmt.Sprintf(":: %s", a.Name), 110, 24, 14, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	case a.Hand.Holding():
		status = "DRAGGING"
	}
	rl.DrawText(status, WindowWidth-110, 20, 16, col)

	p := a.Sim.Params()
	rl.DrawText(fmt.Sprintf("k %.0f  damping %.2f  g %.1f  t %.1fs", p.Stiffness, p.Damping, p.Gravity, a.Sim.Time()), 20, 50, 14, ColText)
	rl.DrawText("[MOUSE] DRAG END  [SPACE] PAUSE  [R] RESET  [ESC] QUIT", 20, WindowHeight-24, 12, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), WindowWidth-80, WindowHeight-24, 12, ColTextDim)
}

func (a *App) drawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	x0, y0 := float32(WindowWidth-220), float32(60)
	w, h := float32(200), float32(40)

	lo, hi := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, v := range a.Telemetry {
		px := x0 + float32(i)/float32(len(a.Telemetry))*w
		py := y0 + h - float32((v-lo)/(hi-lo))*h
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColText)
	rl.DrawText(fmt.Sprintf("E %.2e", a.Telemetry[len(a.Telemetry)-1]), int32(x0), int32(y0+h+4), 12, ColTextDim)
}

package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, w, h float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background)
}

// bounds returns the padded bounding box of the valid points.
func bounds(points []dynamo.Vec2) (lo, hi dynamo.Vec2, ok bool) {
	first := true
	for _, p := range points {
		if !p.IsValid() {
			continue
		}
		if first {
			lo, hi, first = p, p, false
			continue
		}
		lo = dynamo.V(min(lo.X, p.X), min(lo.Y, p.Y))
		hi = dynamo.V(max(hi.X, p.X), max(hi.Y, p.Y))
	}
	if first {
		return lo, hi, false
	}

	span := hi.Sub(lo)
	if span.X == 0 {
		span.X = 1
	}
	if span.Y == 0 {
		span.Y = 1
	}
	pad := span.Scale(0.1)
	return lo.Sub(pad), hi.Add(pad), true
}

// project maps world points into a width by height image with one uniform
// scale, so the chain keeps its shape. World y already grows downward.
func project(lo, hi dynamo.Vec2, width, height int) func(dynamo.Vec2) (float64, float64) {
	span := hi.Sub(lo)
	s := min(float64(width)/span.X, float64(height)/span.Y)
	offX := (float64(width) - span.X*s) / 2
	offY := (float64(height) - span.Y*s) / 2
	return func(p dynamo.Vec2) (float64, float64) {
		return offX + (p.X-lo.X)*s, offY + (p.Y-lo.Y)*s
	}
}

// ChainToSVG draws one frame: a segment per spring and a marker per
// particle, with the anchor highlighted.
func ChainToSVG(frame []dynamo.Vec2, width, height int) string {
	lo, hi, ok := bounds(frame)
	if !ok {
		return ""
	}
	proj := project(lo, hi, width, height)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	sb.WriteString(`<g stroke="#00ffff" stroke-width="2">` + "\n")
	for i := 1; i < len(frame); i++ {
		if !frame[i-1].IsValid() || !frame[i].IsValid() {
			continue
		}
		x0, y0 := proj(frame[i-1])
		x1, y1 := proj(frame[i])
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x0, y0, x1, y1)
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g fill="#ffffff">` + "\n")
	for i, p := range frame {
		if !p.IsValid() {
			continue
		}
		x, y := proj(p)
		fill := ""
		if i == 0 {
			fill = ` fill="#ff00ff"`
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3"%s/>`+"\n", x, y, fill)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the path traced by a single particle.
func TrajectoryToSVG(points []dynamo.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}
	lo, hi, ok := bounds(points)
	if !ok {
		return ""
	}
	proj := project(lo, hi, width, height)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, strokeColor)

	move := true
	for _, p := range points {
		if !p.IsValid() {
			move = true
			continue
		}
		x, y := proj(p)
		if move {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			move = false
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// Trajectory collects particle index from each frame.
func Trajectory(frames [][]dynamo.Vec2, index int) []dynamo.Vec2 {
	out := make([]dynamo.Vec2, 0, len(frames))
	for _, f := range frames {
		if index >= 0 && index < len(f) {
			out = append(out, f[index])
		}
	}
	return out
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.DotWidth())*scale, float64(canvas.DotHeight())*scale)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	r := scale * 0.4
	for y := 0; y < canvas.DotHeight(); y++ {
		for x := 0; x < canvas.DotWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, r)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

package analysis

import (
	"strings"
)

type Point struct {
	X, Y float64
}

// PhasePortrait pairs a coordinate with its velocity.
type PhasePortrait struct {
	Points []Point
}

// NewPhasePortrait differentiates series sampled every dt seconds. The
// first sample has no velocity and is dropped.
func NewPhasePortrait(series []float64, dt float64) *PhasePortrait {
	if len(series) < 2 || dt <= 0 {
		return &PhasePortrait{}
	}
	pts := make([]Point, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		pts = append(pts, Point{X: series[i], Y: (series[i] - series[i-1]) / dt})
	}
	return &PhasePortrait{Points: pts}
}

// ASCII plots the portrait into a width by height grid with a 10% margin.
// Zero axes are drawn when they fall inside the plotted range.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)
	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		r, c := row(pt.Y), col(pt.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			if grid[r][c] == ' ' {
				grid[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			if grid[r][c] == ' ' {
				grid[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}

package export

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/viz"
)

func TestChainToSVG(t *testing.T) {
	frame := []dynamo.Vec2{dynamo.V(0, 0), dynamo.V(0, 1), dynamo.V(1, 2)}
	svg := ChainToSVG(frame, 200, 100)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete svg document")
	}
	if got := strings.Count(svg, "<line"); got != 2 {
		t.Errorf("expected 2 segments, got %d", got)
	}
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("expected 3 markers, got %d", got)
	}
}

func TestChainToSVGSkipsInvalid(t *testing.T) {
	frame := []dynamo.Vec2{dynamo.V(0, 0), dynamo.V(math.NaN(), 1), dynamo.V(1, 2)}
	svg := ChainToSVG(frame, 200, 100)
	if strings.Contains(svg, "NaN") {
		t.Error("NaN leaked into svg")
	}
	if got := strings.Count(svg, "<line"); got != 0 {
		t.Errorf("segments touching invalid particles should be dropped, got %d", got)
	}

	if ChainToSVG([]dynamo.Vec2{dynamo.V(math.Inf(1), 0)}, 10, 10) != "" {
		t.Error("frame without valid points should render nothing")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	frames := [][]dynamo.Vec2{
		{dynamo.V(0, 0), dynamo.V(1, 1)},
		{dynamo.V(0, 0), dynamo.V(2, 1)},
		{dynamo.V(0, 0), dynamo.V(3, 2)},
	}
	svg := TrajectoryToSVG(Trajectory(frames, 1), 100, 100, "#ff00ff")

	if !strings.Contains(svg, `stroke="#ff00ff"`) {
		t.Error("stroke color missing")
	}
	if got := strings.Count(svg, " L"); got != 2 {
		t.Errorf("expected 2 line commands, got %d", got)
	}
	if TrajectoryToSVG(nil, 10, 10, "#fff") != "" {
		t.Error("empty trajectory should render nothing")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 4)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Error("unexpected svg size")
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should render nothing")
	}
}

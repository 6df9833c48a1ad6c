package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle      lipgloss.Style
	chainStyle       lipgloss.Style
	statsStyle       lipgloss.Style
	headerStyle      lipgloss.Style
	labelStyle       lipgloss.Style
	valueStyle       lipgloss.Style
	activeParamStyle lipgloss.Style
	graphStyle       lipgloss.Style
	helpStyle        lipgloss.Style
	statusRunning    lipgloss.Style
	statusPaused     lipgloss.Style
	statusError      lipgloss.Style
	sparkHigh        lipgloss.Style
	sparkMid         lipgloss.Style
	sparkLow         lipgloss.Style
	menuCursor       lipgloss.Style
	menuItem         lipgloss.Style
	menuDim          lipgloss.Style
)

// canvasPadX and canvasPadY locate the canvas inside the live view; mouse
// events are translated by them.
const (
	canvasPadX = 2
	canvasPadY = 1
)

func init() {
	applyTheme(CurrentTheme)
}

func applyTheme(t Theme) {
	canvasStyle = lipgloss.NewStyle().Padding(canvasPadY, canvasPadX)
	chainStyle = lipgloss.NewStyle().Foreground(t.Secondary)
	statsStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Muted).
		Padding(1, 2).
		Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(t.Muted).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(t.Text)
	activeParamStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	graphStyle = lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0)
	helpStyle = lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1)
	statusRunning = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	statusPaused = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	statusError = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	sparkHigh = lipgloss.NewStyle().Foreground(t.Error)
	sparkMid = lipgloss.NewStyle().Foreground(t.Warning)
	sparkLow = lipgloss.NewStyle().Foreground(t.Success)
	menuCursor = lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
	menuItem = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	menuDim = lipgloss.NewStyle().Foreground(t.Muted)
}

// Sparkline renders values as block characters sampled to width. Values are
// normalized against their own range.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(sparkHigh.Render(c))
		case norm > 0.3:
			b.WriteString(sparkMid.Render(c))
		default:
			b.WriteString(sparkLow.Render(c))
		}
	}
	return b.String()
}

// Bar renders a fill gauge for ratio in [0, 1].
func Bar(ratio float64, width int) string {
	filled := min(max(int(ratio*float64(width)), 0), width)
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

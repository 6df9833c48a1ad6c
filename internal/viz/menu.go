package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ropesim/internal/config"
)

var presetInfo = map[string]string{
	"classic": "default hanging rope",
	"taut":    "stiff springs",
	"slack":   "soft springs",
	"heavy":   "long and heavy",
	"whip":    "end driven in a circle",
	"pull":    "end pulled by PID",
	"long":    "many fine links",
}

type menuState int

const (
	stateMenu menuState = iota
	stateSim
)

// menu picks a preset and then hands over to the live view.
type menu struct {
	state   menuState
	cursor  int
	presets []string
	live    Model
	err     error
}

func newMenu() menu {
	return menu{presets: config.ListPresets()}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		name := m.presets[m.cursor]
		live, err := NewModel(config.GetPreset(name), name)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.live, m.state = live, stateSim
		return m, m.live.Init()
	}
	return m, nil
}

func (m menu) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle.Render("ROPESIM") + "\n")
	b.WriteString("    " + menuDim.Render("spring chain simulation") + "\n")
	b.WriteString("    " + menuDim.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuItem.Render(fmt.Sprintf("%-10s", name)), activeParamStyle.Render(presetInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", menuDim.Render(fmt.Sprintf("%-10s", name)), menuDim.Render(presetInfo[name])))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + statusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuCursor.Render("j/k") + menuDim.Render(" navigate  ") + menuCursor.Render("enter") + menuDim.Render(" select  ") + menuCursor.Render("q") + menuDim.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu, then the live view.
func RunInteractive() error {
	_, err := tea.NewProgram(newMenu(), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// View types with a TUI.
const (
	ViewArtifact = "artifact"
	ViewMetrics  = "metrics"
)

// Run starts the TUI for the view type.
// Returns an error if the view type doesn't support TUI.
func Run(viewType string, data any) error {
	model, err := newModel(viewType, data)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// RenderStatic renders a view once at a fixed size, without a terminal.
func RenderStatic(viewType string, data any, width, height int) (string, error) {
	model, err := newModel(viewType, data)
	if err != nil {
		return "", err
	}
	updated, _ := model.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.View(), nil
}

func newModel(viewType string, data any) (tea.Model, error) {
	switch viewType {
	case ViewArtifact:
		return newArtifactModel(data)
	case ViewMetrics:
		return newMetricsModel(data)
	default:
		return nil, fmt.Errorf("TUI mode is not supported for %s", viewType)
	}
}

// IsTUISupported returns true if the view type supports TUI mode.
func IsTUISupported(viewType string) bool {
	for _, v := range SupportedTUIViews() {
		if v == viewType {
			return true
		}
	}
	return false
}

// SupportedTUIViews returns a list of view types that support TUI.
func SupportedTUIViews() []string {
	return []string{ViewArtifact, ViewMetrics}
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
	Top  key.Binding
	End  key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
}

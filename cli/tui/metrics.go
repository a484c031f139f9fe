package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/reqforge/metrics"
)

// MetricsModel shows session counters as stat boxes.
type MetricsModel struct {
	snap     metrics.Snapshot
	width    int
	quitting bool
}

func newMetricsModel(data any) (MetricsModel, error) {
	switch s := data.(type) {
	case metrics.Snapshot:
		return MetricsModel{snap: s}, nil
	case *metrics.Snapshot:
		if s == nil {
			return MetricsModel{}, fmt.Errorf("metrics view: nil snapshot")
		}
		return MetricsModel{snap: *s}, nil
	default:
		return MetricsModel{}, fmt.Errorf("metrics view: unsupported data %T", data)
	}
}

// Init implements tea.Model.
func (m MetricsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m MetricsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m MetricsModel) View() string {
	if m.quitting {
		return ""
	}
	s := m.snap

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Session %s  model %s  storage %s", s.SessionID, s.Model, s.StorageBackend)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		statBox("Invocations", s.InvocationsStarted, highlightColor),
		statBox("Succeeded", s.InvocationsSucceeded, successColor),
		statBox("Failed", s.InvocationsFailed, CountStyle(s.InvocationsFailed)),
		statBox("Retries", s.Retries, warningColor),
	))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		statBox("Valid", s.ArtifactsValid, successColor),
		statBox("Invalid", s.ArtifactsInvalid, CountStyle(s.ArtifactsInvalid)),
		statBox("Exports", s.ExportSuccess, highlightColor),
		statBox("Publishes", s.PublishSuccess, highlightColor),
	))

	if len(s.FailuresByKind) > 0 {
		b.WriteString("\n\n")
		b.WriteString(TitleStyle.Render("Failures by kind"))
		for _, k := range sortedKeys(s.FailuresByKind) {
			b.WriteString("\n")
			b.WriteString(LabelStyle.Width(16).Render(k+":") + " " + ValueStyle.Render(fmt.Sprintf("%d", s.FailuresByKind[k])))
		}
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Press q or Ctrl+C to quit"))
	return b.String()
}

func statBox(label string, value int64, color lipgloss.Color) string {
	content := StatLabelStyle.Render(label) + "\n" + StatValueStyle.Foreground(color).Render(fmt.Sprintf("%d", value))
	return StatBoxStyle.Render(content)
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

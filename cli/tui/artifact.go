package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/reqforge/wizard"
)

// ArtifactModel is a scrollable view of one stage result.
type ArtifactModel struct {
	result   wizard.Result
	viewport viewport.Model
	ready    bool
	quitting bool
}

func newArtifactModel(data any) (ArtifactModel, error) {
	switch r := data.(type) {
	case wizard.Result:
		return ArtifactModel{result: r}, nil
	case *wizard.Result:
		if r == nil {
			return ArtifactModel{}, fmt.Errorf("artifact view: nil result")
		}
		return ArtifactModel{result: *r}, nil
	default:
		return ArtifactModel{}, fmt.Errorf("artifact view: unsupported data %T", data)
	}
}

// Init implements tea.Model.
func (m ArtifactModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ArtifactModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - lipgloss.Height(m.header()) - 1
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.body())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, keys.End):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ArtifactModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}
	help := HelpStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll  g/G top/bottom  q quit", m.viewport.ScrollPercent()*100))
	return m.header() + "\n" + m.viewport.View() + "\n" + help
}

func (m ArtifactModel) header() string {
	r := m.result
	kind := string(r.Artifact.Kind)
	if kind == "" {
		kind = "text"
	}

	rows := [][2]string{
		{"Stage", ValueStyle.Render(string(r.Stage))},
		{"Kind", ValueStyle.Render(kind)},
		{"Attempts", AttemptStyle(r.Attempts).Render(fmt.Sprintf("%d", r.Attempts))},
		{"Duration", ValueStyle.Render(r.Duration.Round(time.Millisecond).String())},
	}
	if names := r.Artifact.SectionNames(); len(names) > 0 {
		rows = append(rows, [2]string{"Sections", ValueStyle.Render(strings.Join(names, ", "))})
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Stage Result"))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render(row[0]+":") + " " + row[1])
	}
	return HeaderStyle.Render(b.String())
}

// body is the artifact content; code bundles get highlighted section headings.
func (m ArtifactModel) body() string {
	a := m.result.Artifact
	if len(a.Sections) == 0 {
		return a.Content
	}
	var b strings.Builder
	for i, s := range a.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SectionStyle.Render("## " + s.Name))
		b.WriteString("\n")
		b.WriteString(strings.Join(s.Lines, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

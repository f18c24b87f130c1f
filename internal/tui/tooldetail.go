package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/decktools/decktools/internal/installer"
)

// toolDetailModel shows everything the manifest says about one tool.
type toolDetailModel struct {
	env   *env
	index int
	width int
}

func newToolDetail(e *env, index int) *toolDetailModel {
	return &toolDetailModel{env: e, index: index}
}

// newPreview shows the exact script an install of the tool would run.
func newPreview(e *env, index int) *ViewerModel {
	t := e.tools[index]
	loader := func() (string, error) {
		return e.cat.Preview(e.ctx, index)
	}
	return NewScriptViewer("Script: "+t.Title, loader, e.theme)
}

func (m *toolDetailModel) Init() tea.Cmd { return nil }

func (m *toolDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyPressMsg:
		if IsQuit(msg) || IsBack(msg) {
			return m, popView
		}
		switch msg.String() {
		case "i", keyEnter:
			return m, pushView(newInstall(m.env, m.index))
		case "p":
			return m, pushView(newPreview(m.env, m.index))
		}
	}
	return m, nil
}

func (m *toolDetailModel) View() tea.View {
	theme := m.env.theme
	t := m.env.tools[m.index]
	label := lipgloss.NewStyle().Foreground(theme.Muted).Width(10)

	var b strings.Builder
	b.WriteString(theme.SectionBanner(t.Title))
	b.WriteString("\n")

	for _, line := range t.DescriptionLines() {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "  %s%s\n", label.Render("Repo"), t.Repo)
	fmt.Fprintf(&b, "  %s%s\n", label.Render("Script"), installer.ScriptPath(t.Title))
	if t.NeedsRoot {
		fmt.Fprintf(&b, "  %s%s asks for your sudo password\n", label.Render("Root"), theme.RootBadge())
	} else {
		fmt.Fprintf(&b, "  %s%s\n", label.Render("Root"), "not required")
	}
	if t.HasNote() {
		b.WriteString("\n")
		note := theme.Note
		if m.width > 8 {
			note = note.Width(m.width - 4)
		}
		b.WriteString("  " + note.Render("Note: "+t.NoteText()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpKey.Render("i") + " install  " +
		theme.HelpKey.Render("p") + " preview script  " +
		theme.HelpKey.Render(keyEsc) + " back")
	b.WriteString("\n")

	return tea.NewView(b.String())
}

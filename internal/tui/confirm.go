package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// ConfirmResult is sent when the user responds to a confirmation dialog.
type ConfirmResult struct {
	Confirmed bool
}

// ConfirmModel is a yes/no dialog. Yes and No hold the button labels.
type ConfirmModel struct {
	Title  string
	Body   string
	Yes    string
	No     string
	Cursor bool // true = yes, false = no
	done   bool
	theme  *Theme
}

// NewConfirm creates a new confirmation dialog.
func NewConfirm(title, body string, defaultYes bool, theme *Theme) *ConfirmModel {
	return &ConfirmModel{
		Title:  title,
		Body:   body,
		Yes:    "Yes",
		No:     "No",
		Cursor: defaultYes,
		theme:  theme,
	}
}

// Done reports whether the user has answered.
func (m *ConfirmModel) Done() bool { return m.done }

func (m *ConfirmModel) answer(yes bool) tea.Cmd {
	m.Cursor = yes
	m.done = true
	return func() tea.Msg { return ConfirmResult{Confirmed: yes} }
}

func (m *ConfirmModel) Update(msg tea.Msg) (*ConfirmModel, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || m.done {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		return m, m.answer(true)
	case "n", "N", "q", keyEsc, keyCtrlC:
		return m, m.answer(false)
	case keyEnter:
		return m, m.answer(m.Cursor)
	case "left", "h", "right", "l", "tab":
		m.Cursor = !m.Cursor
	}
	return m, nil
}

func (m *ConfirmModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render(m.Title))
	b.WriteString("\n\n")

	if m.Body != "" {
		b.WriteString(m.Body)
		b.WriteString("\n\n")
	}

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(0, 1)

	unselectedStyle := lipgloss.NewStyle().
		Foreground(m.theme.Muted).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Muted).
		Padding(0, 1)

	yesStyle, noStyle := unselectedStyle, selectedStyle
	if m.Cursor {
		yesStyle, noStyle = selectedStyle, unselectedStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, yesStyle.Render(m.Yes), "  ", noStyle.Render(m.No)))
	b.WriteString("\n\n")

	help := m.theme.HelpKey.Render("←/→") + " " + m.theme.HelpDesc.Render("switch") + "  " +
		m.theme.HelpKey.Render(keyEnter) + " " + m.theme.HelpDesc.Render("confirm") + "  " +
		m.theme.HelpKey.Render(keyEsc) + " " + m.theme.HelpDesc.Render("cancel")
	b.WriteString(help)

	return b.String()
}

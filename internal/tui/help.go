package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// HelpModel shows a keybinding reference overlay.
type HelpModel struct {
	theme *Theme
}

// NewHelp creates a new help overlay.
func NewHelp(theme *Theme) *HelpModel {
	return &HelpModel{theme: theme}
}

func (m *HelpModel) Init() tea.Cmd { return nil }

func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		if IsQuit(msg) || IsBack(msg) || msg.String() == "?" {
			return m, popView
		}
	}
	return m, nil
}

type helpSection struct {
	title string
	binds [][2]string
}

var helpSections = []helpSection{
	{
		title: "Tool list",
		binds: [][2]string{
			{"↑ / k", "Move up"},
			{"↓ / j", "Move down"},
			{"pgup / pgdn", "Page up / down"},
			{"g / G", "Go to top / bottom"},
			{keyEnter, "Show tool details"},
			{"i", "Install the selected tool"},
			{"p", "Preview the install script"},
			{"d", "Run health checks"},
			{"q / ctrl+c", "Quit"},
		},
	},
	{
		title: "Tool details",
		binds: [][2]string{
			{"i / " + keyEnter, "Install"},
			{"p", "Preview the install script"},
			{"esc", "Go back"},
		},
	},
	{
		title: "Install",
		binds: [][2]string{
			{"y / " + keyEnter, "Start the install"},
			{"n / esc", "Cancel"},
			{"← / → / tab", "Switch selection"},
			{keyEnter, "Dismiss the result"},
		},
	},
	{
		title: "Viewers",
		binds: [][2]string{
			{"j / k", "Scroll up / down"},
			{"pgup / pgdn", "Page up / down"},
			{"g / G", "Go to top / bottom"},
			{"y", "Copy to clipboard"},
			{"esc / q", "Close viewer"},
		},
	},
}

func (m *HelpModel) View() tea.View {
	var b strings.Builder

	b.WriteString(m.theme.SectionBanner("Keyboard Shortcuts"))
	b.WriteString("\n")

	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary).Width(18)
	descStyle := lipgloss.NewStyle().Foreground(m.theme.Muted)
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Secondary)

	for _, section := range helpSections {
		b.WriteString(headStyle.Render(section.title))
		b.WriteString("\n")
		for _, bind := range section.binds {
			b.WriteString("  " + keyStyle.Render(bind[0]) + descStyle.Render(bind[1]) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.theme.HelpKey.Render("esc / q / ?") + " " + m.theme.HelpDesc.Render("close"))

	return tea.NewView(b.String())
}

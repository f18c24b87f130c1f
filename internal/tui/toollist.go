package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// toolListModel is the first screen: every tool from the manifest, in
// manifest order.
type toolListModel struct {
	env    *env
	cursor int
	scroll int // index of first visible tool
	width  int
	height int
}

func newToolList(e *env) *toolListModel {
	return &toolListModel{env: e}
}

func (m *toolListModel) Init() tea.Cmd { return nil }

// visibleRows returns how many tool rows fit in the current terminal height.
func (m *toolListModel) visibleRows() int {
	// banner box = 4 lines, blank + section head = 2, footer = 2
	const overhead = 8
	if m.height == 0 {
		return len(m.env.tools)
	}
	return max(1, m.height-overhead)
}

// clampScroll ensures the scroll offset keeps the cursor visible.
func (m *toolListModel) clampScroll() {
	visible := m.visibleRows()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+visible {
		m.scroll = m.cursor - visible + 1
	}
	m.scroll = min(m.scroll, max(0, len(m.env.tools)-visible))
}

func (m *toolListModel) move(delta int) {
	if len(m.env.tools) == 0 {
		return
	}
	m.cursor = min(max(0, m.cursor+delta), len(m.env.tools)-1)
	m.clampScroll()
}

func (m *toolListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case tea.KeyPressMsg:
		if IsQuit(msg) {
			return m, tea.Quit
		}

		switch msg.String() {
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup", "b":
			m.move(-m.visibleRows())
		case "pgdown", "f":
			m.move(m.visibleRows())
		case "g":
			m.move(-len(m.env.tools))
		case "G":
			m.move(len(m.env.tools))
		case keyEnter:
			if len(m.env.tools) > 0 {
				return m, pushView(newToolDetail(m.env, m.cursor))
			}
		case "i":
			if len(m.env.tools) > 0 {
				return m, pushView(newInstall(m.env, m.cursor))
			}
		case "p":
			if len(m.env.tools) > 0 {
				return m, pushView(newPreview(m.env, m.cursor))
			}
		case "d":
			if m.env.opts.Doctor != nil {
				return m, pushView(NewDoctor(m.env))
			}
		case "?":
			return m, pushView(NewHelp(m.env.theme))
		}
	}
	return m, nil
}

func (m *toolListModel) View() tea.View {
	theme := m.env.theme
	tools := m.env.tools
	var b strings.Builder

	title := theme.Title.Render("decktools  " + m.env.opts.Version)
	subtitle := theme.Subtitle.Render("Steam Deck tool installer")
	b.WriteString(theme.Banner.Render(title + "\n" + subtitle))
	b.WriteString("\n\n")
	b.WriteString(theme.SectionHead.Render(fmt.Sprintf("Tools (%d)", len(tools))))
	b.WriteString("\n")

	if len(tools) == 0 {
		b.WriteString("  No tools are listed in the manifest.\n")
	}

	maxName := 0
	for _, t := range tools {
		maxName = max(maxName, lipgloss.Width(t.Title))
	}

	muted := lipgloss.NewStyle().Foreground(theme.Muted)
	selected := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	visible := m.visibleRows()
	end := min(m.scroll+visible, len(tools))
	var rows strings.Builder
	for i := m.scroll; i < end; i++ {
		t := tools[i]
		name := fmt.Sprintf("%-*s", maxName, t.Title)
		badge := "      "
		if t.NeedsRoot {
			badge = theme.RootBadge()
		}
		desc := ""
		if lines := t.DescriptionLines(); len(lines) > 0 {
			desc = lines[0]
		}

		cursor := "  "
		if i == m.cursor {
			cursor = selected.Render("> ")
			name = selected.Render(name)
		}
		fmt.Fprintf(&rows, "%s%s %s  %s", cursor, name, badge, muted.Render(desc))
		if i < end-1 {
			rows.WriteString("\n")
		}
	}

	var scrollPct float64
	if len(tools) > visible {
		scrollPct = float64(m.scroll) / float64(len(tools)-visible)
	}
	if bar := renderScrollbar(end-m.scroll, len(tools), visible, scrollPct, theme); bar != "" {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rows.String(), " ", bar))
	} else {
		b.WriteString(rows.String())
	}
	b.WriteString("\n\n")

	keys := []string{
		theme.HelpKey.Render("↑/↓") + " navigate",
		theme.HelpKey.Render(keyEnter) + " details",
		theme.HelpKey.Render("i") + " install",
		theme.HelpKey.Render("p") + " preview",
	}
	if m.env.opts.Doctor != nil {
		keys = append(keys, theme.HelpKey.Render("d")+" doctor")
	}
	keys = append(keys, theme.HelpKey.Render("?")+" help", theme.HelpKey.Render("q")+" quit")
	b.WriteString(strings.Join(keys, "  "))
	b.WriteString("\n")

	return tea.NewView(b.String())
}

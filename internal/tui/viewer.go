package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// scrollbarWidth is the space reserved for the scrollbar column (space + char).
const scrollbarWidth = 2

const viewerHeaderLines = 4 // banner (3) + blank line
const viewerFooterLines = 2 // blank line + help text

// renderScrollbar returns a single-column string (one char per row) showing
// a scrollbar track with a proportional thumb. Returns empty string when
// all content fits on screen.
func renderScrollbar(trackHeight, totalItems, visibleItems int, scrollPercent float64, theme *Theme) string {
	if totalItems <= visibleItems || trackHeight < 1 {
		return ""
	}
	thumbSize := max(1, trackHeight*visibleItems/totalItems)
	thumbStart := int(scrollPercent * float64(trackHeight-thumbSize))
	thumbStart = min(max(0, thumbStart), trackHeight-thumbSize)

	track := lipgloss.NewStyle().Foreground(theme.Muted)
	thumb := lipgloss.NewStyle().Foreground(theme.Secondary)

	lines := make([]string, trackHeight)
	for i := range lines {
		if i >= thumbStart && i < thumbStart+thumbSize {
			lines[i] = thumb.Render("┃")
		} else {
			lines[i] = track.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}

// numberLines prefixes each line with a right-aligned line number.
func numberLines(s string) string {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	width := len(fmt.Sprint(len(lines)))
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%*d │ %s", width, i+1, line)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

type viewerContentMsg struct {
	content string
}

type viewerErrorMsg struct {
	err error
}

// viewerCopiedMsg clears the "Copied!" flash after a delay.
type viewerCopiedMsg struct{}

// ViewerModel wraps a bubbles viewport with a title bar, help footer,
// and scroll percentage indicator. Content may be loaded asynchronously.
type ViewerModel struct {
	title    string
	viewport viewport.Model
	theme    *Theme
	ready    bool
	loading  bool
	err      error
	copied   bool
	raw      string // unformatted content, what "y" copies
	numbered bool
	loader   func() (string, error)
	width    int
	height   int
}

// NewLoadingViewer creates a viewer that shows "Loading..." and runs loader
// asynchronously to fetch content.
func NewLoadingViewer(title string, loader func() (string, error), theme *Theme) *ViewerModel {
	return &ViewerModel{
		title:   title,
		theme:   theme,
		loading: true,
		loader:  loader,
	}
}

// NewScriptViewer is a loading viewer that shows line numbers. Copying
// yields the script without them.
func NewScriptViewer(title string, loader func() (string, error), theme *Theme) *ViewerModel {
	m := NewLoadingViewer(title, loader, theme)
	m.numbered = true
	return m
}

func (m *ViewerModel) setContent(content string) {
	m.raw = content
	m.rebuild()
}

// rebuild recreates the viewport at the current size with the current content.
func (m *ViewerModel) rebuild() {
	vpHeight := max(1, m.height-viewerHeaderLines-viewerFooterLines)
	vpWidth := max(1, m.width-scrollbarWidth)
	m.viewport = viewport.New(viewport.WithWidth(vpWidth), viewport.WithHeight(vpHeight))
	m.viewport.SoftWrap = true
	display := m.raw
	if m.numbered && display != "" {
		display = numberLines(display)
	}
	m.viewport.SetContent(display)
}

// SetSize initializes or resizes the viewport to the given dimensions.
func (m *ViewerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.rebuild()
	m.ready = true
}

func (m *ViewerModel) Init() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	loader := m.loader
	return func() tea.Msg {
		content, err := loader()
		if err != nil {
			return viewerErrorMsg{err: err}
		}
		return viewerContentMsg{content: content}
	}
}

func (m *ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.SetSize(msg.Width, msg.Height)
			return m, nil
		}
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetWidth(max(1, msg.Width-scrollbarWidth))
		m.viewport.SetHeight(max(1, msg.Height-viewerHeaderLines-viewerFooterLines))
		return m, nil

	case viewerContentMsg:
		m.loading = false
		m.setContent(msg.content)
		m.ready = true
		return m, nil

	case viewerErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case viewerCopiedMsg:
		m.copied = false
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", keyCtrlC, keyEsc:
			return m, popView
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		case "y":
			if m.loading || m.err != nil {
				return m, nil
			}
			m.copied = true
			return m, tea.Batch(
				tea.SetClipboard(m.raw),
				tea.Tick(2*time.Second, func(time.Time) tea.Msg {
					return viewerCopiedMsg{}
				}),
			)
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *ViewerModel) View() tea.View {
	var b strings.Builder
	b.WriteString(m.theme.SectionBanner(m.title))

	if m.loading {
		b.WriteString("\n  Loading...")
		return tea.NewView(b.String())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.ErrorBox(m.err.Error(), m.width))
		b.WriteString("\n\n  Press q to go back.\n")
		return tea.NewView(b.String())
	}

	b.WriteString("\n")
	if m.ready {
		vpContent := m.viewport.View()
		totalLines := m.viewport.TotalLineCount()
		vpHeight := m.viewport.Height()
		bar := renderScrollbar(vpHeight, totalLines, vpHeight, m.viewport.ScrollPercent(), m.theme)
		if bar != "" {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, vpContent, " ", bar))
		} else {
			b.WriteString(vpContent)
		}
		b.WriteString("\n")
	}

	pct := int(m.viewport.ScrollPercent() * 100)
	var trail string
	if m.copied {
		trail = lipgloss.NewStyle().Foreground(m.theme.Success).Bold(true).Render("Copied!")
	} else {
		trail = m.theme.HelpKey.Render(fmt.Sprintf("%d", pct)) + "%"
	}
	help := fmt.Sprintf(
		"%s scroll  %s page  %s/%s top/bottom  %s copy  %s back  %s",
		m.theme.HelpKey.Render("j/k"),
		m.theme.HelpKey.Render("pgup/pgdn"),
		m.theme.HelpKey.Render("g"),
		m.theme.HelpKey.Render("G"),
		m.theme.HelpKey.Render("y"),
		m.theme.HelpKey.Render(keyEsc),
		trail,
	)
	b.WriteString(help)

	return tea.NewView(b.String())
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "charm.land/bubbletea/v2"

	"github.com/decktools/decktools/internal/manifest"
)

// ErrAccessible is returned by Run when the environment asks for plain
// output; callers fall back to the non-interactive listing.
var ErrAccessible = errors.New("interactive UI disabled by NO_COLOR or ACCESSIBLE")

// Catalog is the loaded tool list and its actions. *catalog.Catalog
// implements it.
type Catalog interface {
	Tools() []manifest.Tool
	Install(ctx context.Context, index int) error
	Preview(ctx context.Context, index int) (string, error)
}

// Options configures the UI.
type Options struct {
	Version string
	// InPlace hands this terminal to install scripts instead of keeping the
	// UI on screen while an emulator window runs them.
	InPlace bool
	// Doctor backs the doctor view. The view is hidden when nil.
	Doctor func(ctx context.Context, w io.Writer) error
	// Theme defaults to DefaultTheme.
	Theme *Theme
}

// env is shared by every view of one UI run.
type env struct {
	ctx   context.Context
	cat   Catalog
	opts  Options
	theme *Theme
	tools []manifest.Tool
}

// appModel is the root model that manages the navigation stack.
type appModel struct {
	stack  []tea.Model // view navigation stack
	width  int
	height int
}

func newApp(ctx context.Context, cat Catalog, opts Options) *appModel {
	theme := opts.Theme
	if theme == nil {
		t := DefaultTheme()
		theme = &t
	}
	e := &env{ctx: ctx, cat: cat, opts: opts, theme: theme, tools: cat.Tools()}
	return &appModel{stack: []tea.Model{newToolList(e)}}
}

// Run starts the interactive UI over an already loaded catalog and blocks
// until the user quits.
func Run(ctx context.Context, cat Catalog, opts Options) error {
	if IsAccessible() {
		return ErrAccessible
	}

	p := tea.NewProgram(newApp(ctx, cat, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func (m *appModel) top() tea.Model {
	return m.stack[len(m.stack)-1]
}

func (m *appModel) Init() tea.Cmd {
	return m.top().Init()
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case PushViewMsg:
		m.stack = append(m.stack, msg.Model)
		initCmd := msg.Model.Init()
		// Forward current window size to newly pushed view.
		var sizeCmd tea.Cmd
		if m.width > 0 && m.height > 0 {
			updated, cmd := msg.Model.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
			m.stack[len(m.stack)-1] = updated
			sizeCmd = cmd
		}
		return m, tea.Batch(initCmd, sizeCmd)

	case PopViewMsg:
		if len(m.stack) == 1 {
			return m, tea.Quit
		}
		m.stack = m.stack[:len(m.stack)-1]
		if m.width > 0 && m.height > 0 {
			updated, cmd := m.top().Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
			m.stack[len(m.stack)-1] = updated
			return m, cmd
		}
		return m, nil
	}

	// Forward everything else to the current view
	updated, cmd := m.top().Update(msg)
	m.stack[len(m.stack)-1] = updated
	return m, cmd
}

func (m *appModel) View() tea.View {
	v := tea.NewView(m.top().View().Content)
	v.AltScreen = true
	return v
}

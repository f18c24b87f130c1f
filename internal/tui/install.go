package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/decktools/decktools/internal/installer"
	"github.com/decktools/decktools/internal/manifest"
)

type installPhase int

const (
	phaseConfirm installPhase = iota
	phaseRunning
	phaseDone
)

// installModel walks one install through confirm, run and result. A failed
// install ends on a dismissable error box and returns to the previous view.
type installModel struct {
	env     *env
	index   int
	tool    manifest.Tool
	phase   installPhase
	confirm *ConfirmModel
	spinner spinner.Model
	err     error
	width   int
}

func newInstall(e *env, index int) *installModel {
	t := e.tools[index]

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(e.theme.Primary)

	confirm := NewConfirm("Install "+t.Title+"?", installBody(e.theme, t), !t.NeedsRoot, e.theme)
	confirm.Yes = "Install"
	confirm.No = "Cancel"

	return &installModel{
		env:     e,
		index:   index,
		tool:    t,
		confirm: confirm,
		spinner: sp,
	}
}

func installBody(theme *Theme, t manifest.Tool) string {
	muted := lipgloss.NewStyle().Foreground(theme.Muted)
	var b strings.Builder
	b.WriteString(muted.Render("Runs ") + installer.ScriptPath(t.Title))
	if t.NeedsRoot {
		b.WriteString("\n" + theme.RootBadge() + " the script will ask for your sudo password")
	}
	if t.HasNote() {
		b.WriteString("\n" + theme.Note.Render("Note: "+t.NoteText()))
	}
	b.WriteString("\n" + muted.Render("Press p on the tool list to read the script first."))
	return b.String()
}

func (m *installModel) Init() tea.Cmd { return nil }

// start runs the install off the UI goroutine. In place installs suspend
// the UI so the script owns the terminal.
func (m *installModel) start() tea.Cmd {
	e, index, title := m.env, m.index, m.tool.Title
	if e.opts.InPlace {
		proc := &installProcess{run: func() error { return e.cat.Install(e.ctx, index) }}
		return tea.Exec(proc, func(err error) tea.Msg {
			return installDoneMsg{title: title, err: err}
		})
	}
	return func() tea.Msg {
		return installDoneMsg{title: title, err: e.cat.Install(e.ctx, index)}
	}
}

func (m *installModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case ConfirmResult:
		if !msg.Confirmed {
			return m, popView
		}
		m.phase = phaseRunning
		return m, tea.Batch(m.spinner.Tick, m.start())

	case installDoneMsg:
		m.phase = phaseDone
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		switch m.phase {
		case phaseConfirm:
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		case phaseRunning:
			if msg.String() == keyCtrlC {
				return m, tea.Quit
			}
		case phaseDone:
			switch msg.String() {
			case keyEnter, keyEsc, "q", "space":
				return m, popView
			}
		}
	}
	return m, nil
}

func (m *installModel) View() tea.View {
	theme := m.env.theme
	var b strings.Builder
	b.WriteString(theme.SectionBanner("Install"))
	b.WriteString("\n")

	switch m.phase {
	case phaseConfirm:
		b.WriteString(m.confirm.View())
	case phaseRunning:
		wait := "waiting for the terminal window to close"
		if m.env.opts.InPlace {
			wait = "running in this terminal"
		}
		fmt.Fprintf(&b, "  %s Installing %s... %s\n", m.spinner.View(), m.tool.Title,
			lipgloss.NewStyle().Foreground(theme.Muted).Render(wait))
	case phaseDone:
		if m.err == nil {
			b.WriteString(theme.SuccessBox(m.tool.Title + " installed"))
		} else {
			b.WriteString(theme.ErrorBox(m.err.Error(), m.width))
			if hint := failureHint(m.err); hint != "" {
				b.WriteString("\n  " + lipgloss.NewStyle().Foreground(theme.Muted).Render(hint))
			}
		}
		b.WriteString("\n\n")
		b.WriteString(theme.HelpKey.Render(keyEnter) + " back to the tool list")
	}
	b.WriteString("\n")
	return tea.NewView(b.String())
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, installer.ErrNoTerminal):
		return "No terminal emulator found. Set terminal in config.toml, or \"none\" to run in place."
	case errors.Is(err, installer.ErrSpawnFailed):
		return "The terminal emulator could not be started."
	case errors.Is(err, installer.ErrDownload):
		return "The install script could not be downloaded. Check the network connection."
	case errors.Is(err, installer.ErrScriptFailed):
		return "The install script reported a failure. Its output was shown in the terminal."
	}
	return ""
}

// installProcess adapts an in place install to tea.Exec. After the script
// exits it waits for Enter so its output stays readable.
type installProcess struct {
	run    func() error
	stdin  io.Reader
	stdout io.Writer
}

func (p *installProcess) SetStdin(r io.Reader)  { p.stdin = r }
func (p *installProcess) SetStdout(w io.Writer) { p.stdout = w }
func (p *installProcess) SetStderr(io.Writer)   {}

func (p *installProcess) Run() error {
	err := p.run()
	if p.stdout != nil && p.stdin != nil {
		fmt.Fprint(p.stdout, "\nPress Enter to return to decktools...")
		_, _ = bufio.NewReader(p.stdin).ReadString('\n')
	}
	return err
}

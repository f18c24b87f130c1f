package installer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/decktools/decktools/internal/platform"
)

// TerminalNone runs scripts in the invoking terminal instead of a new window.
const TerminalNone = "none"

// ErrNoTerminal is returned when no usable terminal emulator is found.
var ErrNoTerminal = errors.New("no terminal emulator found")

// Terminal is a terminal emulator and the arguments that make it run a
// command given after them.
type Terminal struct {
	Name string
	Args []string
}

// KnownTerminals lists supported emulators in detection order. konsole is
// what SteamOS desktop mode ships.
var KnownTerminals = []Terminal{
	{Name: "konsole", Args: []string{"--nofork", "-e"}},
	{Name: "gnome-terminal", Args: []string{"--wait", "--"}},
	{Name: "xfce4-terminal", Args: []string{"--disable-server", "-x"}},
	{Name: "alacritty", Args: []string{"-e"}},
	{Name: "kitty"},
	{Name: "xterm", Args: []string{"-e"}},
}

// Direct reports whether the terminal runs scripts in the current session.
func (t Terminal) Direct() bool { return t.Name == TerminalNone }

// Command returns the argv that runs script through sh -c.
func (t Terminal) Command(script string) (string, []string) {
	if t.Direct() {
		return "sh", []string{"-c", script}
	}
	args := make([]string, 0, len(t.Args)+3)
	args = append(args, t.Args...)
	args = append(args, "sh", "-c", script)
	return t.Name, args
}

func (t Terminal) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	return t.Name + " " + strings.Join(t.Args, " ")
}

// ParseTerminal turns a configured terminal string into a Terminal. A bare
// known name gets its default arguments; a bare unknown name gets "-e";
// extra fields are used as the arguments verbatim.
func ParseTerminal(s string) Terminal {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Terminal{}
	}
	if len(fields) > 1 {
		return Terminal{Name: fields[0], Args: fields[1:]}
	}
	if fields[0] == TerminalNone {
		return Terminal{Name: TerminalNone}
	}
	for _, known := range KnownTerminals {
		if known.Name == fields[0] {
			return known
		}
	}
	return Terminal{Name: fields[0], Args: []string{"-e"}}
}

// DetectTerminal resolves preferred, or the first known emulator on PATH
// when preferred is empty.
func DetectTerminal(preferred string) (Terminal, error) {
	return detectTerminal(preferred, platform.Exists)
}

func detectTerminal(preferred string, exists func(string) bool) (Terminal, error) {
	if t := ParseTerminal(preferred); t.Name != "" {
		if t.Direct() || exists(t.Name) {
			return t, nil
		}
		return Terminal{}, fmt.Errorf("%w: %s is not in PATH", ErrNoTerminal, t.Name)
	}
	for _, t := range KnownTerminals {
		if exists(t.Name) {
			return t, nil
		}
	}
	return Terminal{}, ErrNoTerminal
}

// TerminalRunner runs scripts inside a terminal emulator window and waits
// for the window to close. The emulator is resolved on every run.
type TerminalRunner struct {
	preferred string
	exists    func(string) bool
}

// NewTerminalRunner returns a runner for the configured terminal; an empty
// string auto-detects.
func NewTerminalRunner(preferred string) *TerminalRunner {
	return &TerminalRunner{preferred: preferred, exists: platform.Exists}
}

// Terminal returns the emulator the next Run would use.
func (r *TerminalRunner) Terminal() (Terminal, error) {
	return detectTerminal(r.preferred, r.exists)
}

// Run starts the terminal and returns the exit status of its process.
func (r *TerminalRunner) Run(ctx context.Context, script string) (int, error) {
	term, err := r.Terminal()
	if err != nil {
		return -1, err
	}

	name, args := term.Command(script)
	opts := platform.SpawnOptions{}
	if term.Direct() {
		opts = platform.Inherit()
	}

	log.Info().Str("terminal", term.Name).Int("script_bytes", len(script)).Msg("launching install script")
	return platform.RunSpawnContext(ctx, opts, name, args...)
}

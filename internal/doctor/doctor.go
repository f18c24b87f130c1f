// Package doctor implements the "doctor" command, which checks that the
// configuration, the local shell and terminal, and the remote tool repository
// are all usable before anything is installed.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/decktools/decktools/internal/installer"
	"github.com/decktools/decktools/internal/manifest"
	"github.com/decktools/decktools/internal/platform"
	"github.com/decktools/decktools/internal/remote"
)

// ErrUnhealthy is returned when at least one check failed.
var ErrUnhealthy = errors.New("health check failed")

// Fetcher reads the manifest and scripts. *remote.Client implements it.
type Fetcher interface {
	installer.Fetcher
	FetchManifest(ctx context.Context) (string, error)
	URL(path string) string
}

// Options carries what the checks inspect.
type Options struct {
	ConfigPath string
	// ConfigErr is the error from loading the config, if any.
	ConfigErr error
	Terminal  string
	Remote    Fetcher
}

// RunTo executes the doctor command, writing all output to w.
func RunTo(ctx context.Context, w io.Writer, opts Options) error {
	platform.PrintBanner(w, "decktools Health Check")

	issues := 0
	warnings := 0

	i, wa := checkConfig(w, opts)
	issues += i
	warnings += wa

	i, wa = checkShell(w)
	issues += i
	warnings += wa

	i, wa = checkTerminal(w, opts.Terminal)
	issues += i
	warnings += wa

	tools, i, wa := checkManifest(ctx, w, opts.Remote)
	issues += i
	warnings += wa

	if tools != nil {
		i, wa = checkScripts(ctx, w, opts.Remote, tools)
		issues += i
		warnings += wa
	}

	// Summary
	platform.PrintBanner(w, "Summary")
	if issues == 0 && warnings == 0 {
		fmt.Fprintln(w, platform.BoldGreen("All checks passed. Ready to install tools."))
	} else {
		if issues > 0 {
			fmt.Fprintln(w, platform.Red(fmt.Sprintf("Issues: %d (must fix)", issues)))
		}
		if warnings > 0 {
			fmt.Fprintln(w, platform.Yellow(fmt.Sprintf("Warnings: %d (optional)", warnings)))
		}
	}
	fmt.Fprintln(w)

	if issues > 0 {
		return fmt.Errorf("%w: %d issue(s)", ErrUnhealthy, issues)
	}
	return nil
}

func checkConfig(w io.Writer, opts Options) (int, int) {
	platform.PrintSectionLabel(w, "Configuration")
	if opts.ConfigErr != nil {
		fail(w, "Config could not be loaded: "+opts.ConfigErr.Error())
		return 1, 0
	}
	pass(w, "Config: "+opts.ConfigPath)
	if opts.Remote != nil {
		platform.PrintInfo(w, "Repository: "+opts.Remote.URL(""))
	}
	return 0, 0
}

func checkShell(w io.Writer) (int, int) {
	platform.PrintSectionLabel(w, "Shell")
	if !platform.Exists("sh") {
		fail(w, "sh not found in PATH")
		return 1, 0
	}
	pass(w, "sh: "+platform.LookPath("sh"))
	return 0, 0
}

func checkTerminal(w io.Writer, preferred string) (int, int) {
	platform.PrintSectionLabel(w, "Terminal")
	term, err := installer.DetectTerminal(preferred)
	if err != nil {
		fail(w, err.Error())
		fmt.Fprintln(w, "    Set terminal in config.toml or DECKTOOLS_TERMINAL (\"none\" runs scripts in place)")
		return 1, 0
	}
	if term.Direct() {
		warn(w, "terminal = none: scripts run in the current terminal")
		return 0, 1
	}
	pass(w, "Terminal: "+term.String())
	return 0, 0
}

func checkManifest(ctx context.Context, w io.Writer, f Fetcher) ([]manifest.Tool, int, int) {
	platform.PrintSectionLabel(w, "Tool manifest")
	if f == nil {
		warn(w, "Skipped: no repository configured")
		return nil, 0, 1
	}

	text, err := f.FetchManifest(ctx)
	if err != nil {
		fail(w, err.Error())
		if errors.Is(err, remote.ErrNetwork) {
			fmt.Fprintln(w, "    Check the network connection and base_url")
		}
		return nil, 1, 0
	}

	tools, err := manifest.Parse(text)
	if err != nil {
		fail(w, err.Error())
		return nil, 1, 0
	}
	if len(tools) == 0 {
		warn(w, "Manifest is empty")
		return tools, 0, 1
	}
	pass(w, fmt.Sprintf("%d tool(s) listed", len(tools)))
	return tools, 0, 0
}

// checkScripts confirms the preamble and every install script are
// downloadable. A missing script only affects its own tool.
func checkScripts(ctx context.Context, w io.Writer, f Fetcher, tools []manifest.Tool) (int, int) {
	platform.PrintSectionLabel(w, "Install scripts")
	issues := 0
	warnings := 0

	scripts := installer.NewScriptFetcher(f)
	if needsRoot(tools) {
		if _, err := scripts.FetchPreamble(ctx); err != nil {
			fail(w, "Root preamble: "+err.Error())
			issues++
		} else {
			pass(w, "Root preamble: "+installer.PreamblePath)
		}
	}

	missing := 0
	for _, t := range tools {
		if _, err := scripts.FetchScript(ctx, t.Title); err != nil {
			warn(w, fmt.Sprintf("%s: %v", t.Title, err))
			missing++
		}
	}
	warnings += missing
	if missing == 0 {
		pass(w, fmt.Sprintf("All %d install script(s) reachable", len(tools)))
	}

	return issues, warnings
}

func needsRoot(tools []manifest.Tool) bool {
	for _, t := range tools {
		if t.NeedsRoot {
			return true
		}
	}
	return false
}

func pass(w io.Writer, msg string) {
	platform.PrintOK(w, msg)
}

func fail(w io.Writer, msg string) {
	platform.PrintFail(w, msg)
}

func warn(w io.Writer, msg string) {
	platform.PrintWarn(w, msg)
}

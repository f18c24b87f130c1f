// Package installer downloads a tool's install script, prepends the root
// preamble when the tool needs it, and runs the result in a terminal.
//
// Script content is trusted as-is: it comes from the fixed remote base the
// project maintainers control, and no checksum or signature is checked.
// Compose returns the exact text that Install would execute so callers can
// show it before running.
package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var (
	// ErrDownload means the preamble or the tool script could not be fetched.
	ErrDownload = errors.New("download failed")
	// ErrSpawnFailed means the terminal process could not be started.
	ErrSpawnFailed = errors.New("could not start terminal")
	// ErrScriptFailed means the script ran and exited nonzero.
	ErrScriptFailed = errors.New("install script failed")
)

// InstallError reports a failed install. Kind is ErrDownload, ErrSpawnFailed
// or ErrScriptFailed; ExitCode is set for ErrScriptFailed.
type InstallError struct {
	Kind     error
	Title    string
	ExitCode int
	Err      error
}

func (e *InstallError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrScriptFailed):
		return fmt.Sprintf("installing %s: %v with exit code %d", e.Title, e.Kind, e.ExitCode)
	case e.Err != nil:
		return fmt.Sprintf("installing %s: %v: %v", e.Title, e.Kind, e.Err)
	default:
		return fmt.Sprintf("installing %s: %v", e.Title, e.Kind)
	}
}

func (e *InstallError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Runner executes a shell script and returns its exit status. A non-nil
// error means the script never ran.
type Runner interface {
	Run(ctx context.Context, script string) (int, error)
}

// Installer composes and runs install scripts.
type Installer struct {
	scripts *ScriptFetcher
	runner  Runner
}

// New returns an Installer fetching through f and running through r.
func New(f Fetcher, r Runner) *Installer {
	return &Installer{scripts: NewScriptFetcher(f), runner: r}
}

// Compose returns the script Install would run: the preamble (only when
// needsRoot) followed by the tool's own script.
func (i *Installer) Compose(ctx context.Context, title string, needsRoot bool) (string, error) {
	var preamble string
	if needsRoot {
		p, err := i.scripts.FetchPreamble(ctx)
		if err != nil {
			return "", &InstallError{Kind: ErrDownload, Title: title, Err: err}
		}
		preamble = p
	}

	script, err := i.scripts.FetchScript(ctx, title)
	if err != nil {
		return "", &InstallError{Kind: ErrDownload, Title: title, Err: err}
	}
	return preamble + script, nil
}

// Install composes the script for title and runs it, waiting for completion.
func (i *Installer) Install(ctx context.Context, title string, needsRoot bool) error {
	logger := log.With().Str("tool", title).Bool("needs_root", needsRoot).Logger()

	script, err := i.Compose(ctx, title, needsRoot)
	if err != nil {
		logger.Error().Err(err).Msg("install script download failed")
		return err
	}

	code, err := i.runner.Run(ctx, script)
	if err != nil {
		logger.Error().Err(err).Msg("install could not start")
		return &InstallError{Kind: ErrSpawnFailed, Title: title, Err: err}
	}
	if code != 0 {
		logger.Warn().Int("exit_code", code).Msg("install script failed")
		return &InstallError{Kind: ErrScriptFailed, Title: title, ExitCode: code}
	}

	logger.Info().Msg("install finished")
	return nil
}

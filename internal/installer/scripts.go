package installer

import (
	"context"

	"github.com/decktools/decktools/internal/manifest"
)

const (
	// ScriptsDir holds every install script, relative to the remote base.
	ScriptsDir = "install_scripts/"
	// PreamblePath is the shared privilege-escalation fragment.
	PreamblePath = ScriptsDir + "needs_root.sh"
)

// Fetcher retrieves text resources by path relative to the remote base.
// *remote.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// ScriptPath returns the remote path of the install script for title.
func ScriptPath(title string) string {
	return ScriptsDir + manifest.Slug(title) + ".sh"
}

// ScriptFetcher downloads install scripts and the root preamble.
type ScriptFetcher struct {
	fetcher Fetcher
}

// NewScriptFetcher returns a ScriptFetcher reading through f.
func NewScriptFetcher(f Fetcher) *ScriptFetcher {
	return &ScriptFetcher{fetcher: f}
}

// FetchScript downloads install_scripts/<slug>.sh for title.
func (s *ScriptFetcher) FetchScript(ctx context.Context, title string) (string, error) {
	return s.fetcher.Fetch(ctx, ScriptPath(title))
}

// FetchPreamble downloads the preamble prepended to scripts that need root.
func (s *ScriptFetcher) FetchPreamble(ctx context.Context) (string, error) {
	return s.fetcher.Fetch(ctx, PreamblePath)
}

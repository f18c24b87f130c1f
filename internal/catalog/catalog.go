// Package catalog loads the tool manifest once at startup and exposes the
// resulting immutable tool list together with the install action.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/decktools/decktools/internal/manifest"
)

// State is the lifecycle position of a Catalog.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stage names the load step that failed.
type Stage string

const (
	StageFetch Stage = "fetch"
	StageParse Stage = "parse"
)

// LoadError wraps a fetch or parse failure during Load.
type LoadError struct {
	Stage Stage
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading tool catalog (%s): %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var (
	ErrAlreadyLoaded = errors.New("catalog already loaded")
	ErrNotReady      = errors.New("catalog is not ready")
	ErrUnknownTool   = errors.New("unknown tool")
)

// ManifestSource returns the raw manifest text. *remote.Client implements it.
type ManifestSource interface {
	FetchManifest(ctx context.Context) (string, error)
}

// ToolInstaller composes and runs install scripts. *installer.Installer
// implements it.
type ToolInstaller interface {
	Compose(ctx context.Context, title string, needsRoot bool) (string, error)
	Install(ctx context.Context, title string, needsRoot bool) error
}

// Catalog holds the tool list for the lifetime of the process.
type Catalog struct {
	mu        sync.RWMutex
	source    ManifestSource
	installer ToolInstaller
	state     State
	tools     []manifest.Tool
	loadErr   error
}

// New returns an uninitialized catalog.
func New(source ManifestSource, inst ToolInstaller) *Catalog {
	return &Catalog{source: source, installer: inst}
}

// Load fetches and parses the manifest. It may only be called once; the
// catalog ends Ready on success and Failed otherwise.
func (c *Catalog) Load(ctx context.Context) ([]manifest.Tool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUninitialized {
		return nil, ErrAlreadyLoaded
	}

	text, err := c.source.FetchManifest(ctx)
	if err != nil {
		return nil, c.fail(&LoadError{Stage: StageFetch, Err: err})
	}

	tools, err := manifest.Parse(text)
	if err != nil {
		return nil, c.fail(&LoadError{Stage: StageParse, Err: err})
	}

	c.tools = tools
	c.state = StateReady
	log.Info().Int("tools", len(tools)).Msg("tool catalog loaded")
	return cloneTools(tools), nil
}

func (c *Catalog) fail(err error) error {
	c.state = StateFailed
	c.loadErr = err
	log.Error().Err(err).Msg("tool catalog failed to load")
	return err
}

// State returns the current lifecycle state.
func (c *Catalog) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Err returns the load error of a Failed catalog.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

// Tools returns a copy of the tool list, or nil unless the catalog is Ready.
func (c *Catalog) Tools() []manifest.Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateReady {
		return nil
	}
	return cloneTools(c.tools)
}

// Tool returns the tool at index.
func (c *Catalog) Tool(index int) (manifest.Tool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.toolLocked(index)
}

func (c *Catalog) toolLocked(index int) (manifest.Tool, error) {
	if c.state != StateReady {
		return manifest.Tool{}, ErrNotReady
	}
	if index < 0 || index >= len(c.tools) {
		return manifest.Tool{}, fmt.Errorf("%w: index %d of %d", ErrUnknownTool, index, len(c.tools))
	}
	return cloneTool(c.tools[index]), nil
}

// Lookup finds a tool by exact title, then by slug.
func (c *Catalog) Lookup(name string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i, t := range c.tools {
		if t.Title == name {
			return i, true
		}
	}
	slug := manifest.Slug(name)
	for i, t := range c.tools {
		if t.Slug() == slug {
			return i, true
		}
	}
	return -1, false
}

// Install runs the installer for the tool at index. Failures are returned
// to the caller and never change the catalog.
func (c *Catalog) Install(ctx context.Context, index int) error {
	tool, err := c.Tool(index)
	if err != nil {
		return err
	}
	return c.installer.Install(ctx, tool.Title, tool.NeedsRoot)
}

// Preview returns the script Install would run for the tool at index.
func (c *Catalog) Preview(ctx context.Context, index int) (string, error) {
	tool, err := c.Tool(index)
	if err != nil {
		return "", err
	}
	return c.installer.Compose(ctx, tool.Title, tool.NeedsRoot)
}

func cloneTools(tools []manifest.Tool) []manifest.Tool {
	out := make([]manifest.Tool, len(tools))
	for i, t := range tools {
		out[i] = cloneTool(t)
	}
	return out
}

func cloneTool(t manifest.Tool) manifest.Tool {
	if t.Note != nil {
		note := *t.Note
		t.Note = &note
	}
	return t
}

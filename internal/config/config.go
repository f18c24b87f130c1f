// Package config reads the decktools TOML configuration file and applies
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"github.com/decktools/decktools/internal/remote"
)

const (
	SchemaVersion = 1
	AppName       = "decktools"
	CfgFile       = "config.toml"
	CfgEnv        = "DECKTOOLS_CFG"
	BaseURLEnv    = "DECKTOOLS_BASE_URL"
	TerminalEnv   = "DECKTOOLS_TERMINAL"
)

type Values struct {
	BaseURL      string `toml:"base_url" validate:"required,http_url"`
	Terminal     string `toml:"terminal"`
	FetchTimeout int    `toml:"fetch_timeout" validate:"min=1,max=600"`
	DebugLogging bool   `toml:"debug_logging"`
	ConfigSchema int    `toml:"config_schema"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	BaseURL:      remote.DefaultBaseURL,
	FetchTimeout: int(remote.DefaultTimeout / time.Second),
}

var validate = validator.New()

type Instance struct {
	mu       sync.RWMutex
	cfgPath  string
	vals     Values
	defaults Values
	debug    bool
}

// DefaultPath returns $XDG_CONFIG_HOME/decktools/config.toml, creating the
// parent directory.
func DefaultPath() (string, error) {
	p, err := xdg.ConfigFile(filepath.Join(AppName, CfgFile))
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	return p, nil
}

// NewConfig loads the config at cfgPath. An empty cfgPath falls back to
// $DECKTOOLS_CFG and then DefaultPath. A missing file is created with
// defaults.
func NewConfig(cfgPath string, defaults Values) (*Instance, error) {
	if cfgPath == "" {
		cfgPath = os.Getenv(CfgEnv)
		log.Debug().Msgf("env config path: %s", cfgPath)
	}
	if cfgPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		cfgPath = p
	}

	cfg := &Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", cfgPath).Msg("saving new default config to disk")
		if err := os.MkdirAll(filepath.Dir(cfgPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load re-reads the file. Keys absent from the file keep their defaults.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newVals := c.defaults
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to unmarshal config %s: %w", c.cfgPath, err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf("schema version mismatch: got %d, expecting %d", newVals.ConfigSchema, SchemaVersion)
		return errors.New("schema version mismatch")
	}

	effective := applyEnv(newVals)
	if err := validate.Struct(effective); err != nil {
		return fmt.Errorf("invalid config %s: %w", c.cfgPath, err)
	}

	c.vals = newVals
	return nil
}

// Save writes the file-backed values. Environment overrides are not saved.
func (c *Instance) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func applyEnv(v Values) Values {
	if s := os.Getenv(BaseURLEnv); s != "" {
		v.BaseURL = s
	}
	if s := os.Getenv(TerminalEnv); s != "" {
		v.Terminal = s
	}
	return v
}

func (c *Instance) effective() Values {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return applyEnv(c.vals)
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) BaseURL() string { return c.effective().BaseURL }

// Terminal returns the configured terminal emulator, "" to auto-detect.
func (c *Instance) Terminal() string { return c.effective().Terminal }

func (c *Instance) FetchTimeout() time.Duration {
	return time.Duration(c.effective().FetchTimeout) * time.Second
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.debug || c.vals.DebugLogging
}

// SetDebugLogging forces debug logging for this run without touching the file.
func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	c.debug = enabled
	c.mu.Unlock()
}

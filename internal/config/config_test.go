package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decktools/decktools/internal/remote"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), CfgFile)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestNewConfigCreatesDefaults(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	t.Setenv(TerminalEnv, "")
	p := filepath.Join(t.TempDir(), "nested", CfgFile)

	cfg, err := NewConfig(p, BaseDefaults)
	require.NoError(t, err)

	assert.FileExists(t, p)
	assert.Equal(t, p, cfg.Path())
	assert.Equal(t, remote.DefaultBaseURL, cfg.BaseURL())
	assert.Equal(t, remote.DefaultTimeout, cfg.FetchTimeout())
	assert.Empty(t, cfg.Terminal())
	assert.False(t, cfg.DebugLogging())

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_schema = 1")
	assert.Contains(t, string(data), "base_url")
}

func TestNewConfigReadsFile(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	t.Setenv(TerminalEnv, "")
	p := writeConfig(t, `
config_schema = 1
base_url = "https://mirror.example.com/deck/"
terminal = "xterm"
fetch_timeout = 5
debug_logging = true
`)

	cfg, err := NewConfig(p, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.com/deck/", cfg.BaseURL())
	assert.Equal(t, "xterm", cfg.Terminal())
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout())
	assert.True(t, cfg.DebugLogging())
}

func TestMissingKeysKeepDefaults(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	p := writeConfig(t, "config_schema = 1\nterminal = \"konsole\"\n")

	cfg, err := NewConfig(p, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, remote.DefaultBaseURL, cfg.BaseURL())
	assert.Equal(t, remote.DefaultTimeout, cfg.FetchTimeout())
}

func TestEnvOverrides(t *testing.T) {
	p := writeConfig(t, "config_schema = 1\nterminal = \"konsole\"\n")
	t.Setenv(BaseURLEnv, "http://127.0.0.1:8080/")
	t.Setenv(TerminalEnv, "none")

	cfg, err := NewConfig(p, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080/", cfg.BaseURL())
	assert.Equal(t, "none", cfg.Terminal())

	require.NoError(t, cfg.Save())
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "127.0.0.1", "env overrides must not be persisted")
}

func TestConfigPathFromEnv(t *testing.T) {
	p := writeConfig(t, "config_schema = 1\n")
	t.Setenv(CfgEnv, p)

	cfg, err := NewConfig("", BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, p, cfg.Path())
}

func TestSchemaMismatch(t *testing.T) {
	p := writeConfig(t, "config_schema = 7\n")
	_, err := NewConfig(p, BaseDefaults)
	assert.ErrorContains(t, err, "schema version mismatch")
}

func TestInvalidValues(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	tests := []struct {
		name string
		body string
	}{
		{"bad url", "config_schema = 1\nbase_url = \"not a url\"\n"},
		{"ftp url", "config_schema = 1\nbase_url = \"ftp://example.com/\"\n"},
		{"zero timeout", "config_schema = 1\nfetch_timeout = 0\n"},
		{"huge timeout", "config_schema = 1\nfetch_timeout = 100000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(writeConfig(t, tt.body), BaseDefaults)
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestMalformedToml(t *testing.T) {
	_, err := NewConfig(writeConfig(t, "config_schema = [\n"), BaseDefaults)
	assert.ErrorContains(t, err, "failed to unmarshal config")
}

func TestSetDebugLogging(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	cfg, err := NewConfig(writeConfig(t, "config_schema = 1\n"), BaseDefaults)
	require.NoError(t, err)
	assert.False(t, cfg.DebugLogging())

	cfg.SetDebugLogging(true)
	assert.True(t, cfg.DebugLogging())
}

// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const LogFile = "decktools.log"

// Options controls where log output goes.
type Options struct {
	// Dir holds the rotating log file. Empty means DefaultDir.
	Dir string
	// Console, when set, also receives human-readable output.
	Console io.Writer
	NoColor bool
	Debug   bool
}

// DefaultDir returns $XDG_STATE_HOME/decktools.
func DefaultDir() string {
	return filepath.Join(xdg.StateHome, "decktools")
}

// Init replaces the global logger and returns the log file path.
func Init(opts Options) (string, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating log directory: %w", err)
	}

	path := filepath.Join(dir, LogFile)
	writers := []io.Writer{&lumberjack.Logger{
		Filename:   path,
		MaxSize:    1,
		MaxBackups: 2,
	}}
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			NoColor:    opts.NoColor,
			TimeFormat: "15:04:05",
		})
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = log.Output(io.MultiWriter(writers...)).
		With().Timestamp().Logger()

	log.Debug().Str("path", path).Msg("logging initialized")
	return path, nil
}

// Discard silences the global logger until Init is called.
func Discard() {
	log.Logger = zerolog.Nop()
}

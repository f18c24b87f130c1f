package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/decktools/decktools/internal/installer"
	"github.com/decktools/decktools/internal/platform"
)

// version is set via -ldflags at build time
var version = "dev"

func main() {
	platform.InitColor(os.Stdout)

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode passes a failed install script's status through; every other
// failure exits 1.
func exitCode(err error) int {
	var ie *installer.InstallError
	if errors.As(err, &ie) && errors.Is(err, installer.ErrScriptFailed) && ie.ExitCode > 0 && ie.ExitCode < 256 {
		return ie.ExitCode
	}
	return 1
}

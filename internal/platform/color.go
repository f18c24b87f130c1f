// Package platform wraps process execution and console output for the CLI.
package platform

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// colorEnabled controls whether ANSI escape codes are emitted.
// Set once by InitColor().
var colorEnabled bool

// InitColor determines whether color output should be enabled for out.
// It respects NO_COLOR (https://no-color.org/), TERM=dumb, and non-TTY output.
func InitColor(out *os.File) {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		colorEnabled = false
		return
	}
	colorEnabled = out != nil && term.IsTerminal(int(out.Fd()))
}

// ColorEnabled reports the result of InitColor.
func ColorEnabled() bool { return colorEnabled }

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

func apply(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

func Bold(s string) string      { return apply(ansiBold, s) }
func Dim(s string) string       { return apply(ansiDim, s) }
func Red(s string) string       { return apply(ansiRed, s) }
func Green(s string) string     { return apply(ansiGreen, s) }
func Yellow(s string) string    { return apply(ansiYellow, s) }
func BoldRed(s string) string   { return apply(ansiBold+ansiRed, s) }
func BoldGreen(s string) string { return apply(ansiBold+ansiGreen, s) }
func BoldCyan(s string) string  { return apply(ansiBold+ansiCyan, s) }

// PrintBanner prints a bold cyan banner line: "\n=== title ===\n"
func PrintBanner(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", BoldCyan("=== "+title+" ==="))
}

// PrintSectionLabel prints a bold section label: "\n[label]\n"
func PrintSectionLabel(w io.Writer, label string) {
	fmt.Fprintf(w, "\n%s\n", Bold("["+label+"]"))
}

func PrintOK(w io.Writer, msg string) {
	fmt.Fprintf(w, "  %s %s\n", BoldGreen("[OK]"), msg)
}

func PrintFail(w io.Writer, msg string) {
	fmt.Fprintf(w, "  %s %s\n", BoldRed("[FAIL]"), msg)
}

func PrintWarn(w io.Writer, msg string) {
	fmt.Fprintf(w, "  %s %s\n", Yellow("[WARN]"), msg)
}

func PrintInfo(w io.Writer, msg string) {
	fmt.Fprintf(w, "  [INFO] %s\n", msg)
}

// PrintSuccess prints a green message: "  msg\n"
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintf(w, "  %s\n", Green(msg))
}

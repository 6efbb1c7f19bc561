package tty

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// IsInteractive returns true if the current environment is interactive.
// It checks if stdin is a terminal (TTY).
func IsInteractive() bool {
	return IsTerminal(os.Stdin)
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ConfigureColor turns styled output off when stdout is not a terminal or
// when the user asked for plain output
func ConfigureColor(disabled bool) {
	if disabled || !IsTerminal(os.Stdout) {
		color.NoColor = true
	}
}

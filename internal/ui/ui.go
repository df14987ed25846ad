package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY reports whether stdout is an interactive terminal.
// Piped and redirected output gets plain text.
func IsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// AutoStyles picks colored or plain styles based on the terminal and
// the NO_COLOR convention.
func AutoStyles() Styles {
	if !IsTTY() || os.Getenv("NO_COLOR") != "" {
		return NoColorStyles()
	}
	return DefaultStyles()
}

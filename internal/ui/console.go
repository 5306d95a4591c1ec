// Package ui provides console output helpers for the CLI: colored status
// lines when writing to a terminal, plain text when piped.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Console writes status lines to a single writer, styling only when the
// writer is an interactive terminal.
type Console struct {
	writer io.Writer
	styled bool
}

// NewConsole creates a console on stdout.
func NewConsole() *Console {
	return &Console{
		writer: os.Stdout,
		styled: isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// NewConsoleWithWriter creates a console with a custom writer (for testing).
// Styling is disabled since the writer is not a terminal.
func NewConsoleWithWriter(w io.Writer) *Console {
	return &Console{writer: w}
}

func (c *Console) render(style lipgloss.Style, prefix, format string, args ...interface{}) {
	line := prefix + fmt.Sprintf(format, args...)
	if c.styled {
		line = style.Render(line)
	}
	fmt.Fprintln(c.writer, line)
}

// Successf prints a checkmarked status line.
func (c *Console) Successf(format string, args ...interface{}) {
	c.render(successStyle, "✓ ", format, args...)
}

// Warningf prints a warning line.
func (c *Console) Warningf(format string, args ...interface{}) {
	c.render(warningStyle, "⚠ ", format, args...)
}

// Errorf prints an error line.
func (c *Console) Errorf(format string, args ...interface{}) {
	c.render(errorStyle, "✗ ", format, args...)
}

// Mutedf prints a de-emphasized detail line.
func (c *Console) Mutedf(format string, args ...interface{}) {
	c.render(mutedStyle, "  ", format, args...)
}

// Printf prints an unstyled line.
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer, format+"\n", args...)
}

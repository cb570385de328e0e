// Package ui handles terminal output: format detection, styling, and
// markdown rendering for previews.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how command output is rendered.
type Format int

const (
	// FormatAuto detects the format from the terminal.
	FormatAuto Format = iota
	// FormatTerminal renders styled terminal output.
	FormatTerminal
	// FormatText renders plain text.
	FormatText
	// FormatJSON renders machine-readable JSON.
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format: %s", s)
	}
}

// DetectFormat resolves FormatAuto against the actual output stream.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// Resolve returns the concrete format for output, collapsing FormatAuto.
func (f Format) Resolve(output *os.File) Format {
	if f == FormatAuto {
		return DetectFormat(output)
	}
	return f
}

// Styles used across commands. Plain-text mode bypasses these entirely.
var (
	StyleHeading = lipgloss.NewStyle().Bold(true)
	StyleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	StyleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	StyleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	StyleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderMarkdown renders markdown for the given format. Terminal output
// goes through glamour; any rendering failure falls back to the raw
// text.
func RenderMarkdown(content string, format Format) string {
	if format != FormatTerminal {
		return content
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

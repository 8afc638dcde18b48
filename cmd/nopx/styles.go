package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for text output.
const (
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorError   = lipgloss.Color("#EF4444")
	ColorWarning = lipgloss.Color("#F59E0B")
)

// styles holds the text styles for one output stream. Styles are bound to
// the stream's renderer so that color is dropped when it is not a terminal.
type styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		Title:   r.NewStyle().Bold(true).Underline(true),
		Muted:   r.NewStyle().Foreground(ColorMuted),
		Error:   r.NewStyle().Bold(true).Foreground(ColorError),
		Warning: r.NewStyle().Foreground(ColorWarning),
	}
}

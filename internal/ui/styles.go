package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha accents, same palette as the rest of the output.
var (
	colorGreen  = lipgloss.Color("#a6e3a1")
	colorRed    = lipgloss.Color("#f38ba8")
	colorYellow = lipgloss.Color("#f9e2af")
	colorMauve  = lipgloss.Color("#cba6f7")
	colorMuted  = lipgloss.Color("#5a6278")
)

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
	dim    lipgloss.Style
}

// newStyles builds styles bound to w. Without color every style renders
// its input unchanged.
func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		plain := r.NewStyle()
		return styles{header: plain, label: plain, ok: plain, warn: plain, err: plain, dim: plain}
	}
	return styles{
		header: r.NewStyle().Bold(true).Foreground(colorMauve),
		label:  r.NewStyle().Bold(true),
		ok:     r.NewStyle().Foreground(colorGreen),
		warn:   r.NewStyle().Foreground(colorYellow),
		err:    r.NewStyle().Foreground(colorRed),
		dim:    r.NewStyle().Foreground(colorMuted),
	}
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header    lipgloss.Style
	item      lipgloss.Style
	selected  lipgloss.Style
	completed lipgloss.Style
	muted     lipgloss.Style
	frame     lipgloss.Style
}

// accentColor drops the alpha channel from #rrggbbaa colors, which terminals
// cannot render.
func accentColor(hex string) lipgloss.Color {
	if strings.HasPrefix(hex, "#") && len(hex) == 9 {
		hex = hex[:7]
	}
	return lipgloss.Color(hex)
}

func newStyles(accent string, dark bool) styles {
	fg, bg, faint := lipgloss.Color("#1d1d1f"), lipgloss.Color("#fafafa"), lipgloss.Color("#8e8e93")
	if dark {
		fg, bg, faint = lipgloss.Color("#f2f2f7"), lipgloss.Color("#121212"), lipgloss.Color("#636366")
	}

	a := accentColor(accent)
	// Black on a dark background is invisible
	if dark && a == "#000000" {
		a = fg
	}

	return styles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(a).MarginBottom(1),
		item:      lipgloss.NewStyle().Foreground(fg),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(a),
		completed: lipgloss.NewStyle().Strikethrough(true).Foreground(faint),
		muted:     lipgloss.NewStyle().Foreground(faint),
		frame:     lipgloss.NewStyle().Background(bg).Foreground(fg).Padding(1, 2),
	}
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fredcamaral/marpview/internal/domain/entities"
)

type styles struct {
	Title     lipgloss.Style
	Body      lipgloss.Style
	Status    lipgloss.Style
	Indicator lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
}

type palette struct {
	fg, muted, accent, danger, bar lipgloss.Color
}

var palettes = map[entities.ThemePreference]palette{
	entities.ThemeLight: {fg: "#111827", muted: "#6B7280", accent: "#2563EB", danger: "#B91C1C", bar: "#E5E7EB"},
	entities.ThemeDark:  {fg: "#F3F4F6", muted: "#9CA3AF", accent: "#60A5FA", danger: "#F87171", bar: "#1F2937"},
}

func stylesFor(theme entities.ThemePreference) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[entities.ThemeLight]
	}

	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent).
			MarginBottom(1),
		Body: lipgloss.NewStyle().
			Foreground(p.fg).
			Padding(0, 2),
		Status: lipgloss.NewStyle().
			Foreground(p.muted).
			Background(p.bar).
			Padding(0, 1),
		Indicator: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent).
			Background(p.bar).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.danger),
		Muted: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
	}
}

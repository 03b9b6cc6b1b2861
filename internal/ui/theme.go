package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the settings form and the watch output.
type Theme struct {
	Name string

	Surface     string
	FocusBg     string
	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string

	// NoticeColors maps HipChat notification colors onto the palette.
	NoticeColors map[string]string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Width(labelWidth),

		FocusedLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			Width(labelWidth),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(1, 2),

		noticeColors: t.NoticeColors,
		surface:      t.Surface,
		muted:        t.Muted,
	}
}

const labelWidth = 12

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Title        lipgloss.Style
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Panel lipgloss.Style

	noticeColors map[string]string
	surface      string
	muted        string
}

// NoticeStyle returns a badge style for a HipChat notification color.
func (s Styles) NoticeStyle(color string) lipgloss.Style {
	bg := s.noticeColors[strings.ToLower(strings.TrimSpace(color))]
	if bg == "" {
		bg = s.muted // Fallback to theme's muted color
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.surface)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1)
}

// DefaultTheme returns the Nightfox palette.
func DefaultTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Surface:     "#192330", // bg1
		FocusBg:     "#29394f", // bg3
		Border:      "#39506d", // bg4
		BorderFocus: "#719cd6", // blue

		Text:    "#cdcecf", // fg1
		Muted:   "#738091", // comment
		Faint:   "#71839b", // fg3
		Accent:  "#719cd6", // blue
		Success: "#81b29a", // green
		Warning: "#dbc074", // yellow
		Danger:  "#c94f6d", // red

		NoticeColors: map[string]string{
			"yellow": "#dbc074",
			"green":  "#81b29a",
			"red":    "#c94f6d",
			"purple": "#9d79d6", // magenta
			"gray":   "#738091",
			"random": "#63cdcf", // cyan
		},
	}
}

package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and command bar
	SurfaceAlt string // Log pane

	// Border colors
	Border      string // Canvas frame while idle
	BorderFocus string // Canvas frame while the pen is down

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Canvas colors
	Ink     string // Strokes confirmed by the relay
	Pending string // Local stroke not yet folded
	Mark    string // Transmitted samples
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:   fg(t.Warning).Bold(true),

		Ink:     fg(t.Ink),
		Pending: fg(t.Pending),
		Mark:    fg(t.Mark).Bold(true),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style

	// Canvas
	Ink     lipgloss.Style
	Pending lipgloss.Style
	Mark    lipgloss.Style
}

// WithBackground returns a copy of Styles painted onto bgColor, so text
// segments never fall back to the terminal's own background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	return Styles{
		Text:        s.Text.Background(bg),
		MutedText:   s.MutedText.Background(bg),
		FaintText:   s.FaintText.Background(bg),
		AccentText:  s.AccentText.Background(bg),
		SuccessText: s.SuccessText.Background(bg),
		WarningText: s.WarningText.Background(bg),
		DangerText:  s.DangerText.Background(bg),
		InfoText:    s.InfoText.Background(bg),

		Header: s.Header.Background(bg),
		Logo:   s.Logo.Background(bg),

		Ink:     s.Ink.Background(bg),
		Pending: s.Pending.Background(bg),
		Mark:    s.Mark.Background(bg),
	}
}

// Theme definitions

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		SurfaceAlt: "#212e3f", // bg2

		Border:      "#39506d", // bg4
		BorderFocus: "#719cd6", // blue

		Text:    "#cdcecf", // fg1
		Muted:   "#738091", // comment
		Faint:   "#71839b", // fg3
		Accent:  "#719cd6", // blue
		Success: "#81b29a", // green
		Warning: "#dbc074", // yellow
		Danger:  "#c94f6d", // red
		Info:    "#63cdcf", // cyan

		Ink:     "#cdcecf", // fg1
		Pending: "#9d79d6", // magenta
		Mark:    "#f4a261", // orange
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name: "Kanagawa",

		Background: "#16161D", // sumiInk0
		Surface:    "#1F1F28", // sumiInk3
		SurfaceAlt: "#2A2A37", // sumiInk4

		Border:      "#54546D", // sumiInk6
		BorderFocus: "#7E9CD8", // crystalBlue

		Text:    "#DCD7BA", // fujiWhite
		Muted:   "#C8C093", // oldWhite
		Faint:   "#727169", // fujiGray
		Accent:  "#7E9CD8", // crystalBlue
		Success: "#98BB6C", // springGreen
		Warning: "#E6C384", // carpYellow
		Danger:  "#E46876", // waveRed
		Info:    "#7FB4CA", // springBlue

		Ink:     "#DCD7BA", // fujiWhite
		Pending: "#957FB8", // oniViolet
		Mark:    "#FFA066", // surimiOrange
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		SurfaceAlt: "#1e293b", // slate-800

		Border:      "#334155", // slate-700
		BorderFocus: "#38bdf8", // sky-400

		Text:    "#f1f5f9", // slate-100
		Muted:   "#94a3b8", // slate-400
		Faint:   "#64748b", // slate-500
		Accent:  "#38bdf8", // sky-400
		Success: "#22c55e", // green-500
		Warning: "#f59e0b", // amber-500
		Danger:  "#ef4444", // red-500
		Info:    "#06b6d4", // cyan-500

		Ink:     "#f1f5f9", // slate-100
		Pending: "#a78bfa", // violet-400
		Mark:    "#f59e0b", // amber-500
	}
}

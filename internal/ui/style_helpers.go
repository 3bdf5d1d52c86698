package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders segments that share one background color. Styling a
// whole line at once leaves gaps where lipgloss emits reset codes between
// segments, so every word and space is painted separately.
type BgStyle struct {
	bg    lipgloss.Color
	space string
}

// NewBgStyle returns a helper for bgColor.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render paints text with style on the shared background, spaces included.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	wordStyle := style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return wordStyle.Render(text)
	}
	words := strings.Split(text, " ")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			out = append(out, "")
			continue
		}
		out = append(out, wordStyle.Render(w))
	}
	return strings.Join(out, b.space)
}

// Space returns a single styled space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// Join joins parts with a styled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, lipgloss.NewStyle().Background(b.bg).Render(sep))
}

// FillLine pads content to width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders text segments that share one background color. Without it
// the ANSI reset between styled segments leaves gaps in the background.
// See: https://github.com/charmbracelet/lipgloss/discussions/78
type BgStyle struct {
	bg    lipgloss.Color
	space string
}

// NewBgStyle creates a background helper for bgColor.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render renders text with style, giving every rune including spaces the
// background color.
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

// Sep returns a styled separator string.
func (b BgStyle) Sep(sep string) string {
	return lipgloss.NewStyle().Background(b.bg).Render(sep)
}

// Join joins parts with a styled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

// Pad renders text left-aligned in a cell of exactly width columns.
func (b BgStyle) Pad(text string, width int, style lipgloss.Style) string {
	text = truncate(text, width)
	gap := width - lipgloss.Width(text)
	return b.Render(text, style) + b.Spaces(gap)
}

// FillLine pads rendered content to width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}

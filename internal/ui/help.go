package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	h := m.help
	h.Styles.FullKey = styles.AccentText
	h.Styles.FullDesc = styles.MutedText
	h.Styles.FullSeparator = styles.FaintText
	b.WriteString(h.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Press any key to close"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/ffscope/internal/firefly"
)

// namespacePicker lists the node's namespaces for selection.
type namespacePicker struct {
	visible  bool
	loading  bool
	items    []firefly.Namespace
	selected int
}

type namespacesMsg struct {
	items []firefly.Namespace
	err   error
}

func (p *namespacePicker) open() {
	p.visible = true
	p.loading = true
	p.items = nil
	p.selected = 0
}

// setItems fills the picker and highlights the current namespace.
func (p *namespacePicker) setItems(items []firefly.Namespace, current string) {
	p.loading = false
	p.items = items
	p.selected = 0
	for i, ns := range items {
		if ns.Name == current {
			p.selected = i
			break
		}
	}
}

func fetchNamespacesCmd(ctx context.Context, client firefly.API, timeout time.Duration) tea.Cmd {
	if client == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		items, err := client.ListNamespaces(ctx)
		return namespacesMsg{items: items, err: err}
	}
}

// handleNamespaceKey handles keyboard input for the namespace picker.
func (m Model) handleNamespaceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.namespaces
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		p.visible = false
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if p.selected < len(p.items)-1 {
			p.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if p.selected > 0 {
			p.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		p.visible = false
		if p.selected < 0 || p.selected >= len(p.items) {
			return m, nil
		}
		m.closeSlide()
		if !m.store.SelectNamespace(p.items[p.selected].Name) {
			return m, nil
		}
		return m, m.applyState()
	}
	return m, nil
}

// renderNamespacePicker renders the namespace picker modal.
func (m Model) renderNamespacePicker() string {
	styles := m.theme.Styles()
	p := m.namespaces

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Namespaces"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 36)))
	b.WriteString("\n\n")

	switch {
	case p.loading:
		b.WriteString(styles.MutedText.Render(m.spinner.View() + " Loading..."))
	case len(p.items) == 0:
		b.WriteString(styles.MutedText.Render("No namespaces"))
	default:
		for i, ns := range p.items {
			marker := "  "
			if ns.Name == m.snapshot.Namespace {
				marker = "● "
			}
			line := marker + ns.Name
			if ns.Description != "" {
				line += "  " + truncate(ns.Description, 24)
			}
			if i == p.selected {
				b.WriteString(styles.Selected.Render(padRight(line, 40)))
			} else {
				b.WriteString(styles.Text.Render(line))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Enter: Select  •  Esc: Cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(48)

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

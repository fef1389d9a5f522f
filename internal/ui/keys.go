package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Confirm    key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding

	// Screens
	ViewApprovals key.Binding
	ViewPools     key.Binding

	// Table navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Bigger   key.Binding
	Smaller  key.Binding

	// Query inputs
	Filter       key.Binding
	CycleCreated key.Binding
	Namespace    key.Binding
	Refresh      key.Binding
	RemoveFilter key.Binding
	ClearFilters key.Binding

	// Slide
	CopyID        key.Binding
	CycleDataView key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close slide/modal"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open record"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field"),
		),

		ViewApprovals: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Token approvals"),
		),
		ViewPools: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Token pools"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "First row"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Last row"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "]", "pgdown"),
			key.WithHelp("n/]", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "[", "pgup"),
			key.WithHelp("p/[", "Previous page"),
		),
		Bigger: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "More rows per page"),
		),
		Smaller: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Fewer rows per page"),
		),

		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Filters"),
		),
		CycleCreated: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Cycle created window"),
		),
		Namespace: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Switch namespace"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		RemoveFilter: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Remove last condition"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "Clear conditions"),
		),

		CopyID: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy ID"),
		),
		CycleDataView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Fields/JSON/YAML"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Scroll slide up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Scroll slide down"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewApprovals, k.ViewPools, k.Up, k.Down, k.Top, k.Bottom},
		{k.NextPage, k.PrevPage, k.Bigger, k.Smaller},
		{k.Filter, k.CycleCreated, k.Namespace, k.Refresh},
		{k.Confirm, k.Escape, k.CopyID, k.CycleDataView, k.ScrollDown, k.ScrollUp},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

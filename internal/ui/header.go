package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/ffscope/internal/notify"
)

// renderHeader renders the status bar: identity, namespace, created window
// and event state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.snapshot.Identity == "" && m.snapshot.LastError == nil {
		return styles.Header.Width(m.width).Render(
			bg.Render("ffscope", styles.Logo) + bg.Spaces(2) +
				bg.Render("Connecting to FireFly...", styles.WarningText.Bold(true)),
		)
	}

	content := m.buildStatusContent(styles, bg)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxWidth(m.width).
		Render(content)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < 100
	snap := m.snapshot

	parts := []string{bg.Render("ffscope", styles.Logo)}

	if snap.IsOffline() {
		parts = append(parts, bg.Render("● "+classifyConnectionError(snap.LastError), styles.DangerText))
	} else {
		parts = append(parts, bg.Render("● ON", styles.SuccessText))
	}

	if snap.Identity != "" {
		identity := snap.Identity
		if compact {
			identity = truncateMiddle(identity, 24)
		}
		parts = append(parts,
			bg.Render("Org:", styles.MutedText)+bg.Space()+bg.Render(identity, styles.Text))
	}
	if snap.NodeName != "" && !compact {
		parts = append(parts,
			bg.Render("Node:", styles.MutedText)+bg.Space()+bg.Render(snap.NodeName, styles.Text))
	}

	parts = append(parts,
		bg.Render("NS:", styles.MutedText)+bg.Space()+bg.Render(snap.Namespace, styles.AccentText),
		bg.Render("Created:", styles.MutedText)+bg.Space()+bg.Render(snap.CreatedFilter.Label(), styles.Text),
	)

	// Only events that change the current table offer a refresh.
	if pending := len(snap.NewEvents); pending > 0 && m.current().relevant(snap.NewEvents) {
		style := styles.WarningText.Bold(true)
		label := fmt.Sprintf("%d new events", pending)
		if compact {
			label = fmt.Sprintf("+%d", pending)
		}
		parts = append(parts, bg.Render(label, style)+bg.Space()+bg.Render("(r)", styles.FaintText))
	}

	if !snap.LastRefresh.IsZero() {
		parts = append(parts, bg.Render(snap.LastRefresh.Format("15:04:05"), styles.MutedText))
	}

	if snap.LastError != nil && snap.IsOffline() {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts, bg.Render(truncate(snap.LastError.Error(), maxErr), styles.DangerText))
	}

	return bg.Join(parts, "  ")
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	if _, _, open := m.current().slide(); open {
		commands = []cmd{
			{"esc", "Close"},
			{"v", string(m.snapshot.DataView)},
			{"y", "Copy ID"},
			{"ctrl+d/u", "Scroll"},
			{"?", "More"},
		}
	} else {
		commands = []cmd{
			{"1/2", "Approvals/Pools"},
			{"j/k", "Navigate"},
			{"enter", "Open"},
			{"n/p", "Page"},
			{"f", "Filter"},
			{"c", "Created"},
			{"N", "Namespace"},
			{"r", "Refresh"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if spec := m.current().spec(); !spec.Empty() {
		segments = append(segments,
			bg.Render("filter", styles.AccentText)+colon+bg.Render(truncate(spec.Summary(), 40), styles.WarningText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(strings.Join(segments, sep))
}

// renderStatusLine shows the page position on the left and the latest
// notice on the right.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	view := m.current().view()

	var parts []string
	if view.loaded && view.total > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d-%d of %s", view.from, view.to, formatCount(view.total)), styles.Text))
	}
	parts = append(parts,
		bg.Render(fmt.Sprintf("page %d/%d", view.page+1, view.pageCount), styles.MutedText),
		bg.Render(fmt.Sprintf("%d/page", view.pageSize), styles.MutedText),
	)
	nav := ""
	if view.hasPrev {
		nav += "◀"
	}
	if view.hasNext {
		nav += "▶"
	}
	if nav != "" {
		parts = append(parts, bg.Render(nav, styles.AccentText))
	}
	if view.err != nil && view.loaded {
		parts = append(parts, bg.Render("stale: "+classifyConnectionError(view.err), styles.WarningText))
	}
	left := bg.Join(parts, "  ")

	right := ""
	if m.hasNotice {
		style := styles.MutedText
		switch m.notice.Level {
		case notify.LevelError:
			style = styles.DangerText
		case notify.LevelWarn:
			style = styles.WarningText
		}
		room := max(m.width-lipgloss.Width(left)-4, 0)
		right = bg.Render(truncate(m.notice.Message, room), style)
	}

	gap := max(m.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(left + bg.Spaces(gap) + right)
}

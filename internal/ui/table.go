package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/ffscope/internal/rows"
)

const columnGap = 2

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + identity
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderStatusLine())
	return b.String()
}

// contentHeight is the space left between the two header lines and the
// status line.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

// paneWidths splits the screen between the table and the slide.
func (m Model) paneWidths() (table, slide int) {
	if m.width >= 160 {
		table = m.width * 60 / 100
	} else {
		table = m.width * 50 / 100
	}
	return table, m.width - table
}

// renderContent renders the table, with the slide beside it when open.
func (m Model) renderContent() string {
	height := m.contentHeight()
	view := m.current().view()
	title := m.tableTitle(view)

	if _, _, open := m.current().slide(); !open {
		content := m.renderTable(view, m.width-2, height-2, m.theme.FocusBg)
		return m.renderTitledBox(title, content, m.width, height, true)
	}

	tableWidth, slideWidth := m.paneWidths()
	content := m.renderTable(view, tableWidth-2, height-2, m.theme.SurfaceAlt)
	tablePane := m.renderTitledBox(title, content, tableWidth, height, false)
	slidePane := m.renderTitledBox(m.slideTitle(), m.slideViewport.View(), slideWidth, height, true)
	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, slidePane)
}

func (m Model) tableTitle(view tableView) string {
	title := view.title
	if view.loaded {
		title += fmt.Sprintf(" (%s)", formatCount(view.total))
	}
	if view.pending {
		title += " " + m.spinner.View()
	}
	return title
}

// renderTable renders the header row and one line per projected row.
func (m Model) renderTable(view tableView, width, height int, bgColor string) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(bgColor)

	if len(view.rows) == 0 {
		msg := view.empty
		switch {
		case !view.loaded && view.err == nil:
			msg = "Loading..."
		case view.err != nil && !view.loaded:
			msg = classifyConnectionError(view.err) + ": " + view.err.Error()
		}
		text := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(bgColor)).
			Render(truncate(msg, width))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text,
			lipgloss.WithWhitespaceBackground(lipgloss.Color(bgColor)))
	}

	widths := fitWidths(view.widths, width)
	now := m.now()

	lines := make([]string, 0, len(view.rows)+1)
	lines = append(lines, m.renderHeaderRow(view.headers, widths, width, bg, styles))
	start, end := rowWindow(view.selected, len(view.rows), height-1)
	for i := start; i < end; i++ {
		row := view.rows[i]
		if i == view.selected {
			lines = append(lines, m.renderRow(row, widths, width, now, m.theme.SelectionBg, true))
			continue
		}
		lines = append(lines, m.renderRow(row, widths, width, now, bgColor, false))
	}
	return strings.Join(lines, "\n")
}

// rowWindow returns the [start, end) rows that fit in visible lines,
// keeping the selection near the middle once it passes the first half.
func rowWindow(selected, count, visible int) (start, end int) {
	if visible <= 0 || count <= 0 {
		return 0, 0
	}
	if count <= visible {
		return 0, count
	}
	start = min(max(selected-visible/2, 0), count-visible)
	return start, start + visible
}

func (m Model) renderHeaderRow(headers []string, widths []int, width int, bg BgStyle, styles Styles) string {
	cells := make([]string, 0, len(widths))
	for i, w := range widths {
		if w <= 0 || i >= len(headers) {
			continue
		}
		cells = append(cells, bg.Pad(headers[i], w, styles.ColumnHeader))
	}
	return bg.FillLine(strings.Join(cells, bg.Spaces(columnGap)), width)
}

// renderRow formats one row. Selected rows use SelectionText throughout so
// every cell keeps contrast.
func (m Model) renderRow(row rows.Row, widths []int, width int, now time.Time, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))

	cells := make([]string, 0, len(widths))
	for i, w := range widths {
		if w <= 0 || i >= len(row.Columns) {
			continue
		}
		cell := row.Columns[i]
		text := cell.Display(now)
		switch {
		case cell.Kind == rows.CellBadge && !selected:
			badge := styles.StatusStyle(text).Render(truncate(text, max(w-2, 1)))
			cells = append(cells, badge+bg.Spaces(w-lipgloss.Width(badge)))
		case selected:
			cells = append(cells, bg.Pad(text, w, selText))
		default:
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.ToneColor(cell.Tone)))
			cells = append(cells, bg.Pad(text, w, style))
		}
	}
	return bg.FillLine(strings.Join(cells, bg.Spaces(columnGap)), width)
}

// fitWidths keeps the declared column widths, dropping trailing columns
// that do not fit and giving leftover space to the last visible column.
func fitWidths(declared []int, available int) []int {
	out := make([]int, len(declared))
	used := 0
	last := -1
	for i, w := range declared {
		need := w
		if i > 0 {
			need += columnGap
		}
		if used+need > available {
			break
		}
		out[i] = w
		used += need
		last = i
	}
	if last >= 0 && used < available {
		out[last] += available - used
	}
	return out
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderColor := lipgloss.Color(borderColorStr)
	bgColor := lipgloss.Color(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}

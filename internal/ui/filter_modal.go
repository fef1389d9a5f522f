package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/ffscope/internal/filters"
)

// filterModal edits the active screen's filter conditions. Changes are
// made to a working copy and applied on enter.
type filterModal struct {
	visible  bool
	inputs   [3]textinput.Model // field, operator, value
	focusIdx int
	resource filters.Resource
	working  filters.Spec
	err      string
}

func newFilterModal() filterModal {
	fieldInput := textinput.New()
	fieldInput.Placeholder = "e.g. key, approved, pool"
	fieldInput.CharLimit = 32
	fieldInput.Width = 30

	opInput := textinput.New()
	opInput.Placeholder = "=, !=, >=, @, ^ ... (blank is =)"
	opInput.CharLimit = 2
	opInput.Width = 30

	valueInput := textinput.New()
	valueInput.Placeholder = "e.g. true, 0xab12"
	valueInput.CharLimit = 256
	valueInput.Width = 30

	return filterModal{inputs: [3]textinput.Model{fieldInput, opInput, valueInput}}
}

// open shows the modal seeded with the screen's current conditions.
func (f *filterModal) open(r filters.Resource, current filters.Spec) {
	f.resource = r
	f.working = current
	f.err = ""
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focusIdx = 0
	f.inputs[0].Focus()
	f.visible = true
}

func (f *filterModal) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (f *filterModal) cycle(dir int) {
	f.inputs[f.focusIdx].Blur()
	f.focusIdx = (f.focusIdx + dir + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focusIdx].Focus()
}

// pending builds a condition from the inputs. ok is false when the inputs
// are blank.
func (f *filterModal) pending() (filters.Condition, bool, error) {
	field := strings.ToLower(strings.TrimSpace(f.inputs[0].Value()))
	op := strings.TrimSpace(f.inputs[1].Value())
	value := strings.TrimSpace(f.inputs[2].Value())
	if field == "" && op == "" && value == "" {
		return filters.Condition{}, false, nil
	}
	if !filters.ValidField(f.resource, field) {
		return filters.Condition{}, false, fmt.Errorf("unknown %s field %q", f.resource, field)
	}
	if op == "" {
		op = "="
	}
	return filters.Condition{Field: field, Operator: op, Value: value}, true, nil
}

// handleFilterKey handles keyboard input for the filter modal.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.filter
	switch {
	case key.Matches(msg, m.keys.Escape):
		f.visible = false
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		cond, ok, err := f.pending()
		if err != nil {
			f.err = err.Error()
			return m, nil
		}
		if ok {
			next, err := f.working.Add(cond)
			if err != nil {
				f.err = err.Error()
				return m, nil
			}
			f.working = next
		}
		f.visible = false
		return m, m.current().setFilter(f.working)

	case key.Matches(msg, m.keys.Tab), msg.Type == tea.KeyDown:
		f.cycle(1)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab), msg.Type == tea.KeyUp:
		f.cycle(-1)
		return m, nil

	case key.Matches(msg, m.keys.RemoveFilter):
		if !f.working.Empty() {
			f.working = f.working.Remove(len(f.working.Conditions) - 1)
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		f.working = filters.Spec{}
		for i := range f.inputs {
			f.inputs[i].SetValue("")
		}
		f.err = ""
		return m, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focusIdx], cmd = f.inputs[f.focusIdx].Update(msg)
	f.err = ""
	return m, cmd
}

// renderFilterModal renders the filter modal.
func (m Model) renderFilterModal() string {
	styles := m.theme.Styles()
	f := m.filter

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Filter " + m.current().title()))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 46)))
	b.WriteString("\n\n")

	if f.working.Empty() {
		b.WriteString(styles.MutedText.Render("No conditions."))
		b.WriteString("\n")
	}
	for i, c := range f.working.Conditions {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d. ", i+1)))
		b.WriteString(styles.AccentText.Render(c.String()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	labels := []string{"Field:    ", "Operator: ", "Value:    "}
	for i, label := range labels {
		if f.focusIdx == i {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	fields := filters.FieldsFor(f.resource)
	b.WriteString(styles.FaintText.Render(wrapWords(strings.Join(fields, " "), 46)))
	b.WriteString("\n\n")

	if f.err != "" {
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.FaintText.Render("Enter: Apply  •  Esc: Cancel  •  Ctrl+R: Remove last  •  Ctrl+X: Clear"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(56)

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

// wrapWords breaks text on spaces so no line exceeds width.
func wrapWords(text string, width int) string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

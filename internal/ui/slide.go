package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"sigs.k8s.io/yaml"

	"github.com/five82/ffscope/internal/appstate"
	"github.com/five82/ffscope/internal/firefly"
	"github.com/five82/ffscope/internal/rows"
)

type slideField struct {
	label string
	value string
	badge bool
}

// updateSlideViewport sizes the slide pane and re-renders the open record.
func (m *Model) updateSlideViewport() {
	if !m.ready {
		return
	}
	_, slideWidth := m.paneWidths()
	m.slideViewport.Width = max(slideWidth-4, 10)
	m.slideViewport.Height = max(m.contentHeight()-2, 1)

	record, _, open := m.current().slide()
	if !open {
		m.slideViewport.SetContent("")
		return
	}
	m.slideViewport.SetContent(m.renderSlideContent(record, m.snapshot.DataView, m.slideViewport.Width))
}

func (m Model) slideTitle() string {
	_, id, _ := m.current().slide()
	title := strings.TrimSuffix(m.current().title(), "s")
	if id != "" {
		title += " " + truncateMiddle(id, 16)
	}
	return title + " [" + string(m.snapshot.DataView) + "]"
}

// renderSlideContent renders a record as a field list, JSON or YAML.
func (m Model) renderSlideContent(record any, view appstate.DataView, width int) string {
	styles := m.theme.Styles()
	switch view {
	case appstate.DataViewJSON:
		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return styles.DangerText.Render("encode json: " + err.Error())
		}
		return styles.Text.Render(string(out))
	case appstate.DataViewYAML:
		out, err := yaml.Marshal(record)
		if err != nil {
			return styles.DangerText.Render("encode yaml: " + err.Error())
		}
		return styles.Text.Render(strings.TrimRight(string(out), "\n"))
	}

	fields := slideFields(record)
	labelWidth := 0
	for _, f := range fields {
		labelWidth = max(labelWidth, len(f.label))
	}
	valueWidth := max(width-labelWidth-2, 8)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.MutedText.Render(padRight(f.label, labelWidth)))
		b.WriteString("  ")
		value := f.value
		if value == "" {
			value = "-"
		}
		if f.badge {
			b.WriteString(styles.StatusStyle(value).Render(value))
			continue
		}
		b.WriteString(lipgloss.NewStyle().Width(valueWidth).Foreground(lipgloss.Color(m.theme.Text)).Render(value))
	}
	return b.String()
}

func slideFields(record any) []slideField {
	switch r := record.(type) {
	case firefly.TokenApproval:
		return []slideField{
			{label: "Local ID", value: r.LocalID},
			{label: "Approved", value: rows.YesNo(r.Approved).Value, badge: true},
			{label: "Active", value: rows.YesNo(r.Active).Value, badge: true},
			{label: "Signing Key", value: r.Key},
			{label: "Operator", value: r.Operator},
			{label: "Pool", value: r.Pool},
			{label: "Connector", value: r.Connector},
			{label: "Protocol ID", value: r.ProtocolID},
			{label: "Subject", value: r.Subject},
			{label: "Message", value: r.Message},
			{label: "Transaction", value: txLabel(r.TX)},
			{label: "Blockchain Event", value: r.BlockchainEvent},
			{label: "Created", value: r.Created},
		}
	case firefly.TokenPool:
		return []slideField{
			{label: "ID", value: r.ID},
			{label: "Name", value: r.Name},
			{label: "Network Name", value: r.NetworkName},
			{label: "State", value: strings.ToUpper(r.StateLabel()), badge: true},
			{label: "Type", value: r.Type},
			{label: "Standard", value: r.Standard},
			{label: "Symbol", value: r.Symbol},
			{label: "Decimals", value: fmt.Sprintf("%d", r.Decimals)},
			{label: "Connector", value: r.Connector},
			{label: "Locator", value: r.Locator},
			{label: "Message", value: r.Message},
			{label: "Transaction", value: txLabel(r.TX)},
			{label: "Created", value: r.Created},
		}
	default:
		return []slideField{{label: "Record", value: fmt.Sprintf("%+v", record)}}
	}
}

func txLabel(tx firefly.TransactionRef) string {
	if tx.ID == "" {
		return ""
	}
	if tx.Type == "" {
		return tx.ID
	}
	return tx.ID + " (" + tx.Type + ")"
}

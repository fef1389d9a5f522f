package ui

import (
	"strings"
	"testing"
)

func TestRowWindow(t *testing.T) {
	cases := []struct {
		selected, count, visible int
		start, end               int
	}{
		{0, 5, 10, 0, 5},
		{4, 5, 10, 0, 5},
		{0, 50, 10, 0, 10},
		{5, 50, 10, 0, 10},
		{6, 50, 10, 1, 11},
		{25, 50, 10, 20, 30},
		{49, 50, 10, 40, 50},
		{3, 50, 0, 0, 0},
		{0, 0, 10, 0, 0},
	}
	for _, tc := range cases {
		start, end := rowWindow(tc.selected, tc.count, tc.visible)
		if start != tc.start || end != tc.end {
			t.Fatalf("rowWindow(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tc.selected, tc.count, tc.visible, start, end, tc.start, tc.end)
		}
		if tc.count > 0 && tc.visible > 0 && (tc.selected < start || tc.selected >= end) {
			t.Fatalf("selection %d outside window [%d, %d)", tc.selected, start, end)
		}
	}
}

func TestTableScrollsToKeepSelectionVisible(t *testing.T) {
	api := &fakeAPI{approvals: approvals(50), total: 50}
	h := newHarness(t, api, "")
	h.mount()
	h.run(h.model.current().setPageSize(50))
	h.press("G")

	view := h.model.current().view()
	if view.selected != 49 {
		t.Fatalf("selected = %d, want 49", view.selected)
	}

	const width, height = 120, 12
	out := h.model.renderTable(view, width, height, h.model.theme.FocusBg)
	lines := strings.Split(out, "\n")
	if len(lines) != height {
		t.Fatalf("rendered %d lines, want %d", len(lines), height)
	}
	widths := fitWidths(view.widths, width)
	selected := h.model.renderRow(view.rows[49], widths, width, h.now, h.model.theme.SelectionBg, true)
	if lines[len(lines)-1] != selected {
		t.Fatalf("selected row is not drawn on the last line")
	}
	first := h.model.renderRow(view.rows[0], widths, width, h.now, h.model.theme.FocusBg, false)
	if strings.Contains(out, first) {
		t.Fatalf("first row still drawn after scrolling to the bottom")
	}
}

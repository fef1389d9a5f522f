// Package rows projects FireFly records into generic table rows.
package rows

import (
	"strconv"
	"time"
)

// CellKind tells the renderer how to present a cell.
type CellKind int

// Cell kinds.
const (
	CellText CellKind = iota
	CellHash
	CellBadge
	CellTime
)

// Tone colours a badge or text cell.
type Tone string

// Tones map to theme colours in the UI.
const (
	ToneNone      Tone = ""
	TonePrimary   Tone = "primary"
	ToneSecondary Tone = "secondary"
	ToneSuccess   Tone = "success"
	ToneWarning   Tone = "warning"
	ToneDanger    Tone = "danger"
)

// Cell is one renderable value.
type Cell struct {
	Kind  CellKind
	Value string
	Time  time.Time
	Tone  Tone
}

// Display renders the cell as plain text. now anchors relative times.
func (c Cell) Display(now time.Time) string {
	switch c.Kind {
	case CellHash:
		return ShortHash(c.Value)
	case CellTime:
		return FormatTime(c.Time, now)
	default:
		return c.Value
	}
}

// Row is one table row. Key is the page-local index; ID is the record's own
// identifier, used to keep the selection across refetches.
type Row struct {
	Key     string
	ID      string
	Columns []Cell
	OnClick func()
}

// Column describes one projected column.
type Column[T any] struct {
	Header string
	Width  int // preferred width; 0 lets the table decide
	Cell   func(T) Cell
}

// Projection maps a record type onto table columns.
type Projection[T any] struct {
	Columns []Column[T]
	ID      func(T) string
}

// Headers returns the column headers in order.
func (p Projection[T]) Headers() []string {
	out := make([]string, len(p.Columns))
	for i, col := range p.Columns {
		out[i] = col.Header
	}
	return out
}

// Widths returns the preferred column widths in order.
func (p Projection[T]) Widths() []int {
	out := make([]int, len(p.Columns))
	for i, col := range p.Columns {
		out[i] = col.Width
	}
	return out
}

// Project builds one row per record, preserving order. onSelect, when set,
// is bound to each row's OnClick with that row's record.
func Project[T any](records []T, p Projection[T], onSelect func(T)) []Row {
	if len(records) == 0 {
		return nil
	}
	out := make([]Row, 0, len(records))
	for idx, rec := range records {
		row := Row{
			Key:     strconv.Itoa(idx),
			Columns: make([]Cell, len(p.Columns)),
		}
		if p.ID != nil {
			row.ID = p.ID(rec)
		}
		for i, col := range p.Columns {
			row.Columns[i] = col.Cell(rec)
		}
		if onSelect != nil {
			rec := rec
			row.OnClick = func() { onSelect(rec) }
		}
		out = append(out, row)
	}
	return out
}

// IndexOf finds the row carrying id, or -1.
func IndexOf(rows []Row, id string) int {
	if id == "" {
		return -1
	}
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

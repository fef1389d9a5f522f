package rows

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/five82/ffscope/internal/firefly"
)

// Text is a plain cell.
func Text(v string) Cell { return Cell{Kind: CellText, Value: v} }

// Hash is a shortened identifier or address cell.
func Hash(v string) Cell { return Cell{Kind: CellHash, Value: v} }

// YesNo is a YES/NO badge.
func YesNo(v bool) Cell {
	if v {
		return Cell{Kind: CellBadge, Value: "YES", Tone: TonePrimary}
	}
	return Cell{Kind: CellBadge, Value: "NO", Tone: TonePrimary}
}

// Created is a timestamp cell from a FireFly created string.
func Created(raw string) Cell {
	return Cell{Kind: CellTime, Value: raw, Time: firefly.ParseTime(raw), Tone: ToneSecondary}
}

// ShortHash keeps the head and tail of long identifiers: 0x1234…abcd.
func ShortHash(v string) string {
	if utf8.RuneCountInString(v) <= 13 {
		return v
	}
	runes := []rune(v)
	return string(runes[:6]) + "…" + string(runes[len(runes)-4:])
}

// FormatTime renders a relative time for the last day and an absolute one
// beyond that.
func FormatTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < 0:
		return t.Local().Format("Jan 02 15:04")
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case t.Year() == now.Year():
		return t.Local().Format("Jan 02 15:04")
	default:
		return t.Local().Format("2006-01-02")
	}
}

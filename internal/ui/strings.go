package ui

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle shortens a string by removing characters from the middle,
// preserving both the beginning and end.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

var numbers = message.NewPrinter(language.English)

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return numbers.Sprintf("%d", n)
}

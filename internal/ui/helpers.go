package ui

import (
	"errors"
	"strings"

	"github.com/five82/ffscope/internal/firefly"
)

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, firefly.ErrInvalidID) {
		return "BAD ID"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "status 404"):
		return "NOT FOUND"
	default:
		return "ERROR"
	}
}

// nextPageSize steps through limits in the given direction, staying on the
// ends.
func nextPageSize(limits []int, current, dir int) int {
	if len(limits) == 0 {
		return current
	}
	idx := -1
	for i, l := range limits {
		if l == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		for i, l := range limits {
			if l > current {
				if dir > 0 {
					return l
				}
				if i > 0 {
					return limits[i-1]
				}
				return limits[0]
			}
		}
		return limits[len(limits)-1]
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(limits) {
		idx = len(limits) - 1
	}
	return limits[idx]
}

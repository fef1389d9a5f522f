package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
)

// Options narrow which lines Tail returns.
type Options struct {
	Lines     int       // keep at most this many; <= 0 keeps all
	MinLevel  log.Level // zero keeps info and above; lines without a level are kept
	Component string    // keep only lines tagged component=<name>
}

// Tail returns the last matching lines of the log file at path, oldest
// first. A missing file yields no lines.
func Tail(path string, opts Options) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	var ring []string
	if opts.Lines > 0 {
		ring = make([]string, opts.Lines)
	}
	var all []string
	count, idx := 0, 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !opts.matches(line) {
			continue
		}
		if ring == nil {
			all = append(all, line)
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % len(ring)
		count = min(count+1, len(ring))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if ring == nil {
		return all, nil
	}

	lines := make([]string, count)
	if count == len(ring) {
		for i := range count {
			lines[i] = ring[(idx+i)%len(ring)]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

func (o Options) matches(line string) bool {
	if o.Component != "" && !strings.Contains(line, "component="+o.Component) {
		return false
	}
	if lvl, ok := LevelOf(line); ok && lvl < o.MinLevel {
		return false
	}
	return true
}

// levelTokens are the level labels the text formatter writes.
var levelTokens = map[string]log.Level{
	"DEBU": log.DebugLevel,
	"INFO": log.InfoLevel,
	"WARN": log.WarnLevel,
	"ERRO": log.ErrorLevel,
	"FATA": log.FatalLevel,
}

// LevelOf reads the level from a text-formatted line:
//
//	2024-05-01T12:00:00Z WARN ffscope: event poll failed component=poller
func LevelOf(line string) (log.Level, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	token := fields[1]
	if len(token) > 4 {
		token = token[:4]
	}
	lvl, ok := levelTokens[strings.ToUpper(token)]
	return lvl, ok
}

// ColorizeLine highlights the timestamp and level of a log line for
// terminal output. Lines it cannot parse are returned unchanged.
func ColorizeLine(line string) string {
	lvl, ok := LevelOf(line)
	if !ok {
		return line
	}
	ts, rest, _ := strings.Cut(line, " ")
	token, msg, _ := strings.Cut(rest, " ")
	return color.New(color.Faint).Sprint(ts) + " " + levelColor(lvl).Sprint(token) + " " + msg
}

// ColorizeLines applies ColorizeLine to each line.
func ColorizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ColorizeLine(line)
	}
	return out
}

func levelColor(lvl log.Level) *color.Color {
	switch lvl {
	case log.DebugLevel:
		return color.New(color.FgCyan, color.Bold)
	case log.WarnLevel:
		return color.New(color.FgYellow, color.Bold)
	case log.ErrorLevel, log.FatalLevel:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

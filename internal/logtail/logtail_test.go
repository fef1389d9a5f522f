package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
)

func writeLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffscope.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}
	return path
}

func TestTail(t *testing.T) {
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		expectedAll = append(expectedAll, fmt.Sprintf("Line %d", i))
	}
	logPath := writeLog(t, expectedAll)

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(logPath, Options{Lines: tt.maxLines})
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tail() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTailMissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "nope.log"), Options{Lines: 5})
	if err != nil || got != nil {
		t.Fatalf("Tail() = %v, %v; want nil, nil", got, err)
	}
}

func TestTailFilters(t *testing.T) {
	lines := []string{
		"2024-05-01T12:00:00Z INFO ffscope: starting api=http://127.0.0.1:5000",
		"2024-05-01T12:00:01Z DEBU ffscope: event cursor seeded component=poller namespace=default",
		"2024-05-01T12:00:02Z WARN ffscope: event poll failed component=poller failures=1",
		"2024-05-01T12:00:03Z ERRO ffscope: list failed component=approvals",
		"    continuation without a level",
	}
	logPath := writeLog(t, lines)

	got, err := Tail(logPath, Options{MinLevel: log.WarnLevel})
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	want := []string{lines[2], lines[3], lines[4]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("level filter = %v, want %v", got, want)
	}

	got, err = Tail(logPath, Options{Component: "poller", Lines: 1})
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{lines[2]}) {
		t.Errorf("component filter = %v, want %v", got, lines[2])
	}
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
		ok    bool
	}{
		{"2024-05-01T12:00:00Z INFO ffscope: hi", log.InfoLevel, true},
		{"2024-05-01T12:00:00Z ERRO ffscope: boom", log.ErrorLevel, true},
		{"2024-05-01T12:00:00Z DEBU ffscope: detail", log.DebugLevel, true},
		{"plain text", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := LevelOf(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("LevelOf(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestColorizeLines(t *testing.T) {
	originalNoColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = originalNoColor }()

	input := []string{
		"2024-05-01T12:00:00Z INFO ffscope: starting",
		"    continuation",
	}
	got := ColorizeLines(input)
	if !reflect.DeepEqual(got, input) {
		t.Errorf("ColorizeLines() without color = %q, want unchanged %q", got, input)
	}
}

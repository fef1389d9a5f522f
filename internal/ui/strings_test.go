package ui

import (
	"testing"

	"github.com/five82/ffscope/internal/config"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  short  ", 10, "short"},
		{"abcdefghij", 10, "abcdefghij"},
		{"abcdefghijk", 10, "abcdefg..."},
		{"abcdef", 3, "abc"},
		{"ünïcödé-string", 8, "ünïcö..."},
		{"anything", 0, "anything"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("did:firefly:org/org_0", 11)
	if got != "did:f…org_0" {
		t.Fatalf("truncateMiddle = %q, want did:f…org_0", got)
	}
}

func TestFormatCount(t *testing.T) {
	if got := formatCount(1234567); got != "1,234,567" {
		t.Fatalf("formatCount = %q, want 1,234,567", got)
	}
	if got := formatCount(28); got != "28" {
		t.Fatalf("formatCount = %q, want 28", got)
	}
}

func TestNextPageSize(t *testing.T) {
	limits := config.PageLimits
	cases := []struct {
		current, dir, want int
	}{
		{10, 1, 25},
		{10, -1, 5},
		{5, -1, 5},
		{100, 1, 100},
		{20, 1, 25},
		{20, -1, 10},
		{1000, -1, 100},
	}
	for _, tc := range cases {
		if got := nextPageSize(limits, tc.current, tc.dir); got != tc.want {
			t.Fatalf("nextPageSize(%d, %d) = %d, want %d", tc.current, tc.dir, got, tc.want)
		}
	}
}

func TestFitWidths(t *testing.T) {
	got := fitWidths([]int{10, 10, 10}, 40)
	want := []int{10, 10, 16}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fitWidths = %v, want %v", got, want)
		}
	}

	got = fitWidths([]int{10, 10, 10}, 25)
	if got[2] != 0 || got[1] != 13 {
		t.Fatalf("fitWidths narrow = %v, want third column dropped", got)
	}
}

func TestWrapWords(t *testing.T) {
	got := wrapWords("alpha beta gamma delta", 11)
	if got != "alpha beta\ngamma delta" {
		t.Fatalf("wrapWords = %q", got)
	}
}

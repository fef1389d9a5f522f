package filters

import (
	"strconv"
	"testing"
	"time"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestNewDateFilter_BuildsCreatedFragment(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 500, time.UTC)

	cases := []struct {
		option CreatedFilter
		since  time.Time
	}{
		{Created1Hour, now.Add(-time.Hour)},
		{Created24Hours, now.Add(-24 * time.Hour)},
		{Created7Days, now.Add(-7 * 24 * time.Hour)},
		{Created30Days, now.Add(-30 * 24 * time.Hour)},
	}
	for _, tc := range cases {
		df := NewDateFilter(tc.option, fixedClock(now))
		want := "&created=>=" + strconv.FormatInt(tc.since.Unix(), 10)
		if df.FilterString != want {
			t.Fatalf("%s FilterString = %q, want %q", tc.option, df.FilterString, want)
		}
		if df.Option != tc.option {
			t.Fatalf("Option = %q, want %q", df.Option, tc.option)
		}
	}
}

func TestNewDateFilter_UnknownOptionFallsBack(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	df := NewDateFilter("forever", fixedClock(now))
	if df.Option != DefaultCreatedFilter {
		t.Fatalf("Option = %q, want %q", df.Option, DefaultCreatedFilter)
	}
	if df.FilterString != "&created=>=1699913600" {
		t.Fatalf("FilterString = %q", df.FilterString)
	}
}

func TestDateFilter_EqualSelectionsCompareEqual(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	a := NewDateFilter(Created7Days, fixedClock(now))
	b := NewDateFilter(Created7Days, fixedClock(now))
	if a != b {
		t.Fatalf("same selection at same instant differs: %#v vs %#v", a, b)
	}
	if (DateFilter{}).IsZero() != true || a.IsZero() {
		t.Fatalf("IsZero mismatch")
	}
}

func TestParseCreatedFilter(t *testing.T) {
	for raw, want := range map[string]CreatedFilter{
		"1hour": Created1Hour, "1H": Created1Hour,
		"24hours": Created24Hours, "24h": Created24Hours,
		" 7d ": Created7Days, "30days": Created30Days,
	} {
		got, err := ParseCreatedFilter(raw)
		if err != nil {
			t.Fatalf("ParseCreatedFilter(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseCreatedFilter(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParseCreatedFilter("yesterday"); err == nil {
		t.Fatalf("ParseCreatedFilter(yesterday) returned nil error")
	}
}

func TestCreatedFilterNextWraps(t *testing.T) {
	if Created1Hour.Next() != Created24Hours {
		t.Fatalf("1hour.Next = %q", Created1Hour.Next())
	}
	if Created30Days.Next() != Created1Hour {
		t.Fatalf("30days.Next = %q", Created30Days.Next())
	}
	if CreatedFilter("bogus").Next() != DefaultCreatedFilter {
		t.Fatalf("bogus.Next = %q", CreatedFilter("bogus").Next())
	}
}

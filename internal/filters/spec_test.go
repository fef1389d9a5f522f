package filters

import (
	"errors"
	"testing"
)

func TestSpecFilterString(t *testing.T) {
	var spec Spec
	if spec.FilterString() != "" {
		t.Fatalf("empty spec FilterString = %q, want empty", spec.FilterString())
	}

	spec, err := spec.Add(Condition{Field: "approved", Value: "true"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	spec, err = spec.Add(Condition{Field: "Key", Operator: "@", Value: "0xab cd"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	want := "&approved=true&key=@0xab+cd"
	if got := spec.FilterString(); got != want {
		t.Fatalf("FilterString = %q, want %q", got, want)
	}
	if got := spec.Summary(); got != "approved=true, key=@0xab cd" {
		t.Fatalf("Summary = %q", got)
	}

	spec = spec.Remove(0)
	if got := spec.FilterString(); got != "&key=@0xab+cd" {
		t.Fatalf("after Remove FilterString = %q", got)
	}
}

func TestSpecAddDoesNotAlias(t *testing.T) {
	base, _ := Spec{}.Add(Condition{Field: "pool", Value: "p1"})
	a, _ := base.Add(Condition{Field: "key", Value: "a"})
	b, _ := base.Add(Condition{Field: "key", Value: "b"})
	if a.Conditions[1].Value != "a" || b.Conditions[1].Value != "b" {
		t.Fatalf("specs share storage: %v / %v", a, b)
	}
}

func TestSpecAddRejectsInvalid(t *testing.T) {
	if _, err := (Spec{}).Add(Condition{Field: " ", Value: "x"}); !errors.Is(err, ErrEmptyCondition) {
		t.Fatalf("Add empty field error = %v, want ErrEmptyCondition", err)
	}
	if _, err := (Spec{}).Add(Condition{Field: "key", Operator: "~~", Value: "x"}); err == nil {
		t.Fatalf("Add unknown operator returned nil error")
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		raw  string
		want Condition
	}{
		{"approved=true", Condition{Field: "approved", Operator: "=", Value: "true"}},
		{"key=@0xab", Condition{Field: "key", Operator: "@", Value: "0xab"}},
		{"created>=1700000000", Condition{Field: "created", Operator: ">=", Value: "1700000000"}},
		{"created=>=1700000000", Condition{Field: "created", Operator: ">=", Value: "1700000000"}},
		{"operator!=0x1", Condition{Field: "operator", Operator: "!=", Value: "0x1"}},
		{"tx.type^token", Condition{Field: "tx.type", Operator: "^", Value: "token"}},
	}
	for _, tc := range cases {
		got, err := Parse(ResourceApprovals, tc.raw)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %#v, want %#v", tc.raw, got, tc.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, raw := range []string{"", "approved", "=true", "approved=", "symbol=GLD"} {
		if _, err := Parse(ResourceApprovals, raw); err == nil {
			t.Fatalf("Parse(%q) returned nil error", raw)
		}
	}
	if _, err := Parse(ResourcePools, "symbol=GLD"); err != nil {
		t.Fatalf("Parse pools symbol returned error: %v", err)
	}
}

func TestParseAll(t *testing.T) {
	spec, err := ParseAll(ResourcePools, []string{"name^gold", "state=confirmed"})
	if err != nil {
		t.Fatalf("ParseAll returned error: %v", err)
	}
	if got := spec.FilterString(); got != "&name=^gold&state=confirmed" {
		t.Fatalf("FilterString = %q", got)
	}
	if _, err := ParseAll(ResourcePools, []string{"name^gold", "bogus=1"}); err == nil {
		t.Fatalf("ParseAll with bad field returned nil error")
	}
}

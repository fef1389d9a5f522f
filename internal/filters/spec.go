package filters

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrEmptyCondition is returned when a condition has no field or value.
var ErrEmptyCondition = errors.New("empty filter condition")

// Condition is one field/operator/value triple.
type Condition struct {
	Field    string
	Operator string
	Value    string
}

// String renders the condition the way Parse accepts it.
func (c Condition) String() string {
	op := c.Operator
	if op == "=" {
		op = ""
	}
	return c.Field + "=" + op + c.Value
}

// Spec is an ordered set of conditions. The zero value filters nothing.
type Spec struct {
	Conditions []Condition
}

// Add appends a condition, rejecting empty fields and unknown operators.
func (s Spec) Add(c Condition) (Spec, error) {
	c.Field = strings.ToLower(strings.TrimSpace(c.Field))
	c.Value = strings.TrimSpace(c.Value)
	if c.Field == "" || c.Value == "" {
		return s, ErrEmptyCondition
	}
	if c.Operator == "" {
		c.Operator = "="
	}
	if _, ok := LookupOperator(c.Operator); !ok {
		return s, fmt.Errorf("unknown filter operator %q", c.Operator)
	}
	out := Spec{Conditions: make([]Condition, 0, len(s.Conditions)+1)}
	out.Conditions = append(out.Conditions, s.Conditions...)
	out.Conditions = append(out.Conditions, c)
	return out, nil
}

// Remove drops the condition at index i.
func (s Spec) Remove(i int) Spec {
	if i < 0 || i >= len(s.Conditions) {
		return s
	}
	out := Spec{Conditions: make([]Condition, 0, len(s.Conditions)-1)}
	out.Conditions = append(out.Conditions, s.Conditions[:i]...)
	out.Conditions = append(out.Conditions, s.Conditions[i+1:]...)
	return out
}

// Empty reports whether the spec has no conditions.
func (s Spec) Empty() bool { return len(s.Conditions) == 0 }

// FilterString renders "&field=<op>value" for each condition, appended
// verbatim to list requests. Values are query-escaped; the operator prefix
// is not, since FireFly reads it literally.
func (s Spec) FilterString() string {
	if s.Empty() {
		return ""
	}
	var b strings.Builder
	for _, c := range s.Conditions {
		op := c.Operator
		if op == "=" {
			op = ""
		}
		b.WriteString("&")
		b.WriteString(url.QueryEscape(c.Field))
		b.WriteString("=")
		b.WriteString(op)
		b.WriteString(url.QueryEscape(c.Value))
	}
	return b.String()
}

// Summary is a short human form for the header.
func (s Spec) Summary() string {
	parts := make([]string, 0, len(s.Conditions))
	for _, c := range s.Conditions {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}

// Parse reads "field=<op>value" or "field<op>value" (for example
// "approved=true", "key=@0xab", "created>=1700000000") and validates the
// field against r.
func Parse(r Resource, raw string) (Condition, error) {
	raw = strings.TrimSpace(raw)
	idx := strings.IndexAny(raw, "=!<>@^$")
	if idx <= 0 {
		return Condition{}, fmt.Errorf("parse filter %q: want field<op>value", raw)
	}
	field := strings.ToLower(strings.TrimSpace(raw[:idx]))
	rest := raw[idx:]
	// "field=op value" is FireFly's own wire shape; strip the separator.
	if strings.HasPrefix(rest, "=") && len(rest) > 1 && strings.ContainsAny(rest[1:2], "!<>@^$") {
		rest = rest[1:]
	}
	var op Operator
	for _, candidate := range Operators {
		if strings.HasPrefix(rest, candidate.Symbol) {
			op = candidate
			break
		}
	}
	if op.Symbol == "" {
		return Condition{}, fmt.Errorf("parse filter %q: unknown operator", raw)
	}
	value := strings.TrimSpace(rest[len(op.Symbol):])
	if value == "" {
		return Condition{}, fmt.Errorf("parse filter %q: %w", raw, ErrEmptyCondition)
	}
	if !ValidField(r, field) {
		return Condition{}, fmt.Errorf("parse filter %q: unknown %s field %q", raw, r, field)
	}
	return Condition{Field: field, Operator: op.Symbol, Value: value}, nil
}

// ParseAll parses each raw condition into a Spec.
func ParseAll(r Resource, raws []string) (Spec, error) {
	var spec Spec
	for _, raw := range raws {
		c, err := Parse(r, raw)
		if err != nil {
			return Spec{}, err
		}
		spec, err = spec.Add(c)
		if err != nil {
			return Spec{}, err
		}
	}
	return spec, nil
}

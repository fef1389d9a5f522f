package filters

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CreatedFilter is a relative window on a record's created timestamp.
type CreatedFilter string

// Supported created windows.
const (
	Created1Hour   CreatedFilter = "1hour"
	Created24Hours CreatedFilter = "24hours"
	Created7Days   CreatedFilter = "7days"
	Created30Days  CreatedFilter = "30days"
)

// DefaultCreatedFilter is used when nothing has been chosen.
const DefaultCreatedFilter = Created24Hours

var createdOrder = []CreatedFilter{Created1Hour, Created24Hours, Created7Days, Created30Days}

// CreatedFilters returns the supported windows, narrowest first.
func CreatedFilters() []CreatedFilter {
	out := make([]CreatedFilter, len(createdOrder))
	copy(out, createdOrder)
	return out
}

// ParseCreatedFilter accepts the canonical names plus a few spellings
// (1h, 24h, 7d, 30d).
func ParseCreatedFilter(raw string) (CreatedFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1hour", "1h":
		return Created1Hour, nil
	case "24hours", "24h", "1d":
		return Created24Hours, nil
	case "7days", "7d", "1w":
		return Created7Days, nil
	case "30days", "30d":
		return Created30Days, nil
	}
	return "", fmt.Errorf("unknown created filter %q (want one of 1hour, 24hours, 7days, 30days)", raw)
}

// Duration returns how far back the window reaches.
func (c CreatedFilter) Duration() time.Duration {
	switch c {
	case Created1Hour:
		return time.Hour
	case Created7Days:
		return 7 * 24 * time.Hour
	case Created30Days:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Label is the short form shown in the header.
func (c CreatedFilter) Label() string {
	switch c {
	case Created1Hour:
		return "last hour"
	case Created7Days:
		return "last 7 days"
	case Created30Days:
		return "last 30 days"
	default:
		return "last 24 hours"
	}
}

// Next cycles to the following window, wrapping around.
func (c CreatedFilter) Next() CreatedFilter {
	for i, opt := range createdOrder {
		if opt == c {
			return createdOrder[(i+1)%len(createdOrder)]
		}
	}
	return DefaultCreatedFilter
}

// DateFilter is the resolved query fragment for one selection of a created
// window. A new value is built for every selection; equality of two values
// means the list query is unchanged.
type DateFilter struct {
	Option       CreatedFilter
	Since        time.Time
	FilterString string
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// NewDateFilter resolves option against now.
func NewDateFilter(option CreatedFilter, now Clock) DateFilter {
	if now == nil {
		now = time.Now
	}
	if _, err := ParseCreatedFilter(string(option)); err != nil {
		option = DefaultCreatedFilter
	}
	since := now().Add(-option.Duration()).Truncate(time.Second)
	return DateFilter{
		Option:       option,
		Since:        since,
		FilterString: "&created=>=" + strconv.FormatInt(since.Unix(), 10),
	}
}

// IsZero reports whether no window has been resolved yet.
func (d DateFilter) IsZero() bool {
	return d.Option == "" && d.FilterString == ""
}

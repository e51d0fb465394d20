package domain

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone names must resolve without a system tz database
)

// isoLayouts are tried in order for values that carry an explicit offset.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// localLayouts are tried for values without an offset; they are read in the
// caller's zone.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadZone resolves an IANA zone name.
func LoadZone(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "timezone", Message: "time zone is required"}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &ValidationError{Field: "timezone", Message: fmt.Sprintf("unknown time zone %q", name)}
	}
	return loc, nil
}

// ParseInZone parses an ISO 8601 value. An explicit offset in the value wins;
// otherwise the value is read as wall-clock time in loc.
func ParseInZone(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO 8601 value", ErrInvalidInput, value)
}

// ClosedInterval is an inclusive [Start, End] window.
type ClosedInterval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the interval, bounds included.
func (i ClosedInterval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && !t.After(i.End)
}

// Overlaps reports whether the two intervals share at least one instant.
func (i ClosedInterval) Overlaps(other ClosedInterval) bool {
	return !i.End.Before(other.Start) && !other.End.Before(i.Start)
}

// Duration returns End - Start.
func (i ClosedInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// EnsureClosedInterval builds an interval from optional ISO bounds.
// Both bounds empty yields (nil, nil). Exactly one bound, an unparseable
// bound, or end before start fails with ErrInvalidInterval.
func EnsureClosedInterval(start, end, zone string) (*ClosedInterval, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: both start and end are required", ErrInvalidInterval)
	}
	if zone == "" {
		zone = "UTC"
	}
	loc, err := LoadZone(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	s, err := ParseInZone(start, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrInvalidInterval, err)
	}
	e, err := ParseInZone(end, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: end: %v", ErrInvalidInterval, err)
	}
	if e.Before(s) {
		return nil, fmt.Errorf("%w: end must be after or equal to start", ErrInvalidInterval)
	}
	return &ClosedInterval{Start: s, End: e}, nil
}

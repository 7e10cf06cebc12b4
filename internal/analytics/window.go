// Package analytics aggregates tracking events into dashboard stats and chart
// series. Every function takes the current time and location explicitly.
package analytics

import (
	"strings"
	"time"
)

// Filter is a named relative time window.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterToday     Filter = "today"
	FilterYesterday Filter = "yesterday"
	FilterWeek      Filter = "week"
	FilterMonth     Filter = "month"
)

// LiveWindow is how far back a visit still counts towards live users.
const LiveWindow = 30 * time.Minute

const day = 24 * time.Hour

// ParseFilter resolves a raw query value. Matching is case-insensitive.
func ParseFilter(raw string) (Filter, bool) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(raw))); f {
	case FilterAll, FilterToday, FilterYesterday, FilterWeek, FilterMonth:
		return f, true
	default:
		return "", false
	}
}

// Window is a half-open [Start, End) range. A nil bound is unbounded.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && !t.Before(*w.End) {
		return false
	}
	return true
}

// Union returns the smallest window covering both.
func (w Window) Union(other Window) Window {
	out := Window{}
	if w.Start != nil && other.Start != nil {
		out.Start = earliest(*w.Start, *other.Start)
	}
	if w.End != nil && other.End != nil {
		out.End = latest(*w.End, *other.End)
	}
	return out
}

// FilterWindow maps a filter to its event range. Only yesterday carries an
// upper bound; today, week and month run open-ended from their start.
func FilterWindow(f Filter, now time.Time, loc *time.Location) Window {
	switch f {
	case FilterToday:
		start := midnight(now, loc)
		return Window{Start: &start}
	case FilterYesterday:
		end := midnight(now, loc)
		start := end.AddDate(0, 0, -1)
		return Window{Start: &start, End: &end}
	case FilterWeek:
		start := now.Add(-7 * day)
		return Window{Start: &start}
	case FilterMonth:
		start := now.Add(-30 * day)
		return Window{Start: &start}
	default:
		return Window{}
	}
}

// LiveUsersWindow is the trailing window used for live users, independent of any filter.
func LiveUsersWindow(now time.Time) Window {
	start := now.Add(-LiveWindow)
	return Window{Start: &start}
}

func midnight(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func earliest(a, b time.Time) *time.Time {
	if a.Before(b) {
		return &a
	}
	return &b
}

func latest(a, b time.Time) *time.Time {
	if a.After(b) {
		return &a
	}
	return &b
}

package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"lms-service/internal/domain"
)

// Metric selects which event stream feeds a chart.
type Metric string

const (
	MetricVisits       Metric = "visits"
	MetricQuizAttempts Metric = "quiz_attempts"
)

// ParseMetric defaults to visits for empty or unknown values.
func ParseMetric(raw string) Metric {
	switch Metric(strings.ToLower(strings.TrimSpace(raw))) {
	case MetricQuizAttempts, "attempts", "quizattempts":
		return MetricQuizAttempts
	default:
		return MetricVisits
	}
}

// SeriesQuery is the raw, untyped series request as read off the wire.
type SeriesQuery struct {
	View   string
	Year   string
	Month  string
	Filter string
	Metric string
}

// SeriesMode is one of DayView, MonthView or FilterView.
type SeriesMode interface {
	// Window is the event range the mode needs from storage.
	Window(now time.Time, loc *time.Location) Window
	buckets(timestamps []time.Time, now time.Time, loc *time.Location) []domain.ChartBucket
}

// DayView has one bucket per calendar day of a month.
type DayView struct {
	Year  int
	Month time.Month
}

// MonthView has one bucket per month of a year.
type MonthView struct {
	Year int
}

// FilterView buckets according to a relative filter.
type FilterView struct {
	Filter Filter
}

// ParseSeriesQuery resolves the request into a mode. An explicit day or month
// view wins over any filter; missing year and month default to now, and months
// are clamped into 1..12.
func ParseSeriesQuery(q SeriesQuery, now time.Time, loc *time.Location) (SeriesMode, error) {
	local := now.In(loc)
	switch strings.ToLower(strings.TrimSpace(q.View)) {
	case "day":
		return DayView{
			Year:  parseYear(q.Year, local.Year()),
			Month: parseMonth(q.Month, local.Month()),
		}, nil
	case "month":
		return MonthView{Year: parseYear(q.Year, local.Year())}, nil
	}
	if f, ok := ParseFilter(q.Filter); ok {
		return FilterView{Filter: f}, nil
	}
	return nil, domain.ErrMissingSeriesParams
}

// ComputeSeries buckets timestamps for the given mode. Week and month filter
// views use rolling 24h buckets ending at now rather than calendar days; see
// rollingDays.
func ComputeSeries(timestamps []time.Time, mode SeriesMode, now time.Time, loc *time.Location) []domain.ChartBucket {
	return mode.buckets(timestamps, now, loc)
}

func (v DayView) Window(_ time.Time, loc *time.Location) Window {
	start := time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)
	return Window{Start: &start, End: &end}
}

func (v DayView) buckets(timestamps []time.Time, _ time.Time, loc *time.Location) []domain.ChartBucket {
	days := time.Date(v.Year, v.Month+1, 0, 0, 0, 0, 0, loc).Day()
	counts := make([]int, days)
	for _, ts := range timestamps {
		local := ts.In(loc)
		if local.Year() == v.Year && local.Month() == v.Month {
			counts[local.Day()-1]++
		}
	}
	out := make([]domain.ChartBucket, days)
	for i := range counts {
		out[i] = domain.ChartBucket{Label: "Day " + strconv.Itoa(i+1), Value: counts[i]}
	}
	return out
}

func (v MonthView) Window(_ time.Time, loc *time.Location) Window {
	start := time.Date(v.Year, time.January, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(1, 0, 0)
	return Window{Start: &start, End: &end}
}

func (v MonthView) buckets(timestamps []time.Time, _ time.Time, loc *time.Location) []domain.ChartBucket {
	var counts [12]int
	for _, ts := range timestamps {
		local := ts.In(loc)
		if local.Year() == v.Year {
			counts[local.Month()-1]++
		}
	}
	out := make([]domain.ChartBucket, 12)
	for i := range counts {
		out[i] = domain.ChartBucket{Label: time.Month(i + 1).String()[:3], Value: counts[i]}
	}
	return out
}

func (v FilterView) Window(now time.Time, loc *time.Location) Window {
	return FilterWindow(v.Filter, now, loc)
}

func (v FilterView) buckets(timestamps []time.Time, now time.Time, loc *time.Location) []domain.ChartBucket {
	window := FilterWindow(v.Filter, now, loc)
	switch v.Filter {
	case FilterToday, FilterYesterday:
		total := 0
		for _, ts := range timestamps {
			if window.Contains(ts) {
				total++
			}
		}
		label := "Today"
		if v.Filter == FilterYesterday {
			label = "Yesterday"
		}
		return []domain.ChartBucket{{Label: label, Value: total}}
	case FilterWeek:
		return rollingDays(timestamps, window, 7, "Mon, Jan 2", now, loc)
	case FilterMonth:
		return rollingDays(timestamps, window, 30, "Jan 2", now, loc)
	default:
		return byYear(timestamps, loc)
	}
}

// rollingDays splits the window into n consecutive 24h slices, the last one
// ending at now. Events after now land in the last slice, so the bucket sum
// matches the open-ended stats window. Each slice is labeled with the local
// date it ends on, so labels are not calendar days: with now at 10:00, a
// visit at 11:00 yesterday is counted under today's label.
func rollingDays(timestamps []time.Time, window Window, n int, layout string, now time.Time, loc *time.Location) []domain.ChartBucket {
	counts := make([]int, n)
	for _, ts := range timestamps {
		if !window.Contains(ts) {
			continue
		}
		idx := int(ts.Sub(*window.Start) / day)
		if idx >= n {
			idx = n - 1
		}
		counts[idx]++
	}
	out := make([]domain.ChartBucket, n)
	for i := range counts {
		end := now.Add(-time.Duration(n-1-i) * day).In(loc)
		out[i] = domain.ChartBucket{Label: end.Format(layout), Value: counts[i]}
	}
	return out
}

func byYear(timestamps []time.Time, loc *time.Location) []domain.ChartBucket {
	counts := make(map[int]int)
	for _, ts := range timestamps {
		counts[ts.In(loc).Year()]++
	}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)
	out := make([]domain.ChartBucket, 0, len(years))
	for _, y := range years {
		out = append(out, domain.ChartBucket{Label: strconv.Itoa(y), Value: counts[y]})
	}
	return out
}

func parseYear(raw string, fallback int) int {
	y, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || y <= 0 {
		return fallback
	}
	return y
}

func parseMonth(raw string, fallback time.Month) time.Month {
	m, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	if m < 1 {
		m = 1
	}
	if m > 12 {
		m = 12
	}
	return time.Month(m)
}

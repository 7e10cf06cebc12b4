package app

import (
	"context"
	"time"

	"lms-service/internal/analytics"
	"lms-service/internal/domain"
	"lms-service/internal/metrics"
)

// AnalyticsService answers dashboard queries over the tracking log.
type AnalyticsService struct {
	events EventStore
	loc    *time.Location
	now    func() time.Time
}

func NewAnalyticsService(events EventStore, loc *time.Location) *AnalyticsService {
	return NewAnalyticsServiceWithClock(events, loc, time.Now)
}

// NewAnalyticsServiceWithClock is test-only for deterministic windows.
func NewAnalyticsServiceWithClock(events EventStore, loc *time.Location, now func() time.Time) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{events: events, loc: loc, now: now}
}

// Stats returns headline numbers for the filter. Empty or unknown filters
// are treated as "all".
func (s *AnalyticsService) Stats(ctx context.Context, rawFilter string) (stats domain.Stats, err error) {
	start := time.Now()
	defer func() { metrics.ObserveAnalytics("stats", start, err) }()

	filter, ok := analytics.ParseFilter(rawFilter)
	if !ok {
		filter = analytics.FilterAll
	}
	now := s.now()
	window := analytics.FilterWindow(filter, now, s.loc)

	visits, err := s.events.ListVisits(ctx, window.Union(analytics.LiveUsersWindow(now)))
	if err != nil {
		return domain.Stats{}, err
	}
	attempts, err := s.events.ListQuizAttempts(ctx, window)
	if err != nil {
		return domain.Stats{}, err
	}
	return analytics.ComputeStats(visits, attempts, filter, now, s.loc), nil
}

// Series returns chart buckets for the requested view or filter.
func (s *AnalyticsService) Series(ctx context.Context, q analytics.SeriesQuery) (buckets []domain.ChartBucket, err error) {
	start := time.Now()
	defer func() { metrics.ObserveAnalytics("series", start, err) }()

	now := s.now()
	mode, err := analytics.ParseSeriesQuery(q, now, s.loc)
	if err != nil {
		return nil, err
	}
	window := mode.Window(now, s.loc)

	var timestamps []time.Time
	switch analytics.ParseMetric(q.Metric) {
	case analytics.MetricQuizAttempts:
		attempts, err := s.events.ListQuizAttempts(ctx, window)
		if err != nil {
			return nil, err
		}
		timestamps = make([]time.Time, 0, len(attempts))
		for _, a := range attempts {
			timestamps = append(timestamps, a.StartedAt)
		}
	default:
		visits, err := s.events.ListVisits(ctx, window)
		if err != nil {
			return nil, err
		}
		timestamps = make([]time.Time, 0, len(visits))
		for _, v := range visits {
			timestamps = append(timestamps, v.VisitedAt)
		}
	}
	return analytics.ComputeSeries(timestamps, mode, now, s.loc), nil
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"lms-service/internal/analytics"
	"lms-service/internal/domain"
	"lms-service/internal/infra/memory"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func newAnalyticsFixture(t *testing.T) (*AnalyticsService, time.Time) {
	t.Helper()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, jakarta)
	store := memory.NewActivityStore()
	ctx := context.Background()

	visits := []struct {
		at      time.Time
		session string
	}{
		{now.Add(-5 * time.Minute), "s1"},
		{now.Add(-10 * time.Minute), "s1"},
		{now.Add(-20 * time.Minute), ""},
		{now.Add(-2 * time.Hour), "s2"},
		{now.Add(-26 * time.Hour), "s3"},
		{now.Add(-10 * 24 * time.Hour), "s4"},
	}
	for i, v := range visits {
		if err := store.AppendVisit(ctx, domain.PageVisit{ID: string(rune('a' + i)), PageURL: "/", SessionID: v.session, VisitedAt: v.at}); err != nil {
			t.Fatalf("append visit: %v", err)
		}
	}
	for i, at := range []time.Time{now.Add(-time.Hour), now.Add(-40 * 24 * time.Hour)} {
		if err := store.CreateAttempt(ctx, domain.QuizAttempt{ID: string(rune('x' + i)), QuizID: "quiz-1", StartedAt: at}); err != nil {
			t.Fatalf("create attempt: %v", err)
		}
	}
	return NewAnalyticsServiceWithClock(store, jakarta, func() time.Time { return now }), now
}

func TestAnalyticsStats(t *testing.T) {
	svc, _ := newAnalyticsFixture(t)
	tests := []struct {
		filter         string
		wantFilter     string
		visits, attempts int
	}{
		{filter: "today", wantFilter: "today", visits: 4, attempts: 1},
		{filter: "yesterday", wantFilter: "yesterday", visits: 1, attempts: 0},
		{filter: "week", wantFilter: "week", visits: 5, attempts: 1},
		{filter: "month", wantFilter: "month", visits: 6, attempts: 1},
		{filter: "", wantFilter: "all", visits: 6, attempts: 2},
		{filter: "fortnight", wantFilter: "all", visits: 6, attempts: 2},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			stats, err := svc.Stats(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("stats: %v", err)
			}
			if stats.Filter != tt.wantFilter || stats.TotalVisits != tt.visits || stats.TotalQuizAttempts != tt.attempts {
				t.Fatalf("unexpected stats %+v", stats)
			}
			// s1 plus one sessionless visit, whatever the filter
			if stats.LiveUsers != 2 {
				t.Fatalf("expected 2 live users, got %d", stats.LiveUsers)
			}
		})
	}
}

func TestAnalyticsSeries(t *testing.T) {
	svc, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	week, err := svc.Series(ctx, analytics.SeriesQuery{Filter: "week"})
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(week) != 7 || sum(week) != 5 {
		t.Fatalf("unexpected week series %+v", week)
	}

	days, err := svc.Series(ctx, analytics.SeriesQuery{View: "day", Filter: "today"})
	if err != nil {
		t.Fatalf("day series: %v", err)
	}
	if len(days) != 31 || days[14].Value != 4 || days[13].Value != 1 {
		t.Fatalf("unexpected day view %+v", days)
	}

	attempts, err := svc.Series(ctx, analytics.SeriesQuery{View: "month", Metric: "quiz_attempts"})
	if err != nil {
		t.Fatalf("attempt series: %v", err)
	}
	if attempts[1].Value != 1 || attempts[2].Value != 1 {
		t.Fatalf("unexpected attempt months %+v", attempts)
	}

	if _, err := svc.Series(ctx, analytics.SeriesQuery{}); !errors.Is(err, domain.ErrMissingSeriesParams) {
		t.Fatalf("expected ErrMissingSeriesParams, got %v", err)
	}
}

func TestAnalyticsPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewAnalyticsService(failingEvents{err: boom}, time.UTC)
	if _, err := svc.Stats(context.Background(), "all"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if _, err := svc.Series(context.Background(), analytics.SeriesQuery{Filter: "all"}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

type failingEvents struct{ err error }

func (f failingEvents) AppendVisit(context.Context, domain.PageVisit) error { return f.err }
func (f failingEvents) ListVisits(context.Context, analytics.Window) ([]domain.PageVisit, error) {
	return nil, f.err
}
func (f failingEvents) ListQuizAttempts(context.Context, analytics.Window) ([]domain.QuizAttempt, error) {
	return nil, f.err
}

func sum(buckets []domain.ChartBucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Value
	}
	return total
}

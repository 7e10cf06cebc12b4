// Package metrics holds the Prometheus collectors shared by services and handlers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counter for recorded page visits
	VisitsTracked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lms_page_visits_tracked_total",
			Help: "Total number of page visits recorded",
		},
	)

	// Counter for quiz attempts by lifecycle step
	QuizAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_quiz_attempts_total",
			Help: "Quiz attempts started and submitted",
		},
		[]string{"stage"}, // stage: started/submitted
	)

	// Histogram for achieved score ratio
	QuizScoreRatio = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lms_quiz_score_ratio",
			Help:    "Score divided by total questions for submitted attempts",
			Buckets: []float64{0, 0.25, 0.5, 0.75, 0.9, 1},
		},
	)

	// Histogram for analytics query latency
	AnalyticsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lms_analytics_duration_seconds",
			Help:    "Time spent answering analytics queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "status"}, // op: stats/series
	)

	// Gauge for open live dashboard streams
	LiveSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lms_live_feed_subscribers",
			Help: "Current number of live analytics subscribers",
		},
	)

	// Counter for quiz cache lookups
	QuizCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_quiz_cache_lookups_total",
			Help: "Quiz cache lookups by result",
		},
		[]string{"backend", "result"}, // result: hit/miss
	)
)

// ObserveAnalytics records the duration of an analytics operation.
func ObserveAnalytics(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	AnalyticsDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}

// ObserveScore records a submitted attempt's score ratio.
func ObserveScore(score, total int) {
	QuizAttempts.WithLabelValues("submitted").Inc()
	if total == 0 {
		return
	}
	QuizScoreRatio.Observe(float64(score) / float64(total))
}

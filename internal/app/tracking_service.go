package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lms-service/internal/domain"
	"lms-service/internal/metrics"
)

// TrackingService appends page visits to the event log.
type TrackingService struct {
	events   EventStore
	notifier Notifier
	now      func() time.Time
}

func NewTrackingService(events EventStore, notifier Notifier) *TrackingService {
	return NewTrackingServiceWithClock(events, notifier, time.Now)
}

// NewTrackingServiceWithClock is test-only for deterministic timestamps.
func NewTrackingServiceWithClock(events EventStore, notifier Notifier, now func() time.Time) *TrackingService {
	return &TrackingService{events: events, notifier: notifier, now: now}
}

// RecordVisit stamps the visit with an id and the server time and stores it.
func (s *TrackingService) RecordVisit(ctx context.Context, v domain.PageVisit) (domain.PageVisit, error) {
	v.PageURL = strings.TrimSpace(v.PageURL)
	if v.PageURL == "" {
		return domain.PageVisit{}, fmt.Errorf("%w: pageUrl is required", domain.ErrInvalidInput)
	}
	v.ID = uuid.NewString()
	v.VisitedAt = s.now()

	if err := s.events.AppendVisit(ctx, v); err != nil {
		return domain.PageVisit{}, err
	}
	metrics.VisitsTracked.Inc()

	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, domain.AnalyticsEvent{Kind: domain.EventVisit, At: v.VisitedAt}); err != nil {
			logf("notify visit event: %v", err)
		}
	}
	return v, nil
}

package app

import (
	"context"
	"log"
	"sync"

	"lms-service/internal/domain"
	"lms-service/internal/metrics"
)

var logf = log.Printf

// LiveFeed fans analytics events out to in-process subscribers. It also
// satisfies Notifier for single-node deployments.
type LiveFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.AnalyticsEvent]struct{}
}

func NewLiveFeed() *LiveFeed {
	return &LiveFeed{subscribers: make(map[chan domain.AnalyticsEvent]struct{})}
}

// Publish broadcasts locally and never fails.
func (f *LiveFeed) Publish(_ context.Context, ev domain.AnalyticsEvent) error {
	f.Broadcast(ev)
	return nil
}

// Subscribe returns a channel of events. The caller must invoke the returned
// cancel function to avoid leaks.
func (f *LiveFeed) Subscribe() (<-chan domain.AnalyticsEvent, func()) {
	ch := make(chan domain.AnalyticsEvent, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()
	metrics.LiveSubscribers.Inc()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
			metrics.LiveSubscribers.Dec()
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast delivers ev to every subscriber. A full channel loses its oldest
// event so a slow reader never blocks publishers.
func (f *LiveFeed) Broadcast(ev domain.AnalyticsEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// Subscribers reports the number of open subscriptions.
func (f *LiveFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}

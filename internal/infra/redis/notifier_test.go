package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"lms-service/internal/domain"
)

type recordingSink struct {
	mu     sync.Mutex
	events []domain.AnalyticsEvent
}

func (s *recordingSink) Broadcast(ev domain.AnalyticsEvent) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestNotifierRelaysEvents(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	notifier := NewNotifier(client, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &recordingSink{}
	ready, done := notifier.Relay(ctx, sink)
	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("relay failed: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("relay not subscribed")
	}

	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	if err := notifier.Publish(ctx, domain.AnalyticsEvent{Kind: domain.EventVisit, At: at}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for sink.len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if sink.len() != 1 {
		t.Fatalf("expected one relayed event, got %d", sink.len())
	}
	sink.mu.Lock()
	got := sink.events[0]
	sink.mu.Unlock()
	if got.Kind != domain.EventVisit || !got.At.Equal(at) {
		t.Fatalf("unexpected event %+v", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("relay stopped with error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("relay did not stop")
	}
}

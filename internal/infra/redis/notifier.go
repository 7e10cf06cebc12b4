package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"

	"lms-service/internal/domain"
)

// DefaultChannel carries analytics events between service instances.
const DefaultChannel = "lms:analytics:events"

// Broadcaster receives events relayed from Redis.
type Broadcaster interface {
	Broadcast(ev domain.AnalyticsEvent)
}

// Notifier publishes analytics events on a Redis channel so every instance's
// live feed sees them.
type Notifier struct {
	client  *redis.Client
	channel string
}

func NewNotifier(client *redis.Client, channel string) *Notifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Notifier{client: client, channel: channel}
}

func (n *Notifier) Publish(ctx context.Context, ev domain.AnalyticsEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.channel, payload).Err()
}

// Relay forwards channel messages to sink until ctx is done. The returned
// channel is closed once the subscription is confirmed.
func (n *Notifier) Relay(ctx context.Context, sink Broadcaster) (<-chan struct{}, <-chan error) {
	ready := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		pubsub := n.client.Subscribe(ctx, n.channel)
		defer pubsub.Close()

		if _, err := pubsub.Receive(ctx); err != nil {
			done <- err
			return
		}
		close(ready)

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				done <- nil
				return
			case msg, ok := <-msgs:
				if !ok {
					done <- errors.New("redis subscription closed")
					return
				}
				var ev domain.AnalyticsEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("decode analytics event: %v", err)
					continue
				}
				sink.Broadcast(ev)
			}
		}
	}()
	return ready, done
}

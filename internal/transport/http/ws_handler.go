package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"lms-service/internal/app"
	"lms-service/internal/auth"
)

// WSHandler streams dashboard stats to admins, pushing a fresh snapshot after
// every tracked visit or started attempt.
type WSHandler struct {
	analytics *app.AnalyticsService
	feed      *app.LiveFeed
	auth      *auth.Service
	upgrader  websocket.Upgrader
}

func NewWSHandler(analytics *app.AnalyticsService, feed *app.LiveFeed, authSvc *auth.Service) *WSHandler {
	return &WSHandler{
		analytics: analytics,
		feed:      feed,
		auth:      authSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type filterPayload struct {
	Filter string `json:"filter"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ServeWS authenticates via the token query parameter, then sends a stats
// snapshot on connect and after each live event. Clients may switch the
// filter with {"type":"filter","payload":{"filter":"week"}}.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if _, err := h.auth.Parse(queryValue(r, "token")); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "bad token"})
		return
	}
	filter := queryValue(r, "filter")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	// Server read/write timeouts leave deadlines on the hijacked conn.
	_ = conn.NetConn().SetDeadline(time.Time{})

	events, cancel := h.feed.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	send := make(chan outboundMessage, 16)
	filters := make(chan string, 1)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		current := filter
		push := func() bool {
			msg := outboundMessage{Type: "stats"}
			stats, err := h.analytics.Stats(ctx, current)
			if err != nil {
				log.Printf("ws stats: %v", err)
				msg = outboundMessage{Type: "error", Payload: errorBody{Error: "failed to fetch analytics"}}
			} else {
				msg.Payload = stats
			}
			select {
			case send <- msg:
				return true
			case <-closeSignals:
				return false
			}
		}

		if !push() {
			return
		}
		for {
			select {
			case _, ok := <-events:
				if !ok {
					return
				}
				drain(events)
				if !push() {
					return
				}
			case f := <-filters:
				current = f
				if !push() {
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var reply *outboundMessage
		switch inbound.Type {
		case "filter":
			var payload filterPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				reply = &outboundMessage{Type: "error", Payload: errorBody{Error: "invalid filter payload"}}
				break
			}
			select {
			case <-filters:
			default:
			}
			filters <- payload.Filter
		default:
			reply = &outboundMessage{Type: "error", Payload: errorBody{Error: "unsupported message type"}}
		}
		if reply == nil {
			continue
		}
		select {
		case send <- *reply:
		case <-writerDone:
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// drain discards events that piled up while a snapshot was being built.
func drain[T any](ch <-chan T) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

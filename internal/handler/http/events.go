// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/models"
)

const subscriberBuffer = 16

// changeBroker fans ledger changes out to the open event streams. A slow
// stream loses events instead of blocking writers.
type changeBroker struct {
	mu          sync.Mutex
	subscribers map[chan models.ChangeEvent]struct{}
}

func newChangeBroker() *changeBroker {
	return &changeBroker{subscribers: make(map[chan models.ChangeEvent]struct{})}
}

func (b *changeBroker) subscribe() (<-chan models.ChangeEvent, func()) {
	ch := make(chan models.ChangeEvent, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subscribers, ch)
		b.mu.Unlock()
	}
}

// publish emits "<resource>:<action>" with the record id as payload.
func (b *changeBroker) publish(resource models.ResourceType, action string, id int64) {
	payload, _ := json.Marshal(map[string]int64{"id": id})
	ev := models.ChangeEvent{Type: string(resource) + ":" + action, Payload: payload}

	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *changeBroker) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// events streams ledger changes as server-sent events until the client goes
// away. A comment line is sent right away and then as a heartbeat.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	rc := http.NewResponseController(w)

	changes, unsubscribe := h.changes.subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		log.Err(err).Msg("event stream is not flushable")
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case ev := <-changes:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Payload); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package events is the in-process publish/subscribe bus the sync engine uses
// to tell the rest of the client that cached data went stale, that the
// backend came or went, or that a queued write needs attention.
package events

import (
	"sync"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
)

// Topic names an event stream.
type Topic string

const (
	// TopicDataChanged carries the models.ResourceType whose backend data
	// changed: after a drain synced items of it and on change-stream events.
	TopicDataChanged Topic = "data:changed"
	// TopicRefreshNeeded asks views to re-read after a local write.
	TopicRefreshNeeded Topic = "ui:refresh"
	// TopicConnectivityChanged carries a models.ConnectivityState.
	TopicConnectivityChanged Topic = "connectivity:changed"
	// TopicAuthInvalid is published when the backend rejected the token.
	TopicAuthInvalid Topic = "auth:invalid"
	// TopicSyncAbandoned is published for a queued write dropped after the
	// retry cap.
	TopicSyncAbandoned Topic = "sync:abandoned"
	// TopicSyncConflict is published for a queued write rejected with 409.
	TopicSyncConflict Topic = "sync:conflict"
)

// Event is delivered to handlers.
type Event struct {
	Topic   Topic
	Payload any
}

// Handler consumes events. Handlers run synchronously on the publishing
// goroutine and must not block.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus fans events out to subscribers. The zero value is not usable; use
// NewBus.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic][]subscription
	logger *logger.Logger
}

func NewBus(log *logger.Logger) *Bus {
	return &Bus{
		subs:   make(map[Topic][]subscription),
		logger: log.Component("events"),
	}
}

// Subscribe registers h for topic and returns a function removing it.
// Calling the returned function more than once is a no-op.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
}

// Publish delivers payload to every handler subscribed to topic, in
// subscription order. A panicking handler is logged and skipped.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	subs := b.subs[topic]
	b.mu.RUnlock()

	ev := Event{Topic: topic, Payload: payload}
	for _, s := range subs {
		b.deliver(s.handler, ev)
	}
}

func (b *Bus) deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("func", "Bus.Publish").
				Str("topic", string(ev.Topic)).
				Interface("panic", r).
				Msg("event handler panicked")
		}
	}()
	h(ev)
}

// Subscribers returns the number of handlers registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package events

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishDeliversInOrder(t *testing.T) {
	bus := NewBus(logger.Nop())

	var got []string
	bus.Subscribe(TopicDataChanged, func(ev Event) { got = append(got, "a:"+ev.Payload.(string)) })
	bus.Subscribe(TopicDataChanged, func(ev Event) { got = append(got, "b:"+ev.Payload.(string)) })
	bus.Subscribe(TopicRefreshNeeded, func(Event) { got = append(got, "other") })

	bus.Publish(TopicDataChanged, "x")

	assert.Equal(t, []string{"a:x", "b:x"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(logger.Nop())

	var calls atomic.Int32
	unsubscribe := bus.Subscribe(TopicAuthInvalid, func(Event) { calls.Add(1) })
	require.Equal(t, 1, bus.Subscribers(TopicAuthInvalid))

	bus.Publish(TopicAuthInvalid, nil)
	unsubscribe()
	unsubscribe()
	bus.Publish(TopicAuthInvalid, nil)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, bus.Subscribers(TopicAuthInvalid))
}

func TestBus_UnsubscribeKeepsOthers(t *testing.T) {
	bus := NewBus(logger.Nop())

	var a, b atomic.Int32
	unsubA := bus.Subscribe(TopicSyncConflict, func(Event) { a.Add(1) })
	bus.Subscribe(TopicSyncConflict, func(Event) { b.Add(1) })

	unsubA()
	bus.Publish(TopicSyncConflict, nil)

	assert.Equal(t, int32(0), a.Load())
	assert.Equal(t, int32(1), b.Load())
}

func TestBus_PanickingHandlerIsIsolated(t *testing.T) {
	bus := NewBus(logger.Nop())

	var delivered bool
	bus.Subscribe(TopicSyncAbandoned, func(Event) { panic("boom") })
	bus.Subscribe(TopicSyncAbandoned, func(Event) { delivered = true })

	assert.NotPanics(t, func() { bus.Publish(TopicSyncAbandoned, nil) })
	assert.True(t, delivered)
}

func TestBus_ConcurrentPublishSubscribe(t *testing.T) {
	bus := NewBus(logger.Nop())

	var total atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsub := bus.Subscribe(TopicDataChanged, func(Event) { total.Add(1) })
			defer unsub()
		}()
		go func() {
			defer wg.Done()
			bus.Publish(TopicDataChanged, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, bus.Subscribers(TopicDataChanged))
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-fin-keeper/internal/adapter"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/mock"
	"github.com/MKhiriev/go-fin-keeper/models"
)

// fakeStream delivers queued events and then blocks until cancelled.
type fakeStream struct {
	starts atomic.Int64
	active atomic.Int64
	events chan models.ChangeEvent
	err    error
}

func newFakeStream() *fakeStream {
	return &fakeStream{events: make(chan models.ChangeEvent, 8)}
}

func (s *fakeStream) Run(ctx context.Context, handle func(models.ChangeEvent)) error {
	s.starts.Add(1)
	s.active.Add(1)
	defer s.active.Add(-1)
	if s.err != nil {
		return s.err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.events:
			handle(ev)
		}
	}
}

func newTestListener(t *testing.T, stream ChangeStreamer, online bool) (*ChangeListener, *events.Bus) {
	t.Helper()
	ctrl := gomock.NewController(t)
	monitor := mock.NewMockConnectivityMonitor(ctrl)
	monitor.EXPECT().Online().Return(online).AnyTimes()

	bus := events.NewBus(logger.Nop())
	return NewChangeListener(stream, monitor, bus, logger.Nop()), bus
}

func runListener(t *testing.T, l *ChangeListener) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestChangeListener_EventsPublishDataChanged(t *testing.T) {
	stream := newFakeStream()
	l, bus := newTestListener(t, stream, true)
	rec := recordEvents(t, bus, events.TopicDataChanged)
	runListener(t, l)

	require.Eventually(t, func() bool { return stream.active.Load() == 1 }, time.Second, 5*time.Millisecond)
	stream.events <- models.ChangeEvent{Type: "transaction:created"}
	stream.events <- models.ChangeEvent{Type: "categories:deleted"}

	require.Eventually(t, func() bool { return rec.count(events.TopicDataChanged) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []any{models.ResourceTransaction, models.ResourceCategory}, rec.payloads(events.TopicDataChanged))
}

func TestChangeListener_FollowsConnectivity(t *testing.T) {
	stream := newFakeStream()
	l, bus := newTestListener(t, stream, false)
	runListener(t, l)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, stream.starts.Load(), "not opened while offline")

	bus.Publish(events.TopicConnectivityChanged, models.ConnectivityState{Reachable: true})
	require.Eventually(t, func() bool { return stream.active.Load() == 1 }, time.Second, 5*time.Millisecond)

	bus.Publish(events.TopicConnectivityChanged, models.ConnectivityState{Reachable: false})
	require.Eventually(t, func() bool { return stream.active.Load() == 0 }, time.Second, 5*time.Millisecond, "torn down when offline")

	bus.Publish(events.TopicConnectivityChanged, models.ConnectivityState{Reachable: true})
	require.Eventually(t, func() bool { return stream.starts.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestChangeListener_StopsOnCancel(t *testing.T) {
	stream := newFakeStream()
	l, _ := newTestListener(t, stream, true)
	cancel := runListener(t, l)

	require.Eventually(t, func() bool { return stream.active.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.Eventually(t, func() bool { return stream.active.Load() == 0 }, time.Second, 5*time.Millisecond)
}

func TestChangeListener_UnauthorizedPublishesAuthInvalid(t *testing.T) {
	stream := newFakeStream()
	stream.err = adapter.ErrUnauthorized
	l, bus := newTestListener(t, stream, true)
	rec := recordEvents(t, bus, events.TopicAuthInvalid)
	runListener(t, l)

	require.Eventually(t, func() bool { return rec.count(events.TopicAuthInvalid) == 1 }, time.Second, 5*time.Millisecond)

	// a later flip reopens the stream
	stream.err = nil
	bus.Publish(events.TopicConnectivityChanged, models.ConnectivityState{Reachable: true})
	require.Eventually(t, func() bool { return stream.active.Load() == 1 }, time.Second, 5*time.Millisecond)
}

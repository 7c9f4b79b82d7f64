// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-fin-keeper/internal/adapter"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/models"
)

// ChangeStreamer is satisfied by adapter.ChangeStream.
type ChangeStreamer interface {
	Run(ctx context.Context, handle func(models.ChangeEvent)) error
}

// ChangeListener keeps the backend change stream open while the backend is
// reachable and turns every event into events.TopicDataChanged.
type ChangeListener struct {
	stream  ChangeStreamer
	monitor ConnectivityMonitor
	bus     *events.Bus

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

func NewChangeListener(stream ChangeStreamer, monitor ConnectivityMonitor, bus *events.Bus, log *logger.Logger) *ChangeListener {
	return &ChangeListener{
		stream:  stream,
		monitor: monitor,
		bus:     bus,
		logger:  log.Component("change_listener"),
	}
}

// Run follows connectivity changes until ctx is cancelled: the stream is
// torn down as soon as the backend goes offline and reopened when it comes
// back.
func (l *ChangeListener) Run(ctx context.Context) {
	var (
		mu     sync.Mutex
		latest bool
	)
	changed := make(chan struct{}, 1)
	unsubscribe := l.bus.Subscribe(events.TopicConnectivityChanged, func(ev events.Event) {
		state, ok := ev.Payload.(models.ConnectivityState)
		if !ok {
			return
		}
		// only the latest state matters
		mu.Lock()
		latest = state.Reachable
		mu.Unlock()
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	if l.monitor.Online() {
		l.start(ctx)
	}
	defer l.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			mu.Lock()
			online := latest
			mu.Unlock()
			if online {
				l.start(ctx)
			} else {
				l.stop()
			}
		}
	}
}

func (l *ChangeListener) start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}

	streamCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.wg.Add(1)

	go func() {
		defer l.wg.Done()
		err := l.stream.Run(streamCtx, l.handle)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
		case errors.Is(err, adapter.ErrUnauthorized):
			l.logger.Warn().Str("func", "ChangeListener.start").Msg("change stream rejected credentials")
			l.bus.Publish(events.TopicAuthInvalid, err)
		default:
			l.logger.Err(err).Str("func", "ChangeListener.start").Msg("change stream stopped")
		}

		// allow a later flip to reopen the stream
		l.mu.Lock()
		if streamCtx.Err() == nil {
			l.cancel = nil
		}
		l.mu.Unlock()
		cancel()
	}()
}

func (l *ChangeListener) stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
}

func (l *ChangeListener) handle(ev models.ChangeEvent) {
	l.logger.Debug().Str("func", "ChangeListener.handle").Str("type", ev.Type).Msg("backend change received")
	l.bus.Publish(events.TopicDataChanged, ev.Resource())
}

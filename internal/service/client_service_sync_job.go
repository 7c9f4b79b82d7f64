// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/models"
)

type clientSyncJob struct {
	processor SyncQueueProcessor
	bus       *events.Bus

	trigger chan struct{}

	mu          sync.Mutex
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup

	logger *logger.Logger
}

// NewClientSyncJob creates a clientSyncJob that drains the queue on a ticker,
// on Trigger and whenever the backend becomes reachable. The job is idle
// until Start is called.
func NewClientSyncJob(processor SyncQueueProcessor, bus *events.Bus, log *logger.Logger) ClientSyncJob {
	return &clientSyncJob{
		processor: processor,
		bus:       bus,
		trigger:   make(chan struct{}, 1),
		logger:    log.Component("sync_job"),
	}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that drains once right away and then on
// every tick or trigger. The goroutine exits when ctx is cancelled or Stop
// is called.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.unsubscribe = j.bus.Subscribe(events.TopicConnectivityChanged, func(ev events.Event) {
		if state, ok := ev.Payload.(models.ConnectivityState); ok && state.Reachable {
			j.Trigger()
		}
	})
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		j.drain(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
			case <-j.trigger:
			}
			j.drain(jobCtx)
		}
	}()
}

func (j *clientSyncJob) drain(ctx context.Context) {
	report, err := j.processor.Drain(ctx)
	switch {
	case err == nil:
		if report.Attempted > 0 {
			j.logger.Info().
				Str("func", "clientSyncJob.drain").
				Int("synced", report.Synced).
				Int("rescheduled", report.Rescheduled).
				Int("abandoned", report.Abandoned).
				Int("conflicts", report.Conflicts).
				Msg("sync queue drained")
		}
	case errors.Is(err, ErrDrainInProgress), errors.Is(err, context.Canceled):
	default:
		j.logger.Err(err).Str("func", "clientSyncJob.drain").Msg("sync queue drain failed")
	}
}

// Trigger implements ClientSyncJob. Triggers coalesce while a drain is
// pending.
func (j *clientSyncJob) Trigger() {
	select {
	case j.trigger <- struct{}{}:
	default:
	}
}

// Stop implements ClientSyncJob. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call when
// the job is not running.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	unsubscribe := j.unsubscribe
	j.cancel = nil
	j.unsubscribe = nil
	j.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

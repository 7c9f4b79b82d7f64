// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/adapter"
	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/store"
	"github.com/MKhiriev/go-fin-keeper/models"
)

// AbandonedWrite is the payload of events.TopicSyncAbandoned.
type AbandonedWrite struct {
	Item models.SyncQueueItem
	Err  error
}

// ConflictedWrite is the payload of events.TopicSyncConflict.
type ConflictedWrite struct {
	Item   models.SyncQueueItem
	Detail models.ConflictDetail
}

type syncQueueProcessor struct {
	adapter adapter.BackendAdapter
	queue   store.SyncQueueRepository
	monitor ConnectivityMonitor
	bus     *events.Bus
	states  map[models.ResourceType]collectionState

	maxRetries int
	maxBackoff time.Duration

	draining atomic.Bool
	now      func() time.Time

	logger *logger.Logger
}

// NewSyncQueueProcessor builds a processor. states maps each resource type
// to the local records it reconciles; items of other types are replayed
// without reconciliation.
func NewSyncQueueProcessor(
	backend adapter.BackendAdapter,
	queue store.SyncQueueRepository,
	monitor ConnectivityMonitor,
	bus *events.Bus,
	states map[models.ResourceType]collectionState,
	cfg config.ClientSync,
	log *logger.Logger,
) SyncQueueProcessor {
	return newSyncQueueProcessor(backend, queue, monitor, bus, states, cfg, log)
}

func newSyncQueueProcessor(
	backend adapter.BackendAdapter,
	queue store.SyncQueueRepository,
	monitor ConnectivityMonitor,
	bus *events.Bus,
	states map[models.ResourceType]collectionState,
	cfg config.ClientSync,
	log *logger.Logger,
) *syncQueueProcessor {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = config.DefaultMaxRetries
	}
	return &syncQueueProcessor{
		adapter:    backend,
		queue:      queue,
		monitor:    monitor,
		bus:        bus,
		states:     states,
		maxRetries: maxRetries,
		maxBackoff: cfg.MaxBackoff,
		now:        time.Now,
		logger:     log.Component("sync"),
	}
}

func (p *syncQueueProcessor) Drain(ctx context.Context) (models.DrainReport, error) {
	if !p.draining.CompareAndSwap(false, true) {
		return models.DrainReport{Skipped: true}, ErrDrainInProgress
	}
	defer p.draining.Store(false)

	report := models.DrainReport{SyncedByType: map[models.ResourceType]int{}}
	if !p.monitor.Online() {
		report.Skipped = true
		return report, nil
	}

	items, err := p.queue.ListDue(ctx, p.now())
	if err != nil {
		p.logger.Err(err).Str("func", "syncQueueProcessor.Drain").Msg("failed to list due items")
		return report, fmt.Errorf("list due queue items: %w", err)
	}

	defer p.publishChanges(report.SyncedByType)

	for _, item := range items {
		if err = ctx.Err(); err != nil {
			return report, err
		}
		report.Attempted++

		resp, sendErr := p.adapter.Send(ctx, item.Request())
		if sendErr == nil || (item.Method == models.MethodDelete && errors.Is(sendErr, adapter.ErrNotFound)) {
			if err = p.complete(ctx, item, resp); err != nil {
				return report, err
			}
			report.Synced++
			report.SyncedByType[item.Type]++
			continue
		}

		var conflict *adapter.ConflictError
		switch {
		case ctx.Err() != nil:
			return report, ctx.Err()

		case errors.Is(sendErr, adapter.ErrUnauthorized):
			p.logger.Warn().Str("func", "syncQueueProcessor.Drain").Int64("item", item.ID).Msg("backend rejected credentials, aborting drain")
			p.bus.Publish(events.TopicAuthInvalid, sendErr)
			return report, sendErr

		case errors.As(sendErr, &conflict):
			p.logger.Warn().Err(sendErr).Str("func", "syncQueueProcessor.Drain").Int64("item", item.ID).Msg("queued write conflicts with backend state, dropping")
			if err = p.drop(ctx, item); err != nil {
				return report, err
			}
			report.Conflicts++
			p.bus.Publish(events.TopicSyncConflict, ConflictedWrite{Item: item, Detail: conflict.Detail})

		default:
			abandoned, err := p.fail(ctx, item, sendErr)
			if err != nil {
				return report, err
			}
			if abandoned {
				report.Abandoned++
			} else {
				report.Rescheduled++
			}
		}
	}

	p.logger.Debug().
		Str("func", "syncQueueProcessor.Drain").
		Int("attempted", report.Attempted).
		Int("synced", report.Synced).
		Int("rescheduled", report.Rescheduled).
		Int("abandoned", report.Abandoned).
		Int("conflicts", report.Conflicts).
		Msg("drain pass finished")

	return report, nil
}

// complete dequeues a replayed item and reconciles the local records.
func (p *syncQueueProcessor) complete(ctx context.Context, item models.SyncQueueItem, resp json.RawMessage) error {
	if err := p.queue.Dequeue(ctx, item.ID); err != nil && !errors.Is(err, store.ErrQueueItemNotFound) {
		p.logger.Err(err).Str("func", "syncQueueProcessor.complete").Int64("item", item.ID).Msg("failed to dequeue synced item")
		return fmt.Errorf("dequeue synced item %d: %w", item.ID, err)
	}

	state, ok := p.states[item.Type]
	if !ok {
		return nil
	}
	if err := state.confirm(ctx, item, resp); err != nil {
		// the item is already on the backend; a stale overlay entry is
		// dropped by the next merge
		p.logger.Err(err).Str("func", "syncQueueProcessor.complete").Int64("item", item.ID).Msg("failed to reconcile local records")
	}
	return nil
}

// drop removes an item that will never sync together with its local state.
func (p *syncQueueProcessor) drop(ctx context.Context, item models.SyncQueueItem) error {
	if err := p.queue.Dequeue(ctx, item.ID); err != nil && !errors.Is(err, store.ErrQueueItemNotFound) {
		return fmt.Errorf("dequeue item %d: %w", item.ID, err)
	}
	if state, ok := p.states[item.Type]; ok {
		if err := state.discard(ctx, item); err != nil {
			p.logger.Err(err).Str("func", "syncQueueProcessor.drop").Int64("item", item.ID).Msg("failed to discard local records")
		}
	}
	return nil
}

// fail reschedules item or abandons it once the retry cap is exceeded.
func (p *syncQueueProcessor) fail(ctx context.Context, item models.SyncQueueItem, sendErr error) (abandoned bool, err error) {
	retries := item.Retries + 1
	if retries > p.maxRetries {
		p.logger.Err(fmt.Errorf("%w: %w", ErrRetriesExhausted, sendErr)).
			Str("func", "syncQueueProcessor.fail").
			Int64("item", item.ID).
			Str("method", string(item.Method)).
			Str("endpoint", item.Endpoint).
			Int("retries", item.Retries).
			Msg("abandoning queued write")
		if err = p.drop(ctx, item); err != nil {
			return false, err
		}
		p.bus.Publish(events.TopicSyncAbandoned, AbandonedWrite{Item: item, Err: fmt.Errorf("%w: %w", ErrRetriesExhausted, sendErr)})
		return true, nil
	}

	next := p.now().Add(retryBackoff(retries, p.maxBackoff))
	if err = p.queue.Reschedule(ctx, item.ID, retries, next, sendErr.Error()); err != nil {
		p.logger.Err(err).Str("func", "syncQueueProcessor.fail").Int64("item", item.ID).Msg("failed to reschedule item")
		return false, fmt.Errorf("reschedule item %d: %w", item.ID, err)
	}
	p.logger.Debug().
		Err(sendErr).
		Str("func", "syncQueueProcessor.fail").
		Int64("item", item.ID).
		Int("retries", retries).
		Time("next_attempt_at", next).
		Msg("queued write rescheduled")
	return false, nil
}

// publishChanges tells listeners which collections changed on the backend.
func (p *syncQueueProcessor) publishChanges(synced map[models.ResourceType]int) {
	for _, resource := range []models.ResourceType{
		models.ResourceTransaction,
		models.ResourceCategory,
		models.ResourceSource,
		models.ResourceTarget,
	} {
		if synced[resource] > 0 {
			p.bus.Publish(events.TopicDataChanged, resource)
		}
	}
}

// retryBackoff returns 2^retries minutes capped at maxBackoff. A
// non-positive cap means uncapped up to the largest representable duration.
func retryBackoff(retries int, maxBackoff time.Duration) time.Duration {
	limit := maxBackoff
	if limit <= 0 {
		limit = math.MaxInt64
	}
	if retries < 0 {
		retries = 0
	}
	// 2^28 minutes no longer fits into a time.Duration
	if retries >= 28 {
		return limit
	}
	d := time.Duration(1<<uint(retries)) * time.Minute
	if d <= 0 || d > limit {
		return limit
	}
	return d
}

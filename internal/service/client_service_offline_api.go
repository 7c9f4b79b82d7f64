// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/adapter"
	"github.com/MKhiriev/go-fin-keeper/internal/cache"
	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/store"
	"github.com/MKhiriev/go-fin-keeper/internal/utils"
	"github.com/MKhiriev/go-fin-keeper/internal/validators"
	"github.com/MKhiriev/go-fin-keeper/models"
)

const (
	dashboardEndpoint = "/dashboard"
	reportsEndpoint   = "/reports/"
)

// WriteOption tunes a single facade write.
type WriteOption func(*writeOptions)

type writeOptions struct {
	noQueue bool
}

// WithoutQueueOnFailure makes an online write that fails with a transient
// error return that error instead of queueing the write. Writes made while
// the backend is already known to be unreachable are queued regardless.
func WithoutQueueOnFailure() WriteOption {
	return func(o *writeOptions) { o.noQueue = true }
}

// OfflineAPI is the entry point of the client for domain data. Writes go to
// the backend when it is reachable and to the sync queue otherwise. List
// reads go through the merge engine, keyed reads through the ephemeral
// cache, then the persistent response cache, then the network.
type OfflineAPI struct {
	Transactions *Collection[models.Transaction, *models.Transaction]
	Categories   *Collection[models.Category, *models.Category]
	Sources      *Collection[models.Source, *models.Source]
	Targets      *Collection[models.Target, *models.Target]

	core        *facadeCore
	unsubscribe func()
}

// facadeCore is shared by every collection of one OfflineAPI.
type facadeCore struct {
	adapter   adapter.BackendAdapter
	monitor   ConnectivityMonitor
	queue     store.SyncQueueRepository
	responses store.ResponseCacheRepository
	cache     *cache.Cache
	bus       *events.Bus
	validator validators.Validator

	idempotencyKeys *utils.UUIDGenerator
	tempIDs         *utils.TempIDGenerator
	now             func() time.Time

	logger *logger.Logger
}

// NewOfflineAPI wires the facade. The returned value subscribes to
// events.TopicDataChanged until Close is called.
func NewOfflineAPI(
	backend adapter.BackendAdapter,
	monitor ConnectivityMonitor,
	storages *store.ClientStorages,
	memCache *cache.Cache,
	bus *events.Bus,
	cfg config.ClientSync,
	log *logger.Logger,
) *OfflineAPI {
	log = log.Component("offline_api")
	core := &facadeCore{
		adapter:         backend,
		monitor:         monitor,
		queue:           storages.SyncQueue,
		responses:       storages.ResponseCache,
		cache:           memCache,
		bus:             bus,
		validator:       validators.NewRecordValidator(),
		idempotencyKeys: utils.NewUUIDGenerator(),
		tempIDs:         utils.NewTempIDGenerator(),
		now:             time.Now,
		logger:          log,
	}

	snapshotSize := cfg.SnapshotSize
	if snapshotSize <= 0 {
		snapshotSize = config.DefaultSnapshotSize
	}
	userID := tokenUserID(backend)

	api := &OfflineAPI{
		Transactions: newCollection[models.Transaction](core, models.ResourceTransaction, storages, userID, snapshotSize, true, cfg),
		Categories:   newCollection[models.Category](core, models.ResourceCategory, storages, userID, snapshotSize, false, cfg),
		Sources:      newCollection[models.Source](core, models.ResourceSource, storages, userID, snapshotSize, false, cfg),
		Targets:      newCollection[models.Target](core, models.ResourceTarget, storages, userID, snapshotSize, false, cfg),
		core:         core,
	}
	api.unsubscribe = bus.Subscribe(events.TopicDataChanged, api.onDataChanged)

	return api
}

// tokenUserID scopes the offline blobs to the user in the current token.
// Without a parsable token everything lands under user 0.
func tokenUserID(backend adapter.BackendAdapter) func() int64 {
	return func() int64 {
		id, err := utils.ParseUserIDFromJWT(backend.Token())
		if err != nil {
			return 0
		}
		return id
	}
}

// collectionStates returns the reconciliation hooks of every collection,
// keyed by resource type, for the queue processor.
func (a *OfflineAPI) collectionStates() map[models.ResourceType]collectionState {
	return map[models.ResourceType]collectionState{
		models.ResourceTransaction: a.Transactions.records,
		models.ResourceCategory:    a.Categories.records,
		models.ResourceSource:      a.Sources.records,
		models.ResourceTarget:      a.Targets.records,
	}
}

// Dashboard returns the dashboard aggregate.
func (a *OfflineAPI) Dashboard(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.core.keyedRead(ctx, dashboardEndpoint, params)
}

// Report returns the named report, e.g. "monthly".
func (a *OfflineAPI) Report(ctx context.Context, name string, params url.Values) (json.RawMessage, error) {
	return a.core.keyedRead(ctx, reportsEndpoint+url.PathEscape(name), params)
}

// PendingWrites lists the sync queue in replay order.
func (a *OfflineAPI) PendingWrites(ctx context.Context) ([]models.SyncQueueItem, error) {
	items, err := a.core.queue.ListQueue(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending writes: %w", err)
	}
	return items, nil
}

// Online reports the current backend reachability.
func (a *OfflineAPI) Online() bool {
	return a.core.monitor.Online()
}

// Subscribe registers h for topic on the client event bus.
func (a *OfflineAPI) Subscribe(topic events.Topic, h events.Handler) (unsubscribe func()) {
	return a.core.bus.Subscribe(topic, h)
}

// Close detaches the facade from the event bus.
func (a *OfflineAPI) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a *OfflineAPI) onDataChanged(ev events.Event) {
	resource, _ := ev.Payload.(models.ResourceType)

	prefixes := []string{dashboardEndpoint, reportsEndpoint}
	if collection := resource.Collection(); collection != "" {
		prefixes = append(prefixes, "/"+collection)
	}
	a.core.invalidate(context.Background(), prefixes...)
	a.core.bus.Publish(events.TopicRefreshNeeded, resource)
}

func cacheKey(endpoint string, params url.Values) string {
	return endpoint + "?" + params.Encode()
}

// keyedRead serves endpoint from the ephemeral cache, the persistent
// response cache or the network, in that order. Network results fill both
// caches.
func (c *facadeCore) keyedRead(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	key := cacheKey(endpoint, params)

	if data, ok := cache.GetAs[json.RawMessage](c.cache, key); ok {
		return data, nil
	}

	data, err := c.responses.GetCachedResponse(ctx, key)
	switch {
	case err == nil:
		c.cache.Set(key, data)
		return data, nil
	case !errors.Is(err, store.ErrCacheMiss):
		c.logger.Err(err).Str("func", "facadeCore.keyedRead").Str("key", key).Msg("response cache read failed")
	}

	if !c.monitor.Online() {
		return nil, fmt.Errorf("%w: %s", ErrUnavailableOffline, endpoint)
	}

	data, err = c.adapter.Get(ctx, endpoint, params)
	if err != nil {
		switch {
		case errors.Is(err, adapter.ErrUnauthorized):
			c.bus.Publish(events.TopicAuthInvalid, err)
		case adapter.IsNetwork(err):
			c.monitor.ReportFailure()
			return nil, fmt.Errorf("%w: %w", ErrUnavailableOffline, err)
		case adapter.IsTransient(err):
			return nil, fmt.Errorf("%w: %w", ErrUnavailableOffline, err)
		}
		return nil, err
	}

	c.cache.Set(key, data)
	if err = c.responses.CacheResponse(ctx, key, data); err != nil {
		c.logger.Err(err).Str("func", "facadeCore.keyedRead").Str("key", key).Msg("failed to persist response")
	}
	return data, nil
}

// invalidate drops every cached response whose key starts with one of
// prefixes.
func (c *facadeCore) invalidate(ctx context.Context, prefixes ...string) {
	for _, prefix := range prefixes {
		c.cache.DeletePrefix(prefix)
		if _, err := c.responses.DeleteCachedPrefix(ctx, prefix); err != nil {
			c.logger.Err(err).Str("func", "facadeCore.invalidate").Str("prefix", prefix).Msg("failed to invalidate response cache")
		}
	}
}

// afterWrite runs after the backend confirmed a write: aggregates and the
// record itself are no longer current.
func (c *facadeCore) afterWrite(ctx context.Context, resource models.ResourceType, recordEndpoint string) {
	prefixes := []string{dashboardEndpoint, reportsEndpoint}
	if recordEndpoint != "" {
		prefixes = append(prefixes, recordEndpoint+"?")
	}
	c.invalidate(ctx, prefixes...)
	c.bus.Publish(events.TopicRefreshNeeded, resource)
}

// validate rejects records the backend would refuse, so they never reach
// the sync queue.
func (c *facadeCore) validate(ctx context.Context, rec any) error {
	if err := c.validator.Validate(ctx, rec); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

// queueable decides whether a failed online write falls back to the queue.
func (c *facadeCore) queueable(err error, opts []WriteOption) bool {
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}

	if errors.Is(err, adapter.ErrUnauthorized) {
		c.bus.Publish(events.TopicAuthInvalid, err)
		return false
	}
	if o.noQueue || !adapter.IsTransient(err) {
		return false
	}
	if adapter.IsNetwork(err) {
		c.monitor.ReportFailure()
	}
	c.logger.Warn().Err(err).Str("func", "facadeCore.queueable").Msg("online write failed, queueing")
	return true
}

func (c *facadeCore) enqueue(ctx context.Context, resource models.ResourceType, req models.WriteRequest, localRef string) (int64, error) {
	now := c.now()
	id, err := c.queue.Enqueue(ctx, models.SyncQueueItem{
		Type:           resource,
		Method:         req.Method,
		Endpoint:       req.Endpoint,
		Payload:        req.Payload,
		LocalRef:       localRef,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      now,
		NextAttemptAt:  now,
	})
	if err != nil {
		c.logger.Err(err).Str("func", "facadeCore.enqueue").Str("endpoint", req.Endpoint).Msg("failed to queue write")
		return 0, fmt.Errorf("queue %s %s: %w", req.Method, req.Endpoint, err)
	}
	return id, nil
}

// dropPending removes queued writes of method targeting endpoint.
func (c *facadeCore) dropPending(ctx context.Context, endpoint string, method models.HTTPMethod) error {
	items, err := c.queue.ListQueue(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.Endpoint != endpoint || item.Method != method {
			continue
		}
		if err = c.queue.Dequeue(ctx, item.ID); err != nil && !errors.Is(err, store.ErrQueueItemNotFound) {
			return err
		}
	}
	return nil
}

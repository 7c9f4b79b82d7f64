// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-fin-keeper/internal/adapter"
	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/store"
	"github.com/MKhiriev/go-fin-keeper/models"
)

// Collection is the facade of one domain collection.
type Collection[T any, PT models.RecordPtr[T]] struct {
	core    *facadeCore
	records *recordStore[T, PT]
	merger  *mergeEngine[T, PT]
}

func newCollection[T any, PT models.RecordPtr[T]](
	core *facadeCore,
	resource models.ResourceType,
	storages *store.ClientStorages,
	userID func() int64,
	snapshotSize int,
	descending bool,
	cfg config.ClientSync,
) *Collection[T, PT] {
	log := &logger.Logger{Logger: core.logger.With().Str("collection", resource.Collection()).Logger()}
	records := newRecordStore[T, PT](resource, storages.Blobs, storages.SyncQueue, userID, snapshotSize, descending, log)
	return &Collection[T, PT]{
		core:    core,
		records: records,
		merger:  newMergeEngine(core.adapter, core.monitor, records, core.bus, cfg, records.logger),
	}
}

// payloadOf encodes rec without identity and provenance fields.
func payloadOf[T any, PT models.RecordPtr[T]](rec T) (json.RawMessage, error) {
	*PT(&rec).Meta() = models.RecordMeta{}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// List returns the merged view narrowed by filter. A nil filter lists
// everything.
func (c *Collection[T, PT]) List(ctx context.Context, filter models.Filter[T]) ([]T, error) {
	if filter == nil {
		filter = models.NoFilter[T]{}
	}
	return c.merger.GetAll(ctx, filter)
}

// Get returns one record. A pending offline edit wins over the backend copy
// and a pending offline delete hides the record.
func (c *Collection[T, PT]) Get(ctx context.Context, ref models.RecordRef) (T, error) {
	var zero T

	if ref.ID == 0 {
		if ref.TempID == "" {
			return zero, ErrInvalidRecordRef
		}
		rec, ok, err := c.records.findLocal(ctx, tempKey(ref.TempID))
		if err != nil {
			return zero, err
		}
		if !ok || PT(&rec).Meta().Deleted {
			return zero, ErrRecordNotFound
		}
		PT(&rec).Meta().DataSource = models.DataSourceLocal
		return rec, nil
	}

	rec, ok, err := c.records.findLocal(ctx, idKey(ref.ID))
	if err != nil {
		return zero, err
	}
	if ok {
		meta := PT(&rec).Meta()
		if meta.Deleted {
			return zero, ErrRecordNotFound
		}
		if meta.IsOffline {
			meta.DataSource = models.DataSourceLocal
			return rec, nil
		}
	}

	raw, err := c.core.keyedRead(ctx, c.records.recordEndpoint(ref.ID), nil)
	if err == nil {
		var remote T
		if err = json.Unmarshal(raw, &remote); err != nil {
			return zero, fmt.Errorf("decode %s %d: %w", c.records.resource, ref.ID, err)
		}
		PT(&remote).Meta().DataSource = models.DataSourceOnline
		return remote, nil
	}
	switch {
	case errors.Is(err, adapter.ErrNotFound):
		return zero, fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	case errors.Is(err, adapter.ErrUnauthorized):
		return zero, err
	}

	snapshot, snapErr := c.records.loadSnapshot(ctx)
	if snapErr != nil {
		return zero, errors.Join(err, snapErr)
	}
	for _, rec := range snapshot {
		if PT(&rec).Meta().ID == ref.ID {
			PT(&rec).Meta().DataSource = models.DataSourceSnapshot
			return rec, nil
		}
	}
	return zero, err
}

// Create sends rec to the backend or, when that is not possible, stores it
// locally under a fresh temp id and queues the POST.
func (c *Collection[T, PT]) Create(ctx context.Context, rec T, opts ...WriteOption) (models.WriteResult[T], error) {
	if err := c.core.validate(ctx, rec); err != nil {
		return models.WriteResult[T]{}, err
	}

	payload, err := payloadOf[T, PT](rec)
	if err != nil {
		return models.WriteResult[T]{}, err
	}
	req := models.WriteRequest{
		Method:         models.MethodPost,
		Endpoint:       c.records.collectionEndpoint(),
		Payload:        payload,
		IdempotencyKey: c.core.idempotencyKeys.Generate(),
	}

	if c.core.monitor.Online() {
		resp, err := c.core.adapter.Send(ctx, req)
		if err == nil {
			return models.WriteResult[T]{Record: c.confirmed(ctx, resp, rec, 0), Status: models.WriteConfirmed}, nil
		}
		if !c.core.queueable(err, opts) {
			return models.WriteResult[T]{}, err
		}
	}

	tempID := c.core.tempIDs.Generate()
	*PT(&rec).Meta() = models.RecordMeta{TempID: tempID, IsOffline: true, DataSource: models.DataSourceLocal}
	if err = c.records.putLocal(ctx, rec); err != nil {
		return models.WriteResult[T]{}, fmt.Errorf("store offline record: %w", err)
	}

	queueID, err := c.core.enqueue(ctx, c.records.resource, req, tempID)
	if err != nil {
		if _, rmErr := c.records.removeLocal(ctx, tempKey(tempID)); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return models.WriteResult[T]{}, err
	}

	c.core.bus.Publish(events.TopicRefreshNeeded, c.records.resource)
	return models.WriteResult[T]{Record: rec, Status: models.WriteQueued, QueueID: queueID}, nil
}

// Update replaces the record addressed by ref. Records that only exist
// offline have their pending POST rewritten instead.
func (c *Collection[T, PT]) Update(ctx context.Context, ref models.RecordRef, rec T, opts ...WriteOption) (models.WriteResult[T], error) {
	if err := c.core.validate(ctx, rec); err != nil {
		return models.WriteResult[T]{}, err
	}

	if ref.ID == 0 {
		if ref.TempID == "" {
			return models.WriteResult[T]{}, ErrInvalidRecordRef
		}
		return c.updateTemp(ctx, ref.TempID, rec)
	}

	payload, err := payloadOf[T, PT](rec)
	if err != nil {
		return models.WriteResult[T]{}, err
	}
	endpoint := c.records.recordEndpoint(ref.ID)
	req := models.WriteRequest{
		Method:         models.MethodPut,
		Endpoint:       endpoint,
		Payload:        payload,
		IdempotencyKey: c.core.idempotencyKeys.Generate(),
	}

	if c.core.monitor.Online() {
		resp, err := c.core.adapter.Send(ctx, req)
		if err == nil {
			c.dropOverlayIfIdle(ctx, ref.ID)
			return models.WriteResult[T]{Record: c.confirmed(ctx, resp, rec, ref.ID), Status: models.WriteConfirmed}, nil
		}
		if !c.core.queueable(err, opts) {
			return models.WriteResult[T]{}, err
		}
	}

	prev, existed, err := c.records.findLocal(ctx, idKey(ref.ID))
	if err != nil {
		return models.WriteResult[T]{}, fmt.Errorf("load offline edit: %w", err)
	}
	*PT(&rec).Meta() = models.RecordMeta{ID: ref.ID, IsOffline: true, DataSource: models.DataSourceLocal}
	if err = c.records.putLocal(ctx, rec); err != nil {
		return models.WriteResult[T]{}, fmt.Errorf("store offline edit: %w", err)
	}
	queueID, err := c.core.enqueue(ctx, c.records.resource, req, "")
	if err != nil {
		if rbErr := c.records.restoreLocal(ctx, idKey(ref.ID), prev, existed); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return models.WriteResult[T]{}, err
	}

	c.core.bus.Publish(events.TopicRefreshNeeded, c.records.resource)
	return models.WriteResult[T]{Record: rec, Status: models.WriteQueued, QueueID: queueID}, nil
}

func (c *Collection[T, PT]) updateTemp(ctx context.Context, tempID string, rec T) (models.WriteResult[T], error) {
	items, err := c.core.queue.FindByLocalRef(ctx, tempID)
	if err != nil {
		return models.WriteResult[T]{}, fmt.Errorf("find pending create: %w", err)
	}
	var post *models.SyncQueueItem
	for i := range items {
		if items[i].Method == models.MethodPost {
			post = &items[i]
			break
		}
	}
	if post == nil {
		return models.WriteResult[T]{}, ErrRecordNotFound
	}

	payload, err := payloadOf[T, PT](rec)
	if err != nil {
		return models.WriteResult[T]{}, err
	}
	if err = c.core.queue.UpdatePayload(ctx, post.ID, payload); err != nil {
		if errors.Is(err, store.ErrQueueItemNotFound) {
			// the create has just been replayed
			return models.WriteResult[T]{}, ErrRecordNotFound
		}
		return models.WriteResult[T]{}, fmt.Errorf("rewrite pending create: %w", err)
	}

	*PT(&rec).Meta() = models.RecordMeta{TempID: tempID, IsOffline: true, DataSource: models.DataSourceLocal}
	if err = c.records.putLocal(ctx, rec); err != nil {
		return models.WriteResult[T]{}, fmt.Errorf("store offline record: %w", err)
	}

	c.core.bus.Publish(events.TopicRefreshNeeded, c.records.resource)
	return models.WriteResult[T]{Record: rec, Status: models.WriteQueued, QueueID: post.ID}, nil
}

// Delete removes the record addressed by ref. Offline, the record is hidden
// by a local tombstone until the DELETE replays and any pending edit of it
// is dropped. A record that only exists offline is forgotten at once.
func (c *Collection[T, PT]) Delete(ctx context.Context, ref models.RecordRef, opts ...WriteOption) (models.WriteResult[T], error) {
	if ref.ID == 0 {
		if ref.TempID == "" {
			return models.WriteResult[T]{}, ErrInvalidRecordRef
		}
		return c.deleteTemp(ctx, ref.TempID)
	}

	endpoint := c.records.recordEndpoint(ref.ID)
	req := models.WriteRequest{
		Method:         models.MethodDelete,
		Endpoint:       endpoint,
		IdempotencyKey: c.core.idempotencyKeys.Generate(),
	}

	var tombstone T
	*PT(&tombstone).Meta() = models.RecordMeta{ID: ref.ID, Deleted: true}

	if c.core.monitor.Online() {
		_, err := c.core.adapter.Send(ctx, req)
		if err == nil {
			if err = c.core.dropPending(ctx, endpoint, models.MethodPut); err != nil {
				c.records.logger.Err(err).Str("func", "Collection.Delete").Msg("failed to drop pending edits")
			}
			if _, err = c.records.removeLocal(ctx, idKey(ref.ID)); err != nil {
				c.records.logger.Err(err).Str("func", "Collection.Delete").Msg("failed to drop local edit")
			}
			if err = c.records.removeSnapshot(ctx, idKey(ref.ID)); err != nil {
				c.records.logger.Err(err).Str("func", "Collection.Delete").Msg("failed to update snapshot")
			}
			c.core.afterWrite(ctx, c.records.resource, endpoint)
			return models.WriteResult[T]{Record: tombstone, Status: models.WriteConfirmed}, nil
		}
		if !c.core.queueable(err, opts) {
			return models.WriteResult[T]{}, err
		}
	}

	prev, existed, err := c.records.findLocal(ctx, idKey(ref.ID))
	if err != nil {
		return models.WriteResult[T]{}, fmt.Errorf("load offline edit: %w", err)
	}
	PT(&tombstone).Meta().IsOffline = true
	PT(&tombstone).Meta().DataSource = models.DataSourceLocal
	if err = c.records.putLocal(ctx, tombstone); err != nil {
		return models.WriteResult[T]{}, fmt.Errorf("store tombstone: %w", err)
	}
	queueID, err := c.core.enqueue(ctx, c.records.resource, req, "")
	if err != nil {
		if rbErr := c.records.restoreLocal(ctx, idKey(ref.ID), prev, existed); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return models.WriteResult[T]{}, err
	}

	// pending edits are dropped only once the DELETE is queued; a failed
	// drop leaves them to replay ahead of it
	if err = c.core.dropPending(ctx, endpoint, models.MethodPut); err != nil {
		c.records.logger.Err(err).Str("func", "Collection.Delete").Msg("failed to drop pending edits")
	}

	c.core.bus.Publish(events.TopicRefreshNeeded, c.records.resource)
	return models.WriteResult[T]{Record: tombstone, Status: models.WriteQueued, QueueID: queueID}, nil
}

func (c *Collection[T, PT]) deleteTemp(ctx context.Context, tempID string) (models.WriteResult[T], error) {
	dropped, err := c.core.queue.DeleteByLocalRef(ctx, tempID)
	if err != nil {
		return models.WriteResult[T]{}, fmt.Errorf("drop pending create: %w", err)
	}
	removed, err := c.records.removeLocal(ctx, tempKey(tempID))
	if err != nil {
		return models.WriteResult[T]{}, fmt.Errorf("remove offline record: %w", err)
	}
	if dropped == 0 && !removed {
		return models.WriteResult[T]{}, ErrRecordNotFound
	}

	var gone T
	*PT(&gone).Meta() = models.RecordMeta{TempID: tempID, Deleted: true}

	c.core.bus.Publish(events.TopicRefreshNeeded, c.records.resource)
	return models.WriteResult[T]{Record: gone, Status: models.WriteConfirmed}, nil
}

// confirmed turns a backend write response into the returned record and
// refreshes the snapshot and the caches.
func (c *Collection[T, PT]) confirmed(ctx context.Context, resp json.RawMessage, sent T, id int64) T {
	rec, ok := c.records.decodeRecord(resp, nil)
	if !ok {
		rec = sent
		*PT(&rec).Meta() = models.RecordMeta{}
	}
	meta := PT(&rec).Meta()
	if meta.ID == 0 {
		meta.ID = id
	}
	meta.TempID = ""
	meta.IsOffline = false
	meta.DataSource = models.DataSourceOnline

	if err := c.records.upsertSnapshot(ctx, rec); err != nil {
		c.records.logger.Err(err).Str("func", "Collection.confirmed").Msg("failed to update snapshot")
	}

	endpoint := ""
	if meta.ID != 0 {
		endpoint = c.records.recordEndpoint(meta.ID)
	}
	c.core.afterWrite(ctx, c.records.resource, endpoint)
	return rec
}

// dropOverlayIfIdle forgets a local edit superseded by an online update,
// unless an older queued write still owns it.
func (c *Collection[T, PT]) dropOverlayIfIdle(ctx context.Context, id int64) {
	pending, err := c.records.pendingFor(ctx, c.records.recordEndpoint(id), 0)
	if err != nil || pending {
		return
	}
	if _, err = c.records.removeLocal(ctx, idKey(id)); err != nil {
		c.records.logger.Err(err).Str("func", "Collection.dropOverlayIfIdle").Msg("failed to drop local edit")
	}
}

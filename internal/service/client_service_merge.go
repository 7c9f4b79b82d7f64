// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/go-fin-keeper/internal/adapter"
	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/models"
)

// mergeEngine builds the list view of one collection from the backend, the
// snapshot and the local overlay.
//
// Every returned record is tagged with its provenance. A local copy replaces
// the backend copy only for genuine offline edits, offline deletes hide the
// record and offline creates the backend already holds (same fingerprint)
// are purged together with their pending POST.
type mergeEngine[T any, PT models.RecordPtr[T]] struct {
	resource models.ResourceType
	adapter  adapter.BackendAdapter
	monitor  ConnectivityMonitor
	records  *recordStore[T, PT]
	bus      *events.Bus

	pageSize int
	maxPages int

	// group shares one in-flight fetch between callers asking for the same
	// parameters.
	group singleflight.Group

	logger *logger.Logger
}

func newMergeEngine[T any, PT models.RecordPtr[T]](
	backend adapter.BackendAdapter,
	monitor ConnectivityMonitor,
	records *recordStore[T, PT],
	bus *events.Bus,
	cfg config.ClientSync,
	log *logger.Logger,
) *mergeEngine[T, PT] {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = config.DefaultMaxPages
	}
	return &mergeEngine[T, PT]{
		resource: records.resource,
		adapter:  backend,
		monitor:  monitor,
		records:  records,
		bus:      bus,
		pageSize: pageSize,
		maxPages: maxPages,
		logger:   log,
	}
}

// GetAll returns the deduplicated, sorted view of the collection narrowed by
// filter. Backend failures other than 401 fall back to the snapshot.
func (e *mergeEngine[T, PT]) GetAll(ctx context.Context, filter models.Filter[T]) ([]T, error) {
	params := filter.Params()

	local, err := e.records.loadLocal(ctx)
	if err != nil {
		e.logger.Err(err).Str("func", "mergeEngine.GetAll").Msg("failed to load local records")
		return nil, fmt.Errorf("load local %s: %w", e.resource.Collection(), err)
	}

	if e.monitor.Online() {
		remote, err := e.fetch(ctx, params)
		switch {
		case err == nil:
			if len(params) == 0 {
				if err = e.records.saveSnapshot(ctx, remote); err != nil {
					e.logger.Err(err).Str("func", "mergeEngine.GetAll").Msg("failed to refresh snapshot")
				}
			}
			return e.merge(ctx, remote, models.DataSourceOnline, local, filter), nil

		case ctx.Err() != nil:
			return nil, ctx.Err()

		case errors.Is(err, adapter.ErrUnauthorized):
			e.bus.Publish(events.TopicAuthInvalid, err)
			return nil, err
		}

		e.logger.Warn().Err(err).Str("func", "mergeEngine.GetAll").Str("collection", e.resource.Collection()).Msg("fetch failed, serving snapshot")
	}

	snapshot, err := e.records.loadSnapshot(ctx)
	if err != nil {
		e.logger.Err(err).Str("func", "mergeEngine.GetAll").Msg("failed to load snapshot")
		return nil, fmt.Errorf("load %s snapshot: %w", e.resource.Collection(), err)
	}
	snapshot = slices.DeleteFunc(snapshot, func(r T) bool { return !filter.Match(r) })

	return e.merge(ctx, snapshot, models.DataSourceSnapshot, local, filter), nil
}

// fetch pages through the collection. Concurrent calls with equal params
// share one request sequence; each caller gets its own copy of the result.
func (e *mergeEngine[T, PT]) fetch(ctx context.Context, params url.Values) ([]T, error) {
	key := e.resource.Collection() + "?" + params.Encode()

	ch := e.group.DoChan(key, func() (any, error) {
		// a caller giving up must not fail the others sharing this fetch
		return e.fetchPages(context.WithoutCancel(ctx), params)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]T)), nil
	}
}

func (e *mergeEngine[T, PT]) fetchPages(ctx context.Context, params url.Values) ([]T, error) {
	var all []T
	for page := 0; page < e.maxPages; page++ {
		env, err := e.adapter.ListPage(ctx, e.resource.Collection(), params, e.pageSize, page*e.pageSize)
		if err != nil {
			return nil, err
		}
		items, err := models.DecodeItems[T](env.Items)
		if err != nil {
			return nil, fmt.Errorf("decode %s page %d: %w", e.resource.Collection(), page, err)
		}
		all = append(all, items...)
		if len(items) < e.pageSize {
			return all, nil
		}
	}

	e.logger.Warn().
		Str("func", "mergeEngine.fetchPages").
		Str("collection", e.resource.Collection()).
		Int("pages", e.maxPages).
		Msg("page ceiling reached, list may be incomplete")
	return all, nil
}

func (e *mergeEngine[T, PT]) merge(ctx context.Context, base []T, source models.DataSource, local []T, filter models.Filter[T]) []T {
	merged := make(map[string]T, len(base)+len(local))
	fingerprints := make(map[string]struct{}, len(base))

	for _, rec := range base {
		meta := PT(&rec).Meta()
		meta.DataSource = source
		meta.IsOffline = false
		merged[meta.Key()] = rec
		fingerprints[PT(&rec).Fingerprint()] = struct{}{}
	}

	for _, rec := range local {
		meta := PT(&rec).Meta()
		key := meta.Key()

		switch {
		case meta.Deleted:
			delete(merged, key)

		case meta.IsNew():
			if _, dup := fingerprints[PT(&rec).Fingerprint()]; dup {
				e.logger.Info().
					Str("func", "mergeEngine.merge").
					Str("temp_id", meta.TempID).
					Msg("offline record already on backend, purging local copy")
				if err := e.records.purgeTemp(ctx, meta.TempID); err != nil {
					e.logger.Err(err).Str("func", "mergeEngine.merge").Str("temp_id", meta.TempID).Msg("failed to purge duplicate")
				}
				continue
			}
			if filter.Match(rec) {
				meta.DataSource = models.DataSourceLocal
				merged[key] = rec
			}

		case meta.IsOffline:
			if filter.Match(rec) {
				meta.DataSource = models.DataSourceLocal
				merged[key] = rec
			} else {
				delete(merged, key)
			}
		}
	}

	out := make([]T, 0, len(merged))
	for _, rec := range merged {
		out = append(out, rec)
	}
	sortRecords[T, PT](out, e.records.descending)
	return out
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"strconv"
	"sync"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/store"
	"github.com/MKhiriev/go-fin-keeper/models"
)

// collectionState is the per-resource reconciliation hook the queue
// processor calls after replaying an item.
type collectionState interface {
	// confirm applies a successful replay: the optimistic local copy is
	// replaced by the confirmed record.
	confirm(ctx context.Context, item models.SyncQueueItem, resp json.RawMessage) error

	// discard forgets the local state of an item that will never sync.
	discard(ctx context.Context, item models.SyncQueueItem) error
}

// recordStore keeps the two offline blobs of one collection: the local
// overlay (offline creates, edits and tombstones) and the snapshot of
// confirmed records used for cold starts.
type recordStore[T any, PT models.RecordPtr[T]] struct {
	resource models.ResourceType
	blobs    store.BlobRepository
	queue    store.SyncQueueRepository
	userID   func() int64

	snapshotSize int
	// descending orders the snapshot (and merged lists) newest first.
	descending bool

	// mu serializes read-modify-write cycles on the blobs.
	mu sync.Mutex

	logger *logger.Logger
}

func newRecordStore[T any, PT models.RecordPtr[T]](
	resource models.ResourceType,
	blobs store.BlobRepository,
	queue store.SyncQueueRepository,
	userID func() int64,
	snapshotSize int,
	descending bool,
	log *logger.Logger,
) *recordStore[T, PT] {
	return &recordStore[T, PT]{
		resource:     resource,
		blobs:        blobs,
		queue:        queue,
		userID:       userID,
		snapshotSize: snapshotSize,
		descending:   descending,
		logger:       log,
	}
}

func (s *recordStore[T, PT]) collectionEndpoint() string {
	return "/" + s.resource.Collection()
}

func (s *recordStore[T, PT]) recordEndpoint(id int64) string {
	return s.collectionEndpoint() + "/" + strconv.FormatInt(id, 10)
}

// endpointID extracts the record id from "/transactions/42".
func endpointID(endpoint string) (int64, bool) {
	id, err := strconv.ParseInt(path.Base(endpoint), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func idKey(id int64) string {
	return models.RecordMeta{ID: id}.Key()
}

func tempKey(tempID string) string {
	return models.RecordMeta{TempID: tempID}.Key()
}

func keyOf[T any, PT models.RecordPtr[T]](rec *T) string {
	return PT(rec).Meta().Key()
}

func (s *recordStore[T, PT]) readBlob(ctx context.Context, key string) ([]T, error) {
	data, err := s.blobs.GetBlob(ctx, key)
	if errors.Is(err, store.ErrBlobNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var recs []T
	if err = json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode %s blob: %w", key, err)
	}
	return recs, nil
}

func (s *recordStore[T, PT]) writeBlob(ctx context.Context, key string, recs []T) error {
	if recs == nil {
		recs = []T{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode %s blob: %w", key, err)
	}
	return s.blobs.PutBlob(ctx, key, data)
}

func (s *recordStore[T, PT]) localKey() string {
	return store.LocalBlobKey(s.resource, s.userID())
}

func (s *recordStore[T, PT]) snapshotKey() string {
	return store.SnapshotBlobKey(s.resource, s.userID())
}

// loadLocal returns the local overlay: offline creates, edits and
// tombstones.
func (s *recordStore[T, PT]) loadLocal(ctx context.Context) ([]T, error) {
	return s.readBlob(ctx, s.localKey())
}

func (s *recordStore[T, PT]) findLocal(ctx context.Context, key string) (T, bool, error) {
	var zero T
	recs, err := s.loadLocal(ctx)
	if err != nil {
		return zero, false, err
	}
	for i := range recs {
		if keyOf[T, PT](&recs[i]) == key {
			return recs[i], true, nil
		}
	}
	return zero, false, nil
}

// putLocal inserts rec into the overlay or replaces the entry with the same
// key.
func (s *recordStore[T, PT]) putLocal(ctx context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadLocal(ctx)
	if err != nil {
		return err
	}
	recs = upsertByKey[T, PT](recs, rec)
	return s.writeBlob(ctx, s.localKey(), recs)
}

// removeLocal deletes the overlay entry stored under key and reports whether
// it existed.
func (s *recordStore[T, PT]) removeLocal(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadLocal(ctx)
	if err != nil {
		return false, err
	}
	n := len(recs)
	recs = slices.DeleteFunc(recs, func(r T) bool { return keyOf[T, PT](&r) == key })
	if len(recs) == n {
		return false, nil
	}
	return true, s.writeBlob(ctx, s.localKey(), recs)
}

// restoreLocal puts back the overlay entry a failed offline write replaced.
func (s *recordStore[T, PT]) restoreLocal(ctx context.Context, key string, prev T, existed bool) error {
	if existed {
		return s.putLocal(ctx, prev)
	}
	_, err := s.removeLocal(ctx, key)
	return err
}

// purgeTemp drops an offline create together with its pending POST. It is
// used when the backend already holds the same record.
func (s *recordStore[T, PT]) purgeTemp(ctx context.Context, tempID string) error {
	if _, err := s.removeLocal(ctx, tempKey(tempID)); err != nil {
		return err
	}
	if _, err := s.queue.DeleteByLocalRef(ctx, tempID); err != nil {
		return err
	}
	return nil
}

func (s *recordStore[T, PT]) loadSnapshot(ctx context.Context) ([]T, error) {
	return s.readBlob(ctx, s.snapshotKey())
}

// saveSnapshot keeps the snapshotSize most relevant confirmed records.
func (s *recordStore[T, PT]) saveSnapshot(ctx context.Context, recs []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSnapshot(ctx, recs)
}

func (s *recordStore[T, PT]) writeSnapshot(ctx context.Context, recs []T) error {
	confirmed := make([]T, 0, len(recs))
	for _, rec := range recs {
		meta := PT(&rec).Meta()
		if meta.ID == 0 {
			continue
		}
		*meta = models.RecordMeta{ID: meta.ID}
		confirmed = append(confirmed, rec)
	}
	sortRecords[T, PT](confirmed, s.descending)
	if s.snapshotSize > 0 && len(confirmed) > s.snapshotSize {
		confirmed = confirmed[:s.snapshotSize]
	}
	return s.writeBlob(ctx, s.snapshotKey(), confirmed)
}

func (s *recordStore[T, PT]) upsertSnapshot(ctx context.Context, rec T) error {
	if PT(&rec).Meta().ID == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	return s.writeSnapshot(ctx, upsertByKey[T, PT](recs, rec))
}

func (s *recordStore[T, PT]) removeSnapshot(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	n := len(recs)
	recs = slices.DeleteFunc(recs, func(r T) bool { return keyOf[T, PT](&r) == key })
	if len(recs) == n {
		return nil
	}
	return s.writeBlob(ctx, s.snapshotKey(), recs)
}

// decodeRecord decodes a backend response body, falling back to the queued
// payload when the backend answered with an empty body.
func (s *recordStore[T, PT]) decodeRecord(resp, fallback json.RawMessage) (T, bool) {
	var rec T
	for _, raw := range []json.RawMessage{resp, fallback} {
		if len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, &rec); err == nil {
			return rec, true
		}
	}
	return rec, false
}

func (s *recordStore[T, PT]) confirm(ctx context.Context, item models.SyncQueueItem, resp json.RawMessage) error {
	switch item.Method {
	case models.MethodPost:
		if item.LocalRef != "" {
			if _, err := s.removeLocal(ctx, tempKey(item.LocalRef)); err != nil {
				return err
			}
		}
		if rec, ok := s.decodeRecord(resp, nil); ok {
			return s.upsertSnapshot(ctx, rec)
		}
		return nil

	case models.MethodPut:
		id, ok := endpointID(item.Endpoint)
		if !ok {
			return nil
		}
		pending, err := s.pendingFor(ctx, item.Endpoint, item.ID)
		if err != nil {
			return err
		}
		// a later edit of the same record is still queued and owns the
		// overlay entry
		if !pending {
			if _, err = s.removeLocal(ctx, idKey(id)); err != nil {
				return err
			}
		}
		rec, ok := s.decodeRecord(resp, item.Payload)
		if !ok {
			return nil
		}
		PT(&rec).Meta().ID = id
		return s.upsertSnapshot(ctx, rec)

	case models.MethodDelete:
		id, ok := endpointID(item.Endpoint)
		if !ok {
			return nil
		}
		if _, err := s.removeLocal(ctx, idKey(id)); err != nil {
			return err
		}
		return s.removeSnapshot(ctx, idKey(id))
	}
	return nil
}

func (s *recordStore[T, PT]) discard(ctx context.Context, item models.SyncQueueItem) error {
	switch item.Method {
	case models.MethodPost:
		if item.LocalRef == "" {
			return nil
		}
		_, err := s.removeLocal(ctx, tempKey(item.LocalRef))
		return err

	case models.MethodPut, models.MethodDelete:
		id, ok := endpointID(item.Endpoint)
		if !ok {
			return nil
		}
		pending, err := s.pendingFor(ctx, item.Endpoint, item.ID)
		if err != nil || pending {
			return err
		}
		_, err = s.removeLocal(ctx, idKey(id))
		return err
	}
	return nil
}

// pendingFor reports whether queued items other than exclude target
// endpoint.
func (s *recordStore[T, PT]) pendingFor(ctx context.Context, endpoint string, exclude int64) (bool, error) {
	items, err := s.queue.ListQueue(ctx)
	if err != nil {
		return false, err
	}
	for _, other := range items {
		if other.ID != exclude && other.Endpoint == endpoint {
			return true, nil
		}
	}
	return false, nil
}

func upsertByKey[T any, PT models.RecordPtr[T]](recs []T, rec T) []T {
	key := keyOf[T, PT](&rec)
	for i := range recs {
		if keyOf[T, PT](&recs[i]) == key {
			recs[i] = rec
			return recs
		}
	}
	return append(recs, rec)
}

// sortRecords orders by SortKey and breaks ties by merge key so the result
// is deterministic.
func sortRecords[T any, PT models.RecordPtr[T]](recs []T, descending bool) {
	slices.SortStableFunc(recs, func(a, b T) int {
		c := cmp.Compare(PT(&a).SortKey(), PT(&b).SortKey())
		if descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(PT(&a).Meta().Key(), PT(&b).Meta().Key())
	})
}

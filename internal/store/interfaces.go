// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-fin-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ResponseCacheRepository persists backend responses keyed by endpoint and
// parameters. Rows older than the configured TTL read as a miss.
type ResponseCacheRepository interface {
	CacheResponse(ctx context.Context, key string, data json.RawMessage) error
	// GetCachedResponse returns ErrCacheMiss for absent or stale keys.
	GetCachedResponse(ctx context.Context, key string) (json.RawMessage, error)
	DeleteCachedPrefix(ctx context.Context, prefix string) (int64, error)
	// DeleteStale removes every row past the TTL.
	DeleteStale(ctx context.Context) (int64, error)
}

// SyncQueueRepository is the durable FIFO of pending writes.
type SyncQueueRepository interface {
	Enqueue(ctx context.Context, item models.SyncQueueItem) (int64, error)
	Dequeue(ctx context.Context, id int64) error
	// ListQueue returns every item in insertion order.
	ListQueue(ctx context.Context) ([]models.SyncQueueItem, error)
	// ListDue returns items with NextAttemptAt <= now in insertion order.
	ListDue(ctx context.Context, now time.Time) ([]models.SyncQueueItem, error)
	Reschedule(ctx context.Context, id int64, retries int, nextAttemptAt time.Time, lastError string) error
	UpdatePayload(ctx context.Context, id int64, payload json.RawMessage) error
	FindByLocalRef(ctx context.Context, localRef string) ([]models.SyncQueueItem, error)
	DeleteByLocalRef(ctx context.Context, localRef string) (int64, error)
	Count(ctx context.Context) (int, error)
}

// BlobRepository stores whole JSON documents under semantic keys (see
// LocalBlobKey and SnapshotBlobKey).
type BlobRepository interface {
	// GetBlob returns ErrBlobNotFound for absent keys.
	GetBlob(ctx context.Context, key string) (json.RawMessage, error)
	PutBlob(ctx context.Context, key string, data json.RawMessage) error
	DeleteBlob(ctx context.Context, key string) error
}

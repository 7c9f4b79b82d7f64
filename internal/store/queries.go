// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-fin-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

const (
	tableAPICache     = "api_cache"
	tableSyncQueue    = "sync_queue"
	tableOfflineBlobs = "offline_blobs"
)

var syncQueueColumns = []string{
	"id",
	"type",
	"method",
	"endpoint",
	"payload",
	"local_ref",
	"idempotency_key",
	"created_at",
	"retries",
	"next_attempt_at",
	"last_error",
}

// sqlite uses "?" placeholders, which is squirrel's default format.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildUpsertCacheQuery(key string, data json.RawMessage, cachedAt time.Time) (string, []any, error) {
	return builder.Insert(tableAPICache).
		Columns("key", "data", "cached_at").
		Values(key, string(data), cachedAt.UnixMilli()).
		Suffix("ON CONFLICT(key) DO UPDATE SET data = excluded.data, cached_at = excluded.cached_at").
		ToSql()
}

func buildGetCacheQuery(key string) (string, []any, error) {
	return builder.Select("data", "cached_at").
		From(tableAPICache).
		Where(sq.Eq{"key": key}).
		ToSql()
}

func buildDeleteCachePrefixQuery(prefix string) (string, []any, error) {
	return builder.Delete(tableAPICache).
		Where(sq.Expr("substr(key, 1, ?) = ?", len(prefix), prefix)).
		ToSql()
}

func buildDeleteStaleCacheQuery(before time.Time) (string, []any, error) {
	return builder.Delete(tableAPICache).
		Where(sq.Lt{"cached_at": before.UnixMilli()}).
		ToSql()
}

func buildEnqueueQuery(item models.SyncQueueItem) (string, []any, error) {
	return builder.Insert(tableSyncQueue).
		Columns(syncQueueColumns[1:]...).
		Values(
			string(item.Type),
			string(item.Method),
			item.Endpoint,
			nullablePayload(item.Payload),
			item.LocalRef,
			item.IdempotencyKey,
			item.CreatedAt.UnixMilli(),
			item.Retries,
			item.NextAttemptAt.UnixMilli(),
			item.LastError,
		).
		ToSql()
}

func buildSelectQueueQuery(where sq.Sqlizer) (string, []any, error) {
	q := builder.Select(syncQueueColumns...).From(tableSyncQueue)
	if where != nil {
		q = q.Where(where)
	}
	return q.OrderBy("id ASC").ToSql()
}

func buildRescheduleQuery(id int64, retries int, next time.Time, lastError string) (string, []any, error) {
	return builder.Update(tableSyncQueue).
		Set("retries", retries).
		Set("next_attempt_at", next.UnixMilli()).
		Set("last_error", lastError).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildUpdatePayloadQuery(id int64, payload json.RawMessage) (string, []any, error) {
	return builder.Update(tableSyncQueue).
		Set("payload", nullablePayload(payload)).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildDeleteQueueQuery(where sq.Sqlizer) (string, []any, error) {
	return builder.Delete(tableSyncQueue).Where(where).ToSql()
}

func buildCountQueueQuery() (string, []any, error) {
	return builder.Select("COUNT(*)").From(tableSyncQueue).ToSql()
}

func buildGetBlobQuery(key string) (string, []any, error) {
	return builder.Select("data").From(tableOfflineBlobs).Where(sq.Eq{"key": key}).ToSql()
}

func buildPutBlobQuery(key string, data json.RawMessage, updatedAt time.Time) (string, []any, error) {
	return builder.Insert(tableOfflineBlobs).
		Columns("key", "data", "updated_at").
		Values(key, string(data), updatedAt.UnixMilli()).
		Suffix("ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at").
		ToSql()
}

func buildDeleteBlobQuery(key string) (string, []any, error) {
	return builder.Delete(tableOfflineBlobs).Where(sq.Eq{"key": key}).ToSql()
}

func nullablePayload(payload json.RawMessage) sql.NullString {
	if len(payload) == 0 || string(payload) == "null" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(payload), Valid: true}
}

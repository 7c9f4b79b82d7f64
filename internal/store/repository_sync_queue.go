// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

// syncQueueRepository is the SQLite-backed [SyncQueueRepository]. Times are
// stored as unix milliseconds so that next_attempt_at compares numerically.
type syncQueueRepository struct {
	*DB
	logger *logger.Logger
}

func NewSyncQueueRepository(db *DB, logger *logger.Logger) SyncQueueRepository {
	return &syncQueueRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *syncQueueRepository) Enqueue(ctx context.Context, item models.SyncQueueItem) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildEnqueueQuery(item)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.Enqueue").
			Str("method", string(item.Method)).
			Str("endpoint", item.Endpoint).
			Msg("failed to insert sync queue item")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Debug().
		Str("func", "syncQueueRepository.Enqueue").
		Int64("id", id).
		Str("method", string(item.Method)).
		Str("endpoint", item.Endpoint).
		Msg("write queued")

	return id, nil
}

func (s *syncQueueRepository) Dequeue(ctx context.Context, id int64) error {
	query, args, err := buildDeleteQueueQuery(sq.Eq{"id": id})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	n, err := s.exec(ctx, "syncQueueRepository.Dequeue", query, args)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrQueueItemNotFound
	}
	return nil
}

func (s *syncQueueRepository) ListQueue(ctx context.Context) ([]models.SyncQueueItem, error) {
	return s.list(ctx, "syncQueueRepository.ListQueue", nil)
}

func (s *syncQueueRepository) ListDue(ctx context.Context, now time.Time) ([]models.SyncQueueItem, error) {
	return s.list(ctx, "syncQueueRepository.ListDue", sq.LtOrEq{"next_attempt_at": now.UnixMilli()})
}

func (s *syncQueueRepository) FindByLocalRef(ctx context.Context, localRef string) ([]models.SyncQueueItem, error) {
	return s.list(ctx, "syncQueueRepository.FindByLocalRef", sq.Eq{"local_ref": localRef})
}

func (s *syncQueueRepository) Reschedule(ctx context.Context, id int64, retries int, nextAttemptAt time.Time, lastError string) error {
	query, args, err := buildRescheduleQuery(id, retries, nextAttemptAt, lastError)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	n, err := s.exec(ctx, "syncQueueRepository.Reschedule", query, args)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrQueueItemNotFound
	}
	return nil
}

func (s *syncQueueRepository) UpdatePayload(ctx context.Context, id int64, payload json.RawMessage) error {
	query, args, err := buildUpdatePayloadQuery(id, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	n, err := s.exec(ctx, "syncQueueRepository.UpdatePayload", query, args)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrQueueItemNotFound
	}
	return nil
}

func (s *syncQueueRepository) DeleteByLocalRef(ctx context.Context, localRef string) (int64, error) {
	if localRef == "" {
		return 0, nil
	}

	query, args, err := buildDeleteQueueQuery(sq.Eq{"local_ref": localRef})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return s.exec(ctx, "syncQueueRepository.DeleteByLocalRef", query, args)
}

func (s *syncQueueRepository) Count(ctx context.Context) (int, error) {
	query, args, err := buildCountQueueQuery()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var n int
	if err = s.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncQueueRepository.Count").
			Msg("failed to count sync queue items")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return n, nil
}

func (s *syncQueueRepository) list(ctx context.Context, fn string, where sq.Sqlizer) ([]models.SyncQueueItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectQueueQuery(where)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to query sync queue")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.SyncQueueItem, 0)
	for rows.Next() {
		item, scanErr := scanQueueItem(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", fn).Msg("failed to scan sync queue row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", fn).Msg("error iterating sync queue rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}

func (s *syncQueueRepository) exec(ctx context.Context, fn, query string, args []any) (int64, error) {
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", fn).Msg("failed to execute statement")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return n, nil
}

func scanQueueItem(rows *sql.Rows) (models.SyncQueueItem, error) {
	var (
		item                models.SyncQueueItem
		itemType, method    string
		payload             sql.NullString
		createdAt, nextAtMs int64
	)

	err := rows.Scan(
		&item.ID,
		&itemType,
		&method,
		&item.Endpoint,
		&payload,
		&item.LocalRef,
		&item.IdempotencyKey,
		&createdAt,
		&item.Retries,
		&nextAtMs,
		&item.LastError,
	)
	if err != nil {
		return models.SyncQueueItem{}, err
	}

	item.Type = models.ResourceType(itemType)
	item.Method = models.HTTPMethod(method)
	if payload.Valid {
		item.Payload = json.RawMessage(payload.String)
	}
	item.CreatedAt = time.UnixMilli(createdAt)
	item.NextAttemptAt = time.UnixMilli(nextAtMs)

	return item, nil
}

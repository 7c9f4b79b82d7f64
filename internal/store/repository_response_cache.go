// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
)

type responseCacheRepository struct {
	*DB
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewResponseCacheRepository returns a repository whose entries are valid
// for ttl after they were written.
func NewResponseCacheRepository(db *DB, ttl time.Duration, logger *logger.Logger) ResponseCacheRepository {
	return &responseCacheRepository{
		DB:     db,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

func (r *responseCacheRepository) CacheResponse(ctx context.Context, key string, data json.RawMessage) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertCacheQuery(key, data, r.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "responseCacheRepository.CacheResponse").
			Str("key", key).
			Msg("failed to upsert cached response")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *responseCacheRepository) GetCachedResponse(ctx context.Context, key string) (json.RawMessage, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetCacheQuery(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		data     string
		cachedAt int64
	)
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&data, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		log.Err(err).
			Str("func", "responseCacheRepository.GetCachedResponse").
			Str("key", key).
			Msg("failed to read cached response")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if r.ttl > 0 && r.now().Sub(time.UnixMilli(cachedAt)) > r.ttl {
		log.Debug().
			Str("func", "responseCacheRepository.GetCachedResponse").
			Str("key", key).
			Msg("cached response is stale")
		return nil, ErrCacheMiss
	}

	return json.RawMessage(data), nil
}

func (r *responseCacheRepository) DeleteCachedPrefix(ctx context.Context, prefix string) (int64, error) {
	query, args, err := buildDeleteCachePrefixQuery(prefix)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.execAffected(ctx, "responseCacheRepository.DeleteCachedPrefix", query, args)
}

func (r *responseCacheRepository) DeleteStale(ctx context.Context) (int64, error) {
	if r.ttl <= 0 {
		return 0, nil
	}

	query, args, err := buildDeleteStaleCacheQuery(r.now().Add(-r.ttl))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.execAffected(ctx, "responseCacheRepository.DeleteStale", query, args)
}

func (r *responseCacheRepository) execAffected(ctx context.Context, fn, query string, args []any) (int64, error) {
	res, err := r.DB.ExecContext(ctx, query, args...)
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

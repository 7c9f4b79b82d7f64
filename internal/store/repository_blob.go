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

type blobRepository struct {
	*DB
	logger *logger.Logger
}

func NewBlobRepository(db *DB, logger *logger.Logger) BlobRepository {
	return &blobRepository{
		DB:     db,
		logger: logger,
	}
}

func (b *blobRepository) GetBlob(ctx context.Context, key string) (json.RawMessage, error) {
	query, args, err := buildGetBlobQuery(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var data string
	err = b.DB.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "blobRepository.GetBlob").
			Str("key", key).
			Msg("failed to read offline blob")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return json.RawMessage(data), nil
}

func (b *blobRepository) PutBlob(ctx context.Context, key string, data json.RawMessage) error {
	query, args, err := buildPutBlobQuery(key, data, time.Now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = b.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "blobRepository.PutBlob").
			Str("key", key).
			Msg("failed to write offline blob")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (b *blobRepository) DeleteBlob(ctx context.Context, key string) error {
	query, args, err := buildDeleteBlobQuery(key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = b.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "blobRepository.DeleteBlob").
			Str("key", key).
			Msg("failed to delete offline blob")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

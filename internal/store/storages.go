// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
)

// ClientStorages groups the client repositories so that the service layer
// receives them as one value. All repositories share one SQLite connection.
type ClientStorages struct {
	ResponseCache ResponseCacheRepository
	SyncQueue     SyncQueueRepository
	Blobs         BlobRepository

	db *DB
}

// NewClientStorages opens the SQLite file named in cfg.DB.DSN, applies
// pending migrations and wires the repositories. cacheTTL bounds the age of
// readable api_cache rows.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, cacheTTL time.Duration, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newClientStorages(db, cacheTTL, logger), nil
}

func newClientStorages(db *DB, cacheTTL time.Duration, logger *logger.Logger) *ClientStorages {
	return &ClientStorages{
		ResponseCache: NewResponseCacheRepository(db, cacheTTL, logger),
		SyncQueue:     NewSyncQueueRepository(db, logger),
		Blobs:         NewBlobRepository(db, logger),
		db:            db,
	}
}

// Close releases the database connection.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

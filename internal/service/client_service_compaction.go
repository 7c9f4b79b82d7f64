// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/cache"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/store"
)

// CompactionJob periodically deletes stale persisted responses and expired
// ephemeral cache entries.
type CompactionJob struct {
	responses store.ResponseCacheRepository
	cache     *cache.Cache
	interval  time.Duration
	logger    *logger.Logger
}

func NewCompactionJob(responses store.ResponseCacheRepository, memCache *cache.Cache, interval time.Duration, log *logger.Logger) *CompactionJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CompactionJob{
		responses: responses,
		cache:     memCache,
		interval:  interval,
		logger:    log.Component("compaction"),
	}
}

// Run compacts once right away and then every interval until ctx is
// cancelled.
func (j *CompactionJob) Run(ctx context.Context) {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		j.Compact(ctx)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Compact performs a single pass.
func (j *CompactionJob) Compact(ctx context.Context) {
	rows, err := j.responses.DeleteStale(ctx)
	if err != nil {
		j.logger.Err(err).Str("func", "CompactionJob.Compact").Msg("failed to delete stale responses")
	}
	entries := j.cache.Purge()

	if rows > 0 || entries > 0 {
		j.logger.Debug().
			Str("func", "CompactionJob.Compact").
			Int64("rows", rows).
			Int("entries", entries).
			Msg("caches compacted")
	}
}

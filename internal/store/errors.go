// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods. Callers should match them
// with [errors.Is].
var (
	// ErrCacheMiss is returned by GetCachedResponse when the key is absent or
	// the row is older than the response cache TTL.
	ErrCacheMiss = errors.New("cache miss")

	// ErrBlobNotFound is returned when no offline blob is stored under a key.
	ErrBlobNotFound = errors.New("offline blob was not found")

	// ErrQueueItemNotFound is returned when a queue operation targets an id
	// that is no longer queued.
	ErrQueueItemNotFound = errors.New("sync queue item was not found")
)

// Low-level database operation errors.
var (
	ErrBuildingSQLQuery = errors.New("error building sql query")

	ErrExecutingQuery = errors.New("error executing sql query")

	ErrExecutingStatement = errors.New("failed to executing statement")

	ErrScanningRow = errors.New("failed to scan row")

	ErrScanningRows = errors.New("failed to scan rows")
)

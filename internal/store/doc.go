// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store is the client's durable local state: a single SQLite file
// holding the response cache (api_cache), the pending write queue
// (sync_queue) and the offline record blobs (offline_blobs).
//
// Each repository operation runs in its own statement; there is no atomicity
// across collections.
package store

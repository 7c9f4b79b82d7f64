// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service is the offline-first sync engine of the client.
//
// [OfflineAPI] is the only entry point for domain data. It consults the
// [ConnectivityMonitor] to choose between calling the backend and queueing
// the write in the SQLite sync queue, keeps optimistic copies of queued
// records in per-collection blobs and builds list views through the merge
// engine. The [SyncQueueProcessor] replays the queue once the backend is
// reachable and reconciles the optimistic copies with what the backend
// confirmed. [ClientSyncJob], [ChangeListener] and [CompactionJob] are the
// background loops started by the client app.
package service

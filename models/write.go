// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// WriteStatus tells the caller whether a write reached the backend.
type WriteStatus string

const (
	WriteConfirmed WriteStatus = "confirmed"
	WriteQueued    WriteStatus = "queued"
)

// WriteResult is returned by every facade write. Record is the
// backend-confirmed record or, for queued writes, the optimistic local
// placeholder.
type WriteResult[T any] struct {
	Record  T           `json:"record"`
	Status  WriteStatus `json:"status"`
	QueueID int64       `json:"queue_id,omitempty"`
}

// Queued reports whether the write is waiting in the sync queue.
func (r WriteResult[T]) Queued() bool {
	return r.Status == WriteQueued
}

// RecordRef addresses a record either by server id or, for records created
// offline and not yet confirmed, by temp id.
type RecordRef struct {
	ID     int64
	TempID string
}

// ConflictDetail is the structured body of a 409 response, e.g. a category
// that cannot be deleted because transactions still reference it.
type ConflictDetail struct {
	Message    string         `json:"message"`
	References map[string]int `json:"references,omitempty"`
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// HTTPMethod is the verb of a queued write.
type HTTPMethod string

const (
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodDelete HTTPMethod = "DELETE"
)

// SyncQueueItem is one durable pending write.
//
// Items are created when a write is attempted while the backend is
// unreachable (or fails and the caller opted into queue-on-failure), are
// rescheduled on every failed replay and are deleted after a successful
// replay or once the retry cap is exceeded.
type SyncQueueItem struct {
	ID       int64           `json:"id"`
	Type     ResourceType    `json:"type"`
	Method   HTTPMethod      `json:"method"`
	Endpoint string          `json:"endpoint"`
	Payload  json.RawMessage `json:"payload,omitempty"`

	// LocalRef is the temp id of the optimistic record a POST created, so
	// the record can be replaced once the backend confirms it.
	LocalRef string `json:"local_ref,omitempty"`

	// IdempotencyKey is sent with every replay of this item.
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	CreatedAt     time.Time `json:"created_at"`
	Retries       int       `json:"retries"`
	NextAttemptAt time.Time `json:"next_attempt_at"`
	LastError     string    `json:"last_error,omitempty"`
}

// Request converts the item into the adapter call that replays it.
func (i SyncQueueItem) Request() WriteRequest {
	return WriteRequest{
		Method:         i.Method,
		Endpoint:       i.Endpoint,
		Payload:        i.Payload,
		IdempotencyKey: i.IdempotencyKey,
	}
}

// WriteRequest is a single mutating backend call.
type WriteRequest struct {
	Method         HTTPMethod
	Endpoint       string
	Payload        json.RawMessage
	IdempotencyKey string
}

// DrainReport summarises one pass of the sync queue processor.
type DrainReport struct {
	// Skipped is set when the pass did not run because another drain was in
	// flight or the backend was unreachable.
	Skipped bool

	Attempted   int
	Synced      int
	Rescheduled int
	Abandoned   int
	Conflicts   int

	// SyncedByType counts successful replays per resource type.
	SyncedByType map[ResourceType]int
}

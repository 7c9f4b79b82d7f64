// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	// ErrRetriesExhausted is logged (and carried by the sync:abandoned event)
	// when a queued write failed more times than the retry cap allows.
	ErrRetriesExhausted = errors.New("sync retries exhausted")

	// ErrDrainInProgress is returned by Drain when another pass is running.
	ErrDrainInProgress = errors.New("sync queue drain already in progress")

	// ErrRecordNotFound is returned for keyed reads and edits of records that
	// exist neither locally nor on the backend.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnavailableOffline is returned by keyed reads that have no cached
	// copy while the backend is unreachable.
	ErrUnavailableOffline = errors.New("data is not available offline")

	// ErrInvalidRecordRef is returned when a RecordRef carries neither an id
	// nor a temp id.
	ErrInvalidRecordRef = errors.New("record reference has neither id nor temp id")

	// ErrInvalidRecord wraps a validators error for a write rejected before
	// it reached the backend or the queue.
	ErrInvalidRecord = errors.New("invalid record")
)

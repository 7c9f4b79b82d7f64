// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-fin-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// ConnectivityMonitor decides whether the backend is reachable. It never
// returns errors: every failure simply counts as "unreachable".
type ConnectivityMonitor interface {
	// CheckNow probes the backend once and returns the resulting
	// reachability.
	CheckNow(ctx context.Context) bool

	// Probe checks the backend once like CheckNow but returns the probe's
	// own outcome, before hysteresis is applied.
	Probe(ctx context.Context) error

	// Online returns the current reachability without probing.
	Online() bool

	// State returns a copy of the current state.
	State() models.ConnectivityState

	// HintOnline asks for an immediate probe. Reachability only changes if
	// the probe succeeds.
	HintOnline(ctx context.Context)

	// HintOffline marks the backend unreachable at once.
	HintOffline()

	// ReportFailure counts a request that failed at the network level as
	// one failed probe.
	ReportFailure()

	// Run probes periodically until ctx is cancelled.
	Run(ctx context.Context)
}

// SyncQueueProcessor replays pending writes.
type SyncQueueProcessor interface {
	// Drain replays every due item once, in insertion order. It is a no-op
	// while the backend is unreachable and returns ErrDrainInProgress when
	// another pass is running.
	Drain(ctx context.Context) (models.DrainReport, error)
}

// ClientSyncJob drains the queue periodically and whenever the backend
// becomes reachable.
type ClientSyncJob interface {
	// Start launches the background goroutine. Any previously running job is
	// stopped first. A non-positive interval defaults to one minute.
	Start(ctx context.Context, interval time.Duration)

	// Trigger requests a drain as soon as possible.
	Trigger()

	// Stop cancels the goroutine and waits for it to exit.
	Stop()
}

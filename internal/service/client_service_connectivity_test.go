// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-fin-keeper/internal/adapter"
	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/mock"
	"github.com/MKhiriev/go-fin-keeper/models"
)

// spyHealth fails while down is set and counts probes.
type spyHealth struct {
	down  atomic.Bool
	calls atomic.Int64
}

func (s *spyHealth) Health(context.Context) error {
	s.calls.Add(1)
	if s.down.Load() {
		return adapter.ErrTransient
	}
	return nil
}

var testWorkersConfig = config.ClientWorkers{
	HealthInterval:      15 * time.Second,
	HealthRetryInterval: 5 * time.Second,
	FailureThreshold:    3,
}

func newTestMonitor(t *testing.T, health HealthChecker, cfg config.ClientWorkers) (*connectivityMonitor, *eventRecorder) {
	t.Helper()
	bus := events.NewBus(logger.Nop())
	rec := recordEvents(t, bus, events.TopicConnectivityChanged)
	return NewConnectivityMonitor(health, bus, cfg, logger.Nop()).(*connectivityMonitor), rec
}

// ── state machine ────────────────────────────────────────────────────────────

func TestConnectivityMonitor_StartsReachable(t *testing.T) {
	m, _ := newTestMonitor(t, &spyHealth{}, testWorkersConfig)

	assert.True(t, m.Online())
	assert.Equal(t, 15*time.Second, m.State().CheckInterval)
	assert.Zero(t, m.State().ConsecutiveFailures)
}

func TestConnectivityMonitor_Hysteresis(t *testing.T) {
	health := &spyHealth{}
	m, rec := newTestMonitor(t, health, testWorkersConfig)
	ctx := context.Background()

	health.down.Store(true)

	assert.True(t, m.CheckNow(ctx), "first failure keeps the backend reachable")
	assert.Equal(t, 5*time.Second, m.State().CheckInterval)
	assert.Equal(t, 1, m.State().ConsecutiveFailures)

	assert.True(t, m.CheckNow(ctx), "second failure keeps the backend reachable")
	assert.Zero(t, rec.count(events.TopicConnectivityChanged))

	assert.False(t, m.CheckNow(ctx), "third failure flips offline")
	assert.Equal(t, 15*time.Second, m.State().CheckInterval)
	assert.Equal(t, 1, rec.count(events.TopicConnectivityChanged))

	assert.False(t, m.CheckNow(ctx))
	assert.Equal(t, 1, rec.count(events.TopicConnectivityChanged), "no event without a flip")

	health.down.Store(false)
	assert.True(t, m.CheckNow(ctx), "a single success flips back online")
	assert.Zero(t, m.State().ConsecutiveFailures)
	assert.Equal(t, 15*time.Second, m.State().CheckInterval)

	payloads := rec.payloads(events.TopicConnectivityChanged)
	require.Len(t, payloads, 2)
	assert.False(t, payloads[0].(models.ConnectivityState).Reachable)
	assert.True(t, payloads[1].(models.ConnectivityState).Reachable)
}

func TestConnectivityMonitor_SuccessResetsFailures(t *testing.T) {
	health := &spyHealth{}
	m, rec := newTestMonitor(t, health, testWorkersConfig)
	ctx := context.Background()

	health.down.Store(true)
	m.CheckNow(ctx)
	m.CheckNow(ctx)
	health.down.Store(false)
	m.CheckNow(ctx)
	health.down.Store(true)
	m.CheckNow(ctx)
	m.CheckNow(ctx)

	assert.True(t, m.Online())
	assert.Equal(t, 2, m.State().ConsecutiveFailures)
	assert.Zero(t, rec.count(events.TopicConnectivityChanged))
}

func TestConnectivityMonitor_DefaultsForZeroConfig(t *testing.T) {
	m, _ := newTestMonitor(t, &spyHealth{}, config.ClientWorkers{})

	assert.Equal(t, config.DefaultHealthInterval, m.interval)
	assert.Equal(t, config.DefaultHealthRetryInterval, m.retryInterval)
	assert.Equal(t, config.DefaultFailureThreshold, m.threshold)
}

func TestConnectivityMonitor_LastCheckedAt(t *testing.T) {
	m, _ := newTestMonitor(t, &spyHealth{}, testWorkersConfig)
	at := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return at }

	m.CheckNow(context.Background())

	assert.Equal(t, at, m.State().LastCheckedAt)
}

func TestConnectivityMonitor_WithMockedAdapter(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mock.NewMockBackendAdapter(ctrl)
	backend.EXPECT().Health(gomock.Any()).Return(errors.New("dial tcp: connection refused")).Times(3)

	m, rec := newTestMonitor(t, backend, testWorkersConfig)
	for range 3 {
		m.CheckNow(context.Background())
	}

	assert.False(t, m.Online())
	assert.Equal(t, 1, rec.count(events.TopicConnectivityChanged))
}

// ── hints ────────────────────────────────────────────────────────────────────

func TestConnectivityMonitor_HintOffline(t *testing.T) {
	m, rec := newTestMonitor(t, &spyHealth{}, testWorkersConfig)

	m.HintOffline()
	assert.False(t, m.Online())
	assert.Equal(t, 1, rec.count(events.TopicConnectivityChanged))

	m.HintOffline()
	assert.Equal(t, 1, rec.count(events.TopicConnectivityChanged), "already offline")
}

func TestConnectivityMonitor_ProbeReturnsRawOutcome(t *testing.T) {
	health := &spyHealth{}
	health.down.Store(true)
	m, _ := newTestMonitor(t, health, testWorkersConfig)

	require.Error(t, m.Probe(context.Background()))
	assert.True(t, m.Online(), "the state still follows the threshold")
	assert.Equal(t, 1, m.State().ConsecutiveFailures)

	health.down.Store(false)
	require.NoError(t, m.Probe(context.Background()))
	assert.Zero(t, m.State().ConsecutiveFailures)
}

func TestConnectivityMonitor_ReportFailureFollowsThreshold(t *testing.T) {
	m, rec := newTestMonitor(t, &spyHealth{}, testWorkersConfig)

	m.ReportFailure()
	m.ReportFailure()
	assert.True(t, m.Online(), "request failures below the threshold keep the backend reachable")
	assert.Equal(t, 2, m.State().ConsecutiveFailures)
	assert.Zero(t, rec.count(events.TopicConnectivityChanged))

	m.ReportFailure()
	assert.False(t, m.Online())
	assert.Equal(t, 1, rec.count(events.TopicConnectivityChanged))

	m.CheckNow(context.Background())
	assert.True(t, m.Online())
}

func TestConnectivityMonitor_HintOnlineProbesWithoutFlipping(t *testing.T) {
	health := &spyHealth{}
	health.down.Store(true)
	m, rec := newTestMonitor(t, health, testWorkersConfig)
	m.HintOffline()

	m.HintOnline(context.Background())
	require.Eventually(t, func() bool { return health.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, m.Online(), "a failed probe leaves the state untouched")

	health.down.Store(false)
	m.HintOnline(context.Background())
	require.Eventually(t, m.Online, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, rec.count(events.TopicConnectivityChanged))
}

// ── Run ──────────────────────────────────────────────────────────────────────

func TestConnectivityMonitor_RunProbesPeriodically(t *testing.T) {
	health := &spyHealth{}
	m, _ := newTestMonitor(t, health, config.ClientWorkers{
		HealthInterval:      10 * time.Millisecond,
		HealthRetryInterval: 5 * time.Millisecond,
		FailureThreshold:    3,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return health.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestConnectivityMonitor_RunWakesOnHint(t *testing.T) {
	health := &spyHealth{}
	m, _ := newTestMonitor(t, health, config.ClientWorkers{
		HealthInterval:      time.Hour,
		HealthRetryInterval: time.Hour,
		FailureThreshold:    3,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	require.Eventually(t, func() bool { return health.calls.Load() == 1 }, time.Second, 5*time.Millisecond, "initial probe")
	require.Eventually(t, m.running.Load, time.Second, 5*time.Millisecond)

	m.HintOnline(ctx)
	require.Eventually(t, func() bool { return health.calls.Load() == 2 }, time.Second, 5*time.Millisecond, "hint wakes the loop")
}

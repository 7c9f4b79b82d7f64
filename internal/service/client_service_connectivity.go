// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/models"
)

// HealthChecker is the part of the backend adapter the monitor needs.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// connectivityMonitor tracks reachability with hysteresis: it takes
// FailureThreshold consecutive failed probes to go offline and a single
// success to come back.
type connectivityMonitor struct {
	health HealthChecker
	bus    *events.Bus

	interval      time.Duration
	retryInterval time.Duration
	threshold     int

	mu    sync.RWMutex
	state models.ConnectivityState

	// probes are serialized so that state transitions follow probe order.
	probeMu sync.Mutex
	wake    chan struct{}
	running atomic.Bool
	now     func() time.Time

	logger *logger.Logger
}

// NewConnectivityMonitor returns a monitor that starts in the reachable
// state, so that the first write of a session is tried online.
func NewConnectivityMonitor(health HealthChecker, bus *events.Bus, cfg config.ClientWorkers, log *logger.Logger) ConnectivityMonitor {
	interval := cfg.HealthInterval
	if interval <= 0 {
		interval = config.DefaultHealthInterval
	}
	retryInterval := cfg.HealthRetryInterval
	if retryInterval <= 0 {
		retryInterval = config.DefaultHealthRetryInterval
	}
	threshold := cfg.FailureThreshold
	if threshold <= 0 {
		threshold = config.DefaultFailureThreshold
	}

	return &connectivityMonitor{
		health:        health,
		bus:           bus,
		interval:      interval,
		retryInterval: retryInterval,
		threshold:     threshold,
		state:         models.ConnectivityState{Reachable: true, CheckInterval: interval},
		wake:          make(chan struct{}, 1),
		now:           time.Now,
		logger:        log.Component("connectivity"),
	}
}

func (m *connectivityMonitor) CheckNow(ctx context.Context) bool {
	reachable, _ := m.probe(ctx)
	return reachable
}

func (m *connectivityMonitor) Probe(ctx context.Context) error {
	_, err := m.probe(ctx)
	return err
}

func (m *connectivityMonitor) probe(ctx context.Context) (bool, error) {
	m.probeMu.Lock()
	defer m.probeMu.Unlock()

	err := m.health.Health(ctx)
	if err != nil {
		m.logger.Debug().Err(err).Str("func", "connectivityMonitor.probe").Msg("health probe failed")
	}
	return m.record(err == nil), err
}

// record applies one probe result and emits a change event when
// reachability flipped.
func (m *connectivityMonitor) record(ok bool) bool {
	m.mu.Lock()
	prev := m.state.Reachable
	m.state.LastCheckedAt = m.now()
	if ok {
		m.state.ConsecutiveFailures = 0
		m.state.Reachable = true
		m.state.CheckInterval = m.interval
	} else {
		m.state.ConsecutiveFailures++
		if m.state.ConsecutiveFailures >= m.threshold {
			m.state.Reachable = false
			m.state.CheckInterval = m.interval
		} else {
			m.state.CheckInterval = m.retryInterval
		}
	}
	state := m.state
	m.mu.Unlock()

	if prev != state.Reachable {
		m.emit(state)
	}
	return state.Reachable
}

func (m *connectivityMonitor) emit(state models.ConnectivityState) {
	m.logger.Info().
		Str("func", "connectivityMonitor.emit").
		Bool("reachable", state.Reachable).
		Int("failures", state.ConsecutiveFailures).
		Msg("backend reachability changed")
	m.bus.Publish(events.TopicConnectivityChanged, state)
}

func (m *connectivityMonitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Reachable
}

func (m *connectivityMonitor) State() models.ConnectivityState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// HintOnline wakes the Run loop. Without a running loop the probe is made in
// a separate goroutine.
func (m *connectivityMonitor) HintOnline(ctx context.Context) {
	if m.running.Load() {
		select {
		case m.wake <- struct{}{}:
		default:
		}
		return
	}
	go m.CheckNow(ctx)
}

func (m *connectivityMonitor) HintOffline() {
	m.mu.Lock()
	prev := m.state.Reachable
	m.state.Reachable = false
	if m.state.ConsecutiveFailures < m.threshold {
		m.state.ConsecutiveFailures = m.threshold
	}
	m.state.CheckInterval = m.interval
	state := m.state
	m.mu.Unlock()

	if prev {
		m.emit(state)
	}
}

func (m *connectivityMonitor) ReportFailure() {
	m.record(false)
}

// Run probes immediately, then after every CheckInterval, and whenever
// HintOnline is called.
func (m *connectivityMonitor) Run(ctx context.Context) {
	m.running.Store(true)
	defer m.running.Store(false)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-m.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		m.CheckNow(ctx)
		if ctx.Err() != nil {
			return
		}
		timer.Reset(m.State().CheckInterval)
	}
}

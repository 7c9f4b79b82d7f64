// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-fin-keeper/internal/cache"
	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/mock"
	"github.com/MKhiriev/go-fin-keeper/internal/store"
	"github.com/MKhiriev/go-fin-keeper/models"
)

var testSyncConfig = config.ClientSync{
	MaxRetries:       5,
	MaxBackoff:       time.Hour,
	PageSize:         100,
	MaxPages:         50,
	SnapshotSize:     50,
	ResponseCacheTTL: time.Hour,
}

func newTestStorages(t *testing.T) *store.ClientStorages {
	t.Helper()

	cfg := config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "fin-keeper.db")}}
	storages, err := store.NewClientStorages(context.Background(), cfg, time.Hour, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	return storages
}

// eventRecorder collects events published on a bus.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func recordEvents(t *testing.T, bus *events.Bus, topics ...events.Topic) *eventRecorder {
	t.Helper()
	r := &eventRecorder{}
	for _, topic := range topics {
		unsubscribe := bus.Subscribe(topic, func(ev events.Event) {
			r.mu.Lock()
			r.events = append(r.events, ev)
			r.mu.Unlock()
		})
		t.Cleanup(unsubscribe)
	}
	return r
}

func (r *eventRecorder) count(topic events.Topic) int {
	return len(r.payloads(topic))
}

func (r *eventRecorder) payloads(topic events.Topic) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, ev := range r.events {
		if ev.Topic == topic {
			out = append(out, ev.Payload)
		}
	}
	return out
}

// facadeFixture is an OfflineAPI on a real SQLite store with a mocked
// backend and a switchable connectivity monitor.
type facadeFixture struct {
	ctrl     *gomock.Controller
	backend  *mock.MockBackendAdapter
	monitor  *mock.MockConnectivityMonitor
	storages *store.ClientStorages
	cache    *cache.Cache
	bus      *events.Bus
	api      *OfflineAPI

	online           atomic.Bool
	reportedFailures atomic.Int32
}

func newFacadeFixture(t *testing.T, online bool) *facadeFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &facadeFixture{
		ctrl:     ctrl,
		backend:  mock.NewMockBackendAdapter(ctrl),
		monitor:  mock.NewMockConnectivityMonitor(ctrl),
		storages: newTestStorages(t),
		cache:    cache.New(100, time.Minute),
		bus:      events.NewBus(logger.Nop()),
	}
	f.online.Store(online)

	f.backend.EXPECT().Token().Return("").AnyTimes()
	f.monitor.EXPECT().Online().DoAndReturn(func() bool { return f.online.Load() }).AnyTimes()
	f.monitor.EXPECT().ReportFailure().Do(func() {
		f.reportedFailures.Add(1)
	}).AnyTimes()

	f.api = NewOfflineAPI(f.backend, f.monitor, f.storages, f.cache, f.bus, testSyncConfig, logger.Nop())
	t.Cleanup(f.api.Close)

	return f
}

func (f *facadeFixture) processor() *syncQueueProcessor {
	return newSyncQueueProcessor(f.backend, f.storages.SyncQueue, f.monitor, f.bus, f.api.collectionStates(), testSyncConfig, logger.Nop())
}

func (f *facadeFixture) queue(t *testing.T) []models.SyncQueueItem {
	t.Helper()
	items, err := f.storages.SyncQueue.ListQueue(context.Background())
	require.NoError(t, err)
	return items
}

func (f *facadeFixture) localTransactions(t *testing.T) []models.Transaction {
	t.Helper()
	recs, err := f.api.Transactions.records.loadLocal(context.Background())
	require.NoError(t, err)
	return recs
}

func (f *facadeFixture) snapshotTransactions(t *testing.T) []models.Transaction {
	t.Helper()
	recs, err := f.api.Transactions.records.loadSnapshot(context.Background())
	require.NoError(t, err)
	return recs
}

func coffee() models.Transaction {
	return models.NewTransaction(models.TransactionInput{
		Description: "Coffee",
		Amount:      42,
		Type:        models.TransactionExpense,
		Date:        "2024-01-05",
	})
}

func txJSON(t *testing.T, id int64, tx models.Transaction) json.RawMessage {
	t.Helper()
	tx.RecordMeta = models.RecordMeta{ID: id}
	data, err := json.Marshal(tx)
	require.NoError(t, err)
	return data
}

func page(items ...json.RawMessage) models.ListEnvelope {
	return models.ListEnvelope{Items: items}
}

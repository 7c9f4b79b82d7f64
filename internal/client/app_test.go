// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-fin-keeper/internal/config"
	handlerhttp "github.com/MKhiriev/go-fin-keeper/internal/handler/http"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/models"
)

func newTestApp(t *testing.T) (*App, *handlerhttp.Handler) {
	t.Helper()

	backend := handlerhttp.NewHandler(handlerhttp.NewLedger(handlerhttp.WithNextID(917)), config.ServerConfig{
		Server: config.Server{RequestTimeout: 5 * time.Second},
	}, logger.Nop())
	srv := httptest.NewServer(backend.Init())
	t.Cleanup(srv.Close)

	cfg := &config.ClientConfig{
		Adapter: config.ClientAdapter{
			HTTPAddress:    srv.URL,
			RequestTimeout: 5 * time.Second,
			HealthTimeout:  time.Second,
		},
		Storage: config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "client.db")}},
		Workers: config.ClientWorkers{
			SyncInterval:        time.Hour,
			HealthInterval:      time.Hour,
			HealthRetryInterval: time.Hour,
			FailureThreshold:    3,
			CompactionInterval:  time.Hour,
		},
		Sync: config.ClientSync{
			MaxRetries:       5,
			MaxBackoff:       time.Minute,
			PageSize:         100,
			MaxPages:         10,
			SnapshotSize:     50,
			ResponseCacheTTL: time.Hour,
		},
		Cache: config.ClientCache{MaxEntries: 100, DefaultTTL: time.Minute},
	}

	app, err := NewApp(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	return app, backend
}

func lunch() models.Transaction {
	return models.NewTransaction(models.TransactionInput{
		Description: "Lunch",
		Amount:      12.5,
		Type:        models.TransactionExpense,
		Date:        "2024-03-01",
	})
}

func TestApp_Status(t *testing.T) {
	app, _ := newTestApp(t)

	status, err := app.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.ProbeOK)
	assert.True(t, status.Connectivity.Reachable)
	assert.Empty(t, status.Pending)
	assert.Contains(t, RenderStatus(status), "online")
}

func TestApp_StatusReportsFailedProbeBeforeThreshold(t *testing.T) {
	ctx := context.Background()
	app, backend := newTestApp(t)

	backend.SetOutage(true)
	status, err := app.Status(ctx)

	require.NoError(t, err)
	assert.False(t, status.ProbeOK)
	assert.True(t, status.Connectivity.Reachable, "one failure stays below the threshold")
	assert.Equal(t, 1, status.Connectivity.ConsecutiveFailures)
	assert.Contains(t, RenderStatus(status), "failed")

	_, err = app.API().Transactions.Create(ctx, lunch())
	require.NoError(t, err)

	report, err := app.SyncOnce(ctx)
	require.ErrorIs(t, err, ErrBackendUnreachable)
	assert.True(t, report.Skipped)

	pending, err := app.API().PendingWrites(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Zero(t, pending[0].Retries, "no retry is spent on a skipped pass")
}

func TestApp_SyncOnceReplaysQueuedWrite(t *testing.T) {
	ctx := context.Background()
	app, backend := newTestApp(t)

	backend.SetOutage(true)
	res, err := app.API().Transactions.Create(ctx, lunch())
	require.NoError(t, err)
	require.True(t, res.Queued())

	status, err := app.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.ProbeOK)
	require.Len(t, status.Pending, 1)

	report, err := app.SyncOnce(ctx)
	require.ErrorIs(t, err, ErrBackendUnreachable)
	assert.True(t, report.Skipped)

	backend.SetOutage(false)
	report, err = app.SyncOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Synced)

	list, err := app.API().Transactions.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(917), list[0].ID)
	assert.Equal(t, models.DataSourceOnline, list[0].DataSource)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, _ := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

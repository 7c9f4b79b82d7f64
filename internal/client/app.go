// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-fin-keeper/internal/adapter"
	"github.com/MKhiriev/go-fin-keeper/internal/cache"
	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/service"
	"github.com/MKhiriev/go-fin-keeper/internal/store"
	"github.com/MKhiriev/go-fin-keeper/internal/workers"
	"github.com/MKhiriev/go-fin-keeper/models"
)

// App owns every long-lived client component: the local database, the
// backend adapter, the sync engine and its background workers.
type App struct {
	cfg      *config.ClientConfig
	storages *store.ClientStorages
	services *service.ClientServices
	bus      *events.Bus
	workers  *workers.Workers

	unsubscribe []func()
	logger      *logger.Logger
}

// NewApp opens local storage and wires the client services against the
// backend named in cfg. The caller must Close the returned App.
func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	backend, err := adapter.NewHTTPBackendAdapter(cfg.Adapter, cfg.App, log)
	if err != nil {
		return nil, fmt.Errorf("create backend adapter: %w", err)
	}

	stream, err := adapter.NewChangeStream(cfg.Adapter, backend, log)
	if err != nil {
		return nil, fmt.Errorf("create change stream: %w", err)
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, cfg.Sync.ResponseCacheTTL, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	bus := events.NewBus(log)
	memCache := cache.New(cfg.Cache.MaxEntries, cfg.Cache.DefaultTTL)
	services := service.NewClientServices(cfg, storages, backend, stream, memCache, bus, log)

	app := &App{
		cfg:      cfg,
		storages: storages,
		services: services,
		bus:      bus,
		logger:   log.Component("client"),
	}
	app.workers = app.newWorkers()
	app.watch()

	return app, nil
}

func (a *App) newWorkers() *workers.Workers {
	syncJob := workers.WorkerFunc(func(ctx context.Context) {
		a.services.SyncJob.Start(ctx, a.cfg.Workers.SyncInterval)
		<-ctx.Done()
		a.services.SyncJob.Stop()
	})

	return workers.NewWorkers(a.logger).
		Add("connectivity", a.services.Monitor).
		Add("sync", syncJob).
		Add("changes", a.services.Changes).
		Add("compaction", a.services.Compaction)
}

// watch logs the outcomes nobody waits for synchronously.
func (a *App) watch() {
	a.unsubscribe = append(a.unsubscribe,
		a.bus.Subscribe(events.TopicConnectivityChanged, func(ev events.Event) {
			state, _ := ev.Payload.(models.ConnectivityState)
			a.logger.Info().
				Bool("reachable", state.Reachable).
				Int("failures", state.ConsecutiveFailures).
				Msg("backend reachability changed")
		}),
		a.bus.Subscribe(events.TopicSyncAbandoned, func(ev events.Event) {
			w, _ := ev.Payload.(service.AbandonedWrite)
			a.logger.Warn().Err(w.Err).
				Int64("queue_id", w.Item.ID).
				Str("endpoint", w.Item.Endpoint).
				Msg("pending write abandoned")
		}),
		a.bus.Subscribe(events.TopicSyncConflict, func(ev events.Event) {
			w, _ := ev.Payload.(service.ConflictedWrite)
			a.logger.Warn().
				Int64("queue_id", w.Item.ID).
				Str("endpoint", w.Item.Endpoint).
				Str("reason", w.Detail.Message).
				Msg("pending write rejected by backend")
		}),
		a.bus.Subscribe(events.TopicAuthInvalid, func(ev events.Event) {
			err, _ := ev.Payload.(error)
			a.logger.Error().Err(err).Msg("backend rejected the auth token")
		}),
	)
}

// Run blocks until ctx is cancelled, keeping the connectivity monitor, the
// sync job, the change listener and cache compaction running.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info().Str("backend", a.cfg.Adapter.HTTPAddress).Msg("client daemon started")
	a.workers.Run(ctx)
	a.logger.Info().Msg("client daemon stopped")
	return nil
}

// API returns the offline-capable data facade.
func (a *App) API() *service.OfflineAPI {
	return a.services.API
}

// Status probes the backend once and reports the local sync state.
// ProbeOK is the outcome of that probe alone; Connectivity carries the
// hysteresis-filtered reachability.
func (a *App) Status(ctx context.Context) (Status, error) {
	probeErr := a.services.Monitor.Probe(ctx)

	pending, err := a.services.API.PendingWrites(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("list pending writes: %w", err)
	}

	return Status{
		Backend:      a.cfg.Adapter.HTTPAddress,
		ProbeOK:      probeErr == nil,
		Connectivity: a.services.Monitor.State(),
		Pending:      pending,
	}, nil
}

// SyncOnce probes the backend and, when that probe succeeds, replays every
// due pending write.
func (a *App) SyncOnce(ctx context.Context) (models.DrainReport, error) {
	if err := a.services.Monitor.Probe(ctx); err != nil {
		return models.DrainReport{Skipped: true}, fmt.Errorf("%w: %w", ErrBackendUnreachable, err)
	}
	return a.services.Processor.Drain(ctx)
}

// Close stops event delivery and releases the local database.
func (a *App) Close() error {
	for _, unsubscribe := range a.unsubscribe {
		unsubscribe()
	}
	a.services.API.Close()
	return a.storages.Close()
}

// ErrBackendUnreachable is returned by SyncOnce when the health probe fails.
var ErrBackendUnreachable = errors.New("backend is unreachable")

// Status is a point-in-time view of the client.
type Status struct {
	Backend      string
	ProbeOK      bool
	Connectivity models.ConnectivityState
	Pending      []models.SyncQueueItem
}

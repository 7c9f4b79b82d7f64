// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-fin-keeper/internal/adapter"
	"github.com/MKhiriev/go-fin-keeper/internal/cache"
	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/store"
)

type ClientServices struct {
	Monitor    ConnectivityMonitor
	API        *OfflineAPI
	Processor  SyncQueueProcessor
	SyncJob    ClientSyncJob
	Changes    *ChangeListener
	Compaction *CompactionJob
}

// NewClientServices wires the sync engine around the injected storages,
// backend adapter, change stream, cache and bus.
func NewClientServices(
	cfg *config.ClientConfig,
	storages *store.ClientStorages,
	backend adapter.BackendAdapter,
	stream ChangeStreamer,
	memCache *cache.Cache,
	bus *events.Bus,
	log *logger.Logger,
) *ClientServices {
	monitor := NewConnectivityMonitor(backend, bus, cfg.Workers, log)
	api := NewOfflineAPI(backend, monitor, storages, memCache, bus, cfg.Sync, log)
	processor := NewSyncQueueProcessor(backend, storages.SyncQueue, monitor, bus, api.collectionStates(), cfg.Sync, log)

	return &ClientServices{
		Monitor:    monitor,
		API:        api,
		Processor:  processor,
		SyncJob:    NewClientSyncJob(processor, bus, log),
		Changes:    NewChangeListener(stream, monitor, bus, log),
		Compaction: NewCompactionJob(storages.ResponseCache, memCache, cfg.Workers.CompactionInterval, log),
	}
}

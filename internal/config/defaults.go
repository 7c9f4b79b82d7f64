// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"path/filepath"
	"time"
)

// Default values applied before any other source.
const (
	DefaultHealthPath          = "/health"
	DefaultEventsPath          = "/events"
	DefaultHealthTimeout       = 4 * time.Second
	DefaultHealthInterval      = 15 * time.Second
	DefaultHealthRetryInterval = 5 * time.Second
	DefaultFailureThreshold    = 3
	DefaultMaxRetries          = 5
	DefaultPageSize            = 100
	DefaultMaxPages            = 50
	DefaultSnapshotSize        = 50
	DefaultResponseCacheTTL    = 24 * time.Hour
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "go-fin-keeper",
			TokenDuration: 24 * time.Hour,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 15 * time.Second,
			HealthPath:     DefaultHealthPath,
			HealthTimeout:  DefaultHealthTimeout,
			EventsPath:     DefaultEventsPath,
		},
		Storage: Storage{
			DB: DB{DSN: "fin-keeper.db"},
		},
		Workers: Workers{
			SyncInterval:        time.Minute,
			HealthInterval:      DefaultHealthInterval,
			HealthRetryInterval: DefaultHealthRetryInterval,
			FailureThreshold:    DefaultFailureThreshold,
			CompactionInterval:  time.Hour,
		},
		Sync: Sync{
			MaxRetries:       DefaultMaxRetries,
			MaxBackoff:       time.Hour,
			PageSize:         DefaultPageSize,
			MaxPages:         DefaultMaxPages,
			SnapshotSize:     DefaultSnapshotSize,
			ResponseCacheTTL: DefaultResponseCacheTTL,
		},
		Cache: Cache{
			MaxEntries: 100,
			DefaultTTL: 5 * time.Minute,
		},
		Log: Log{
			Path:       filepath.Join("logs", "fin-keeper.log"),
			Level:      "debug",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ClientApp holds client session settings.
type ClientApp struct {
	// AuthToken is the bearer token attached to backend requests.
	AuthToken string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	HealthPath     string
	HealthTimeout  time.Duration
	EventsPath     string
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	SyncInterval        time.Duration
	HealthInterval      time.Duration
	HealthRetryInterval time.Duration
	FailureThreshold    int
	CompactionInterval  time.Duration
}

// ClientSync contains queue replay and merge limits.
type ClientSync struct {
	MaxRetries       int
	MaxBackoff       time.Duration
	PageSize         int
	MaxPages         int
	SnapshotSize     int
	ResponseCacheTTL time.Duration
}

// ClientCache contains the in-memory cache limits.
type ClientCache struct {
	MaxEntries int
	DefaultTTL time.Duration
}

// ClientLog contains the client log file settings.
type ClientLog struct {
	Path       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Sync    ClientSync
	Cache   ClientCache
	Log     ClientLog
}

// GetClientConfig builds and validates the client view of the merged
// configuration. fs may be nil when no command line is available.
func GetClientConfig(fs *pflag.FlagSet) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps the client-relevant fields of cfg.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{AuthToken: cfg.App.AuthToken},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			HealthPath:     cfg.Adapter.HealthPath,
			HealthTimeout:  cfg.Adapter.HealthTimeout,
			EventsPath:     cfg.Adapter.EventsPath,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Workers: ClientWorkers{
			SyncInterval:        cfg.Workers.SyncInterval,
			HealthInterval:      cfg.Workers.HealthInterval,
			HealthRetryInterval: cfg.Workers.HealthRetryInterval,
			FailureThreshold:    cfg.Workers.FailureThreshold,
			CompactionInterval:  cfg.Workers.CompactionInterval,
		},
		Sync: ClientSync{
			MaxRetries:       cfg.Sync.MaxRetries,
			MaxBackoff:       cfg.Sync.MaxBackoff,
			PageSize:         cfg.Sync.PageSize,
			MaxPages:         cfg.Sync.MaxPages,
			SnapshotSize:     cfg.Sync.SnapshotSize,
			ResponseCacheTTL: cfg.Sync.ResponseCacheTTL,
		},
		Cache: ClientCache{
			MaxEntries: cfg.Cache.MaxEntries,
			DefaultTTL: cfg.Cache.DefaultTTL,
		},
		Log: ClientLog{
			Path:       cfg.Log.Path,
			Level:      cfg.Log.Level,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		},
	}
}

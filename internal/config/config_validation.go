// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks the merged [StructuredConfig]. Per-binary rules live on
// the client and server views.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.HealthTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	w := cfg.Workers
	if w.SyncInterval <= 0 || w.HealthInterval <= 0 || w.HealthRetryInterval <= 0 || w.FailureThreshold < 1 {
		return ErrInvalidWorkerConfigs
	}

	s := cfg.Sync
	if s.MaxRetries < 0 || s.PageSize < 1 || s.MaxPages < 1 || s.SnapshotSize < 0 || s.ResponseCacheTTL <= 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Cache.MaxEntries < 1 || cfg.Cache.DefaultTTL < 0 {
		return ErrInvalidCacheConfigs
	}

	if cfg.App.AuthToken != "" && strings.Count(cfg.App.AuthToken, ".") != 2 {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}
	if cfg.Auth.TokenSignKey == "" || cfg.Auth.TokenIssuer == "" || cfg.Auth.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Fields are mapped via the `env` and `envPrefix` tags of
// [StructuredConfig].
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}

// fileConfig mirrors [StructuredConfig] for JSON and TOML files, where
// durations are written as strings ("15s", "24h").
type fileConfig struct {
	App struct {
		AuthToken     string   `json:"auth_token" toml:"auth_token"`
		TokenSignKey  string   `json:"token_sign_key" toml:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer" toml:"token_issuer"`
		TokenDuration Duration `json:"token_duration" toml:"token_duration"`
	} `json:"app" toml:"app"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" toml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" toml:"request_timeout"`
		HealthPath     string   `json:"health_path" toml:"health_path"`
		HealthTimeout  Duration `json:"health_timeout" toml:"health_timeout"`
		EventsPath     string   `json:"events_path" toml:"events_path"`
	} `json:"adapter" toml:"adapter"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" toml:"dsn"`
		} `json:"db" toml:"db"`
	} `json:"storage" toml:"storage"`

	Workers struct {
		SyncInterval        Duration `json:"sync_interval" toml:"sync_interval"`
		HealthInterval      Duration `json:"health_interval" toml:"health_interval"`
		HealthRetryInterval Duration `json:"health_retry_interval" toml:"health_retry_interval"`
		FailureThreshold    int      `json:"failure_threshold" toml:"failure_threshold"`
		CompactionInterval  Duration `json:"compaction_interval" toml:"compaction_interval"`
	} `json:"workers" toml:"workers"`

	Sync struct {
		MaxRetries       int      `json:"max_retries" toml:"max_retries"`
		MaxBackoff       Duration `json:"max_backoff" toml:"max_backoff"`
		PageSize         int      `json:"page_size" toml:"page_size"`
		MaxPages         int      `json:"max_pages" toml:"max_pages"`
		SnapshotSize     int      `json:"snapshot_size" toml:"snapshot_size"`
		ResponseCacheTTL Duration `json:"response_cache_ttl" toml:"response_cache_ttl"`
	} `json:"sync" toml:"sync"`

	Cache struct {
		MaxEntries int      `json:"max_entries" toml:"max_entries"`
		DefaultTTL Duration `json:"default_ttl" toml:"default_ttl"`
	} `json:"cache" toml:"cache"`

	Log struct {
		Path       string `json:"path" toml:"path"`
		Level      string `json:"level" toml:"level"`
		MaxSizeMB  int    `json:"max_size_mb" toml:"max_size_mb"`
		MaxBackups int    `json:"max_backups" toml:"max_backups"`
		MaxAgeDays int    `json:"max_age_days" toml:"max_age_days"`
	} `json:"log" toml:"log"`

	Server struct {
		HTTPAddress    string   `json:"http_address" toml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" toml:"request_timeout"`
	} `json:"server" toml:"server"`
}

// parseFile reads a JSON or TOML config file. The format is chosen by the
// file extension; anything other than .toml is decoded as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err = toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding toml configs: %w", err)
		}
	default:
		if err = json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return fc.structured(), nil
}

func (fc fileConfig) structured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			AuthToken:     fc.App.AuthToken,
			TokenSignKey:  fc.App.TokenSignKey,
			TokenIssuer:   fc.App.TokenIssuer,
			TokenDuration: time.Duration(fc.App.TokenDuration),
		},
		Adapter: Adapter{
			HTTPAddress:    fc.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(fc.Adapter.RequestTimeout),
			HealthPath:     fc.Adapter.HealthPath,
			HealthTimeout:  time.Duration(fc.Adapter.HealthTimeout),
			EventsPath:     fc.Adapter.EventsPath,
		},
		Storage: Storage{
			DB: DB{DSN: fc.Storage.DB.DSN},
		},
		Workers: Workers{
			SyncInterval:        time.Duration(fc.Workers.SyncInterval),
			HealthInterval:      time.Duration(fc.Workers.HealthInterval),
			HealthRetryInterval: time.Duration(fc.Workers.HealthRetryInterval),
			FailureThreshold:    fc.Workers.FailureThreshold,
			CompactionInterval:  time.Duration(fc.Workers.CompactionInterval),
		},
		Sync: Sync{
			MaxRetries:       fc.Sync.MaxRetries,
			MaxBackoff:       time.Duration(fc.Sync.MaxBackoff),
			PageSize:         fc.Sync.PageSize,
			MaxPages:         fc.Sync.MaxPages,
			SnapshotSize:     fc.Sync.SnapshotSize,
			ResponseCacheTTL: time.Duration(fc.Sync.ResponseCacheTTL),
		},
		Cache: Cache{
			MaxEntries: fc.Cache.MaxEntries,
			DefaultTTL: time.Duration(fc.Cache.DefaultTTL),
		},
		Log: Log{
			Path:       fc.Log.Path,
			Level:      fc.Log.Level,
			MaxSizeMB:  fc.Log.MaxSizeMB,
			MaxBackups: fc.Log.MaxBackups,
			MaxAgeDays: fc.Log.MaxAgeDays,
		},
		Server: Server{
			HTTPAddress:    fc.Server.HTTPAddress,
			RequestTimeout: time.Duration(fc.Server.RequestTimeout),
		},
	}
}

// Duration is a time.Duration that decodes from strings like "1h" or "30s"
// in JSON and TOML, and from raw nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		return d.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d *Duration) UnmarshalText(text []byte) error {
	tmp, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// StructuredConfig is the top-level configuration container for the
// go-fin-keeper binaries. It is populated by merging defaults, environment
// variables, command-line flags and an optional JSON or TOML file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds session and token settings.
	App App `envPrefix:"APP_"`

	// Adapter holds the backend address and request timeouts used by the
	// client.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local SQLite settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds the cadences of the background workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// Sync holds queue replay and merge limits.
	Sync Sync `envPrefix:"SYNC_"`

	// Cache holds the in-memory cache limits.
	Cache Cache `envPrefix:"CACHE_"`

	// Log holds the client log file settings.
	Log Log `envPrefix:"LOG_"`

	// Server holds the listen settings of the reference backend.
	Server Server `envPrefix:"SERVER_"`

	// FilePath is the optional path to a JSON or TOML configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	FilePath string `env:"CONFIG"`
}

// App holds application-level values shared by the client and the
// reference backend.
type App struct {
	// AuthToken is the bearer token the client sends to the backend. The
	// user id in its subject scopes the local offline data.
	// Env: APP_AUTH_TOKEN
	AuthToken string `env:"AUTH_TOKEN"`

	// TokenSignKey signs tokens issued by the reference backend.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of issued tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of issued tokens.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// Adapter holds configuration of the client's backend transport.
type Adapter struct {
	// HTTPAddress is the backend base URL, e.g. "http://localhost:8080".
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every regular backend request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// HealthPath is the reachability probe endpoint.
	// Env: ADAPTER_HEALTH_PATH
	HealthPath string `env:"HEALTH_PATH"`

	// HealthTimeout bounds a single reachability probe.
	// Env: ADAPTER_HEALTH_TIMEOUT
	HealthTimeout time.Duration `env:"HEALTH_TIMEOUT"`

	// EventsPath is the server-sent events endpoint.
	// Env: ADAPTER_EVENTS_PATH
	EventsPath string `env:"EVENTS_PATH"`
}

// Storage groups the local storage settings.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the local SQLite settings.
type DB struct {
	// DSN is the SQLite database file path.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Workers holds the cadences of the client background workers.
type Workers struct {
	// SyncInterval is the safety-net period of the queue drain.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// HealthInterval is the probe period while the backend is reachable.
	// Env: WORKERS_HEALTH_INTERVAL
	HealthInterval time.Duration `env:"HEALTH_INTERVAL"`

	// HealthRetryInterval is the faster probe period after a failure.
	// Env: WORKERS_HEALTH_RETRY_INTERVAL
	HealthRetryInterval time.Duration `env:"HEALTH_RETRY_INTERVAL"`

	// FailureThreshold is the number of consecutive failed probes that flip
	// the client offline.
	// Env: WORKERS_FAILURE_THRESHOLD
	FailureThreshold int `env:"FAILURE_THRESHOLD"`

	// CompactionInterval is the period of the stale response-cache sweep.
	// Env: WORKERS_COMPACTION_INTERVAL
	CompactionInterval time.Duration `env:"COMPACTION_INTERVAL"`
}

// Sync holds queue replay and merge limits.
type Sync struct {
	// MaxRetries is the number of failed replays after which an item is
	// dropped.
	// Env: SYNC_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// MaxBackoff caps the exponential replay backoff.
	// Env: SYNC_MAX_BACKOFF
	MaxBackoff time.Duration `env:"MAX_BACKOFF"`

	// PageSize is the limit used when paging collections.
	// Env: SYNC_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE"`

	// MaxPages is the page-count ceiling of one full fetch.
	// Env: SYNC_MAX_PAGES
	MaxPages int `env:"MAX_PAGES"`

	// SnapshotSize bounds the last-known-good snapshot.
	// Env: SYNC_SNAPSHOT_SIZE
	SnapshotSize int `env:"SNAPSHOT_SIZE"`

	// ResponseCacheTTL is the validity window of persisted responses.
	// Env: SYNC_RESPONSE_CACHE_TTL
	ResponseCacheTTL time.Duration `env:"RESPONSE_CACHE_TTL"`
}

// Cache holds in-memory cache limits.
type Cache struct {
	// MaxEntries bounds the number of cached aggregates.
	// Env: CACHE_MAX_ENTRIES
	MaxEntries int `env:"MAX_ENTRIES"`

	// DefaultTTL is the lifetime of a cached aggregate.
	// Env: CACHE_DEFAULT_TTL
	DefaultTTL time.Duration `env:"DEFAULT_TTL"`
}

// Log holds the client log file settings.
type Log struct {
	// Env: LOG_PATH
	Path string `env:"PATH"`
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`
	// Env: LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB"`
	// Env: LOG_MAX_BACKUPS
	MaxBackups int `env:"MAX_BACKUPS"`
	// Env: LOG_MAX_AGE_DAYS
	MaxAgeDays int `env:"MAX_AGE_DAYS"`
}

// Server holds the listen settings of the reference backend.
type Server struct {
	// HTTPAddress is the TCP address the backend listens on, "host:port".
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all sources in the following priority order (last source wins for
// non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags from fs (skipped when fs is nil)
//  4. Config file (path resolved from sources 2 and 3)
func GetStructuredConfig(fs *pflag.FlagSet) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(fs).
		withFile().
		build()
}

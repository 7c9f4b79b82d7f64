// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing backend address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid client storage settings
	// (for example, empty DSN or an in-memory DSN that would not survive a
	// restart).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates a malformed bearer token or missing
	// token settings on the backend.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, zero probe interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidSyncConfigs indicates invalid replay or paging limits.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidCacheConfigs indicates invalid in-memory cache limits.
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
	// ErrInvalidServerConfigs indicates invalid reference backend settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)

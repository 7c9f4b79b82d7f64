// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter talks to the finance backend.
//
// [BackendAdapter] decouples the sync engine from HTTP: list pages come back
// as [models.ListEnvelope] whatever shape the backend used, writes are plain
// [models.WriteRequest] values replayable from the sync queue, and every
// failure is mapped onto the sentinels in errors.go so callers can decide
// between queueing (ErrTransient) and surfacing (ErrUnauthorized,
// ErrConflict, ErrBadRequest).
//
// [ChangeStream] consumes the server-sent events channel.
package adapter

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/MKhiriev/go-fin-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/backend_adapter_mock.go -package=mock

// BackendAdapter defines communication with the finance backend.
type BackendAdapter interface {
	// SetToken stores the bearer token attached to every subsequent request.
	SetToken(token string)

	// Token returns the current bearer token or "".
	Token() string

	// Health probes the health endpoint with a short timeout. Any network
	// error or non-2xx status is returned as an error.
	Health(ctx context.Context) error

	// ListPage fetches one page of a collection ("transactions",
	// "categories", ...) with the given filters.
	ListPage(ctx context.Context, collection string, params url.Values, limit, offset int) (models.ListEnvelope, error)

	// Send performs a mutating call and returns the unwrapped response
	// record (nil for empty bodies).
	Send(ctx context.Context, req models.WriteRequest) (json.RawMessage, error)

	// Get performs a keyed read (a single record, the dashboard, a report)
	// and returns the unwrapped body.
	Get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error)
}

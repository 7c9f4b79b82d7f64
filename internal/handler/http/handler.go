// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
)

const defaultHeartbeat = 15 * time.Second

// Handler serves the finance backend contract from an in-memory [Ledger].
type Handler struct {
	ledger  *Ledger
	changes *changeBroker
	replays *idempotencyStore

	authCfg        config.ServerAuth
	requestTimeout time.Duration
	heartbeat      time.Duration

	outage atomic.Bool

	logger *logger.Logger
}

// NewHandler creates the reference backend handler. Requests are
// authenticated only when auth.TokenSignKey is set.
func NewHandler(ledger *Ledger, cfg config.ServerConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		ledger:         ledger,
		changes:        newChangeBroker(),
		replays:        newIdempotencyStore(),
		authCfg:        cfg.Auth,
		requestTimeout: cfg.Server.RequestTimeout,
		heartbeat:      defaultHeartbeat,
		logger:         logger,
	}
}

// SetOutage switches the simulated outage on or off. While it is on every
// route, /health included, answers 503.
func (h *Handler) SetOutage(down bool) {
	h.outage.Store(down)
	h.logger.Info().Bool("outage", down).Msg("outage switch toggled")
}

func (h *Handler) withOutage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.outage.Load() {
			writeError(w, r, ErrBackendUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}

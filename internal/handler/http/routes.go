// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-fin-keeper/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, h.withOutage)

	router.Get("/health", h.health)

	router.Group(func(r chi.Router) {
		if h.authCfg.TokenSignKey != "" {
			r.Use(h.auth)
		}

		// the stream is long-lived and must not be buffered or timed out
		r.Get("/events", h.events)

		r.Group(func(r chi.Router) {
			if h.requestTimeout > 0 {
				r.Use(middleware.Timeout(h.requestTimeout))
			}
			r.Use(withGZip)

			mountRecords(r, h, h.ledger.Transactions, transactionFilter, nil)
			mountRecords(r, h, h.ledger.Categories, categoryFilter, h.ledger.categoryReferences)
			mountRecords(r, h, h.ledger.Sources, noFilter[models.Source], h.ledger.sourceReferences)
			mountRecords(r, h, h.ledger.Targets, noFilter[models.Target], nil)

			r.Get("/dashboard", h.dashboard)
			r.Get("/reports/{name}", h.report)
		})
	})

	return router
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/utils"
	"github.com/MKhiriev/go-fin-keeper/models"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// listFilter turns query parameters into a record predicate.
type listFilter[T any] func(url.Values) (func(T) bool, error)

// listPage is the body of a collection listing.
type listPage[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// recordRoutes serves the CRUD endpoints of one collection.
type recordRoutes[T any, PT models.RecordPtr[T]] struct {
	h          *Handler
	records    *ledgerCollection[T, PT]
	filter     listFilter[T]
	references func(int64) map[string]int
}

// mountRecords registers GET/POST /<collection> and GET/PUT/DELETE
// /<collection>/{id}. Writes are guarded by the Idempotency-Key replay.
func mountRecords[T any, PT models.RecordPtr[T]](
	r chi.Router,
	h *Handler,
	records *ledgerCollection[T, PT],
	filter listFilter[T],
	references func(int64) map[string]int,
) {
	rr := &recordRoutes[T, PT]{h: h, records: records, filter: filter, references: references}

	r.Route("/"+records.resource.Collection(), func(r chi.Router) {
		r.Get("/", rr.list)
		r.With(h.withIdempotency).Post("/", rr.create)
		r.Get("/{id}", rr.get)
		r.With(h.withIdempotency).Put("/{id}", rr.update)
		r.With(h.withIdempotency).Delete("/{id}", rr.delete)
	})
}

func (rr *recordRoutes[T, PT]) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, offset, err := pageParams(query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	match, err := rr.filter(query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, total := rr.records.list(match, limit, offset)
	if _, err = utils.WriteJSON(w, listPage[T]{Items: items, Total: total}, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing list response")
	}
}

func (rr *recordRoutes[T, PT]) get(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := rr.records.get(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, rec, http.StatusOK)
}

func (rr *recordRoutes[T, PT]) create(w http.ResponseWriter, r *http.Request) {
	var in T
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, invalidRecord("malformed JSON"))
		return
	}

	rec, err := rr.records.create(in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().
		Str("resource", string(rr.records.resource)).
		Int64("id", PT(&rec).Meta().ID).
		Msg("record created")

	rr.h.changes.publish(rr.records.resource, "created", PT(&rec).Meta().ID)
	_, _ = utils.WriteJSON(w, rec, http.StatusCreated)
}

func (rr *recordRoutes[T, PT]) update(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in T
	if err = json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, invalidRecord("malformed JSON"))
		return
	}

	rec, err := rr.records.update(id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rr.h.changes.publish(rr.records.resource, "updated", id)
	_, _ = utils.WriteJSON(w, rec, http.StatusOK)
}

func (rr *recordRoutes[T, PT]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = rr.records.delete(id, rr.references); err != nil {
		writeError(w, r, err)
		return
	}

	rr.h.changes.publish(rr.records.resource, "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func recordID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", ErrInvalidQuery)
	}
	return id, nil
}

func pageParams(query url.Values) (limit, offset int, err error) {
	limit, offset = defaultPageLimit, 0

	if raw := query.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("%w: limit", ErrInvalidQuery)
		}
		limit = min(limit, maxPageLimit)
	}
	if raw := query.Get("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("%w: offset", ErrInvalidQuery)
		}
	}
	return limit, offset, nil
}

func transactionFilter(query url.Values) (func(models.Transaction) bool, error) {
	f, err := parseTransactionFilters(query)
	if err != nil {
		return nil, err
	}
	return f.Match, nil
}

func parseTransactionFilters(query url.Values) (models.TransactionFilters, error) {
	f := models.TransactionFilters{
		Type: models.TransactionType(query.Get("type")),
		From: query.Get("from"),
		To:   query.Get("to"),
	}

	var err error
	if raw := query.Get("category_id"); raw != "" {
		if f.CategoryID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return f, fmt.Errorf("%w: category_id", ErrInvalidQuery)
		}
	}
	if raw := query.Get("source_id"); raw != "" {
		if f.SourceID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return f, fmt.Errorf("%w: source_id", ErrInvalidQuery)
		}
	}
	return f, nil
}

func categoryFilter(query url.Values) (func(models.Category) bool, error) {
	f := models.CategoryFilters{Type: models.TransactionType(query.Get("type"))}
	return f.Match, nil
}

func noFilter[T any](url.Values) (func(T) bool, error) {
	return nil, nil
}

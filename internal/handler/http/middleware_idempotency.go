// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"sync"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "Idempotent-Replayed"
)

// storedResponse is a write response kept for replay.
type storedResponse struct {
	mu sync.Mutex

	done        bool
	status      int
	contentType string
	body        []byte
}

// idempotencyStore remembers the responses of keyed writes. Entries are
// never evicted.
type idempotencyStore struct {
	mu        sync.Mutex
	responses map[string]*storedResponse
}

func newIdempotencyStore() *idempotencyStore {
	return &idempotencyStore{responses: make(map[string]*storedResponse)}
}

// entry returns the locked slot for key. The caller must unlock it.
func (s *idempotencyStore) entry(key string) *storedResponse {
	s.mu.Lock()
	resp, ok := s.responses[key]
	if !ok {
		resp = &storedResponse{}
		s.responses[key] = resp
	}
	s.mu.Unlock()

	resp.mu.Lock()
	return resp
}

// withIdempotency replays the stored response of a write that was already
// executed under the same Idempotency-Key, method and path. Concurrent
// requests with one key are serialised. 5xx responses are not stored, so a
// failed write can be retried with its key.
func (h *Handler) withIdempotency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(idempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		stored := h.replays.entry(r.Method + " " + r.URL.Path + " " + key)
		defer stored.mu.Unlock()

		if stored.done {
			logger.FromRequest(r).Info().Str("idempotency_key", key).Msg("replaying stored response")
			if stored.contentType != "" {
				w.Header().Set("Content-Type", stored.contentType)
			}
			w.Header().Set(replayedHeader, "true")
			w.WriteHeader(stored.status)
			_, _ = w.Write(stored.body)
			return
		}

		rw := &responseWriter{ResponseWriter: w, keepBody: true}
		next.ServeHTTP(rw, r)

		if rw.status == 0 {
			rw.status = http.StatusOK
		}
		if rw.status >= http.StatusInternalServerError {
			return
		}
		stored.done = true
		stored.status = rw.status
		stored.contentType = rw.Header().Get("Content-Type")
		stored.body = rw.body
	})
}

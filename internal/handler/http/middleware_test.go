// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/utils"
	"github.com/MKhiriev/go-fin-keeper/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareHandler() *Handler {
	return &Handler{logger: logger.Nop(), replays: newIdempotencyStore(), changes: newChangeBroker()}
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	h, srv := startBackend(t, openServerConfig(), WithNextID(917))
	key := uuid.NewString()

	first := call(t, srv, http.MethodPost, "/transactions", coffee(), idempotencyKeyHeader, key)
	second := call(t, srv, http.MethodPost, "/transactions", coffee(), idempotencyKeyHeader, key)

	require.Equal(t, http.StatusCreated, first.status)
	require.Equal(t, http.StatusCreated, second.status)
	assert.JSONEq(t, string(first.body), string(second.body))
	assert.Empty(t, first.header.Get(replayedHeader))
	assert.Equal(t, "true", second.header.Get(replayedHeader))

	assert.Equal(t, 1, h.ledger.Transactions.count(func(models.Transaction) bool { return true }),
		"a replayed key must not create a second record")

	third := call(t, srv, http.MethodPost, "/transactions", coffee(), idempotencyKeyHeader, uuid.NewString())
	var tx models.Transaction
	third.decode(t, &tx)
	assert.Equal(t, int64(918), tx.ID)
}

func TestIdempotency_WithoutKeyEveryRequestExecutes(t *testing.T) {
	h, srv := startBackend(t, openServerConfig())

	call(t, srv, http.MethodPost, "/transactions", coffee())
	call(t, srv, http.MethodPost, "/transactions", coffee())

	assert.Equal(t, 2, h.ledger.Transactions.count(func(models.Transaction) bool { return true }))
}

func TestIdempotency_ServerErrorsAreNotStored(t *testing.T) {
	h := newBareHandler()

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"id":1}`))
	})
	mw := h.withIdempotency(next)

	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/transactions", nil)
		req.Header.Set(idempotencyKeyHeader, "k1")
		mw.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2, calls, "the 500 is retried, the 200 is replayed")
}

func TestIdempotency_ConcurrentSameKey(t *testing.T) {
	h, srv := startBackend(t, openServerConfig())
	key := uuid.NewString()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			call(t, srv, http.MethodPost, "/transactions", coffee(), idempotencyKeyHeader, key)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, h.ledger.Transactions.count(func(models.Transaction) bool { return true }))
}

func TestIdempotency_KeyScopedByPath(t *testing.T) {
	_, srv := startBackend(t, openServerConfig())
	key := uuid.NewString()

	tx := call(t, srv, http.MethodPost, "/transactions", coffee(), idempotencyKeyHeader, key)
	src := call(t, srv, http.MethodPost, "/sources", models.SourceInput{Name: "Cash"}, idempotencyKeyHeader, key)

	assert.Equal(t, http.StatusCreated, tx.status)
	assert.Equal(t, http.StatusCreated, src.status)
	assert.Empty(t, src.header.Get(replayedHeader))
}

func TestAuth(t *testing.T) {
	_, srv := startBackend(t, authServerConfig())

	valid, err := utils.GenerateJWTToken(testIssuer, 7, time.Hour, testSignKey)
	require.NoError(t, err)
	foreign, err := utils.GenerateJWTToken(testIssuer, 7, time.Hour, "other-key")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "bearer without token", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "wrong signature", header: "Bearer " + foreign.SignedString, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer a.b.c", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + valid.SignedString, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []string
			if tt.header != "" {
				headers = []string{"Authorization", tt.header}
			}
			resp := call(t, srv, http.MethodGet, "/transactions", nil, headers...)
			assert.Equal(t, tt.wantStatus, resp.status)
		})
	}

	assert.Equal(t, http.StatusNoContent, call(t, srv, http.MethodGet, "/health", nil).status, "health is public")
}

func TestAuth_UserIDInContext(t *testing.T) {
	h := newBareHandler()
	h.authCfg.TokenSignKey, h.authCfg.TokenIssuer = testSignKey, testIssuer

	token, err := utils.GenerateJWTToken(testIssuer, 42, time.Hour, testSignKey)
	require.NoError(t, err)

	var got int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = utils.GetUserIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token.SignedString)
	h.auth(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, int64(42), got)
}

func TestOutage(t *testing.T) {
	h, srv := startBackend(t, openServerConfig())

	h.SetOutage(true)
	assert.Equal(t, http.StatusServiceUnavailable, call(t, srv, http.MethodGet, "/health", nil).status)
	assert.Equal(t, http.StatusServiceUnavailable, call(t, srv, http.MethodPost, "/transactions", coffee()).status)

	h.SetOutage(false)
	assert.Equal(t, http.StatusNoContent, call(t, srv, http.MethodGet, "/health", nil).status)
	assert.Equal(t, 0, h.ledger.Transactions.count(func(models.Transaction) bool { return true }))
}

func TestWithTraceID(t *testing.T) {
	h := newBareHandler()

	tests := []struct {
		name     string
		incoming string
	}{
		{name: "reuses incoming id", incoming: "my-custom-trace-id"},
		{name: "generates uuid", incoming: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxTraceID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxTraceID = utils.GetTraceIDFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(traceIDHeader, tt.incoming)
			}
			rr := httptest.NewRecorder()
			h.withTraceID(next).ServeHTTP(rr, req)

			got := rr.Header().Get(traceIDHeader)
			assert.Equal(t, got, ctxTraceID)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, got)
			} else {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithLogging(t *testing.T) {
	h := newBareHandler()
	var buf bytes.Buffer

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", nil)
	req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))
	h.withLogging(next).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"method":"POST"`)
	assert.Contains(t, out, `"uri":"/transactions"`)
	assert.Contains(t, out, `"status":201`)
	assert.Contains(t, out, `"size":5`)
}

func TestWithLogging_LevelFollowsStatus(t *testing.T) {
	h := newBareHandler()

	tests := []struct {
		status int
		level  string
	}{
		{status: http.StatusNoContent, level: "info"},
		{status: http.StatusConflict, level: "warn"},
		{status: http.StatusServiceUnavailable, level: "error"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(replayedHeader, "true")
			w.WriteHeader(tt.status)
		})

		req := httptest.NewRequest(http.MethodDelete, "/categories/1", nil)
		req.Header.Set(idempotencyKeyHeader, "key-1")
		req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))
		h.withLogging(next).ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		assert.Contains(t, out, `"level":"`+tt.level+`"`)
		assert.Contains(t, out, `"idempotency_key":"key-1"`)
		assert.Contains(t, out, `"replayed":true`)
	}
}

func TestResponseWriter(t *testing.T) {
	t.Run("keeps first status", func(t *testing.T) {
		rr := httptest.NewRecorder()
		w := &responseWriter{ResponseWriter: rr}
		w.WriteHeader(http.StatusAccepted)
		w.WriteHeader(http.StatusTeapot)

		assert.Equal(t, http.StatusAccepted, w.status)
		assert.Equal(t, http.StatusAccepted, rr.Code)
	})

	t.Run("implicit 200 and size", func(t *testing.T) {
		w := &responseWriter{ResponseWriter: httptest.NewRecorder()}
		_, _ = w.Write([]byte("ab"))
		_, _ = w.Write([]byte("cde"))

		assert.Equal(t, http.StatusOK, w.status)
		assert.Equal(t, 5, w.size)
		assert.Nil(t, w.body)
	})

	t.Run("keeps whole body on request", func(t *testing.T) {
		w := &responseWriter{ResponseWriter: httptest.NewRecorder(), keepBody: true}
		_, _ = w.Write([]byte("ab"))
		_, _ = w.Write([]byte("cde"))

		assert.Equal(t, []byte("abcde"), w.body)
	})

	t.Run("unwrap", func(t *testing.T) {
		rr := httptest.NewRecorder()
		w := &responseWriter{ResponseWriter: rr}
		assert.Same(t, rr, w.Unwrap())
	})
}

func TestGZip(t *testing.T) {
	payload := strings.Repeat(`{"description":"coffee"},`, 50)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if len(body) > 0 {
			_, _ = w.Write(body)
			return
		}
		_, _ = w.Write([]byte(payload))
	})

	t.Run("compresses when accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rr := httptest.NewRecorder()
		withGZip(next).ServeHTTP(rr, req)

		require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
		zr, err := gzip.NewReader(rr.Body)
		require.NoError(t, err)
		got, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, payload, string(got))
	})

	t.Run("plain when not accepted", func(t *testing.T) {
		rr := httptest.NewRecorder()
		withGZip(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, rr.Header().Get("Content-Encoding"))
		assert.Equal(t, payload, rr.Body.String())
	})

	t.Run("decompresses request body", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte("hello"))
		require.NoError(t, zw.Close())

		req := httptest.NewRequest(http.MethodPost, "/", &buf)
		req.Header.Set("Content-Encoding", "gzip")
		rr := httptest.NewRecorder()
		withGZip(next).ServeHTTP(rr, req)

		assert.Equal(t, "hello", rr.Body.String())
	})

	t.Run("invalid gzip body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not gzip"))
		req.Header.Set("Content-Encoding", "gzip")
		rr := httptest.NewRecorder()
		withGZip(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("no content stays uncompressed", func(t *testing.T) {
		empty := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rr := httptest.NewRecorder()
		withGZip(empty).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Header().Get("Content-Encoding"))
		assert.Zero(t, rr.Body.Len())
	})
}

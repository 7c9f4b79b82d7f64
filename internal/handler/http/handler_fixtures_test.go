// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/stretchr/testify/require"
)

const (
	testSignKey = "test-sign-key"
	testIssuer  = "go-fin-keeper-test"
)

func openServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Server: config.Server{HTTPAddress: "127.0.0.1:0", RequestTimeout: 5 * time.Second},
	}
}

func authServerConfig() config.ServerConfig {
	cfg := openServerConfig()
	cfg.Auth = config.ServerAuth{TokenSignKey: testSignKey, TokenIssuer: testIssuer, TokenDuration: time.Hour}
	return cfg
}

// startBackend serves a fresh ledger on an httptest server.
func startBackend(t *testing.T, cfg config.ServerConfig, opts ...LedgerOption) (*Handler, *httptest.Server) {
	t.Helper()

	h := NewHandler(NewLedger(opts...), cfg, nopLogger())
	return h, serve(t, h)
}

func serve(t *testing.T, h *Handler) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)
	return srv
}

func nopLogger() *logger.Logger {
	return logger.Nop()
}

type testResponse struct {
	status int
	header http.Header
	body   []byte
}

func (r testResponse) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any, headers ...string) testResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return testResponse{status: resp.StatusCode, header: resp.Header, body: b}
}

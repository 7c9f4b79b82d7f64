// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/utils"
	"github.com/MKhiriev/go-fin-keeper/models"
	"github.com/go-resty/resty/v2"
)

const headerIdempotencyKey = "Idempotency-Key"

type httpBackendAdapter struct {
	client *utils.HTTPClient

	healthPath    string
	healthTimeout time.Duration

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPBackendAdapter constructs the REST implementation of
// [BackendAdapter]. The base URL is normalised from adapterCfg.HTTPAddress
// and appCfg.AuthToken, if set, becomes the initial bearer token.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPBackendAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (BackendAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	healthPath := adapterCfg.HealthPath
	if healthPath == "" {
		healthPath = config.DefaultHealthPath
	}
	healthTimeout := adapterCfg.HealthTimeout
	if healthTimeout <= 0 {
		healthTimeout = config.DefaultHealthTimeout
	}

	a := &httpBackendAdapter{
		client:        utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		healthPath:    healthPath,
		healthTimeout: healthTimeout,
		logger:        logger.Component("adapter"),
	}
	a.SetToken(appCfg.AuthToken)

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpBackendAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpBackendAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Health implements [BackendAdapter]. The probe bypasses every cache on the
// way: it sends no-cache headers and a unique query parameter.
func (h *httpBackendAdapter) Health(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, h.healthTimeout)
	defer cancel()

	resp, err := h.client.R().
		SetContext(probeCtx).
		SetHeader("Cache-Control", "no-cache, no-store, must-revalidate").
		SetHeader("Pragma", "no-cache").
		SetQueryParam("_", strconv.FormatInt(time.Now().UnixNano(), 10)).
		Get(h.healthPath)
	if err != nil {
		return mapTransportError(ctx, "health request", err)
	}

	return mapHTTPError(resp)
}

func (h *httpBackendAdapter) ListPage(ctx context.Context, collection string, params url.Values, limit, offset int) (models.ListEnvelope, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	resp, err := h.authedRequest(ctx).
		SetQueryParamsFromValues(query).
		Get("/" + strings.TrimPrefix(collection, "/"))
	if err != nil {
		return models.ListEnvelope{}, mapTransportError(ctx, "list request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ListEnvelope{}, err
	}

	var page models.ListEnvelope
	if err = json.Unmarshal(resp.Body(), &page); err != nil {
		return models.ListEnvelope{}, fmt.Errorf("decode %s page: %w", collection, err)
	}

	h.logger.Debug().
		Str("func", "httpBackendAdapter.ListPage").
		Str("collection", collection).
		Int("offset", offset).
		Int("items", len(page.Items)).
		Msg("page fetched")

	return page, nil
}

func (h *httpBackendAdapter) Send(ctx context.Context, req models.WriteRequest) (json.RawMessage, error) {
	r := h.authedRequest(ctx)
	if len(req.Payload) > 0 {
		r.SetHeader("Content-Type", "application/json").SetBody([]byte(req.Payload))
	}
	if req.IdempotencyKey != "" {
		r.SetHeader(headerIdempotencyKey, req.IdempotencyKey)
	}

	var method string
	switch req.Method {
	case models.MethodPost:
		method = http.MethodPost
	case models.MethodPut:
		method = http.MethodPut
	case models.MethodDelete:
		method = http.MethodDelete
	default:
		return nil, fmt.Errorf("unsupported write method %q", req.Method)
	}

	resp, err := r.Execute(method, req.Endpoint)
	if err != nil {
		return nil, mapTransportError(ctx, strings.ToLower(method)+" request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		h.logger.Debug().Err(err).
			Str("func", "httpBackendAdapter.Send").
			Str("method", method).
			Str("endpoint", req.Endpoint).
			Msg("write rejected")
		return nil, err
	}

	return unwrapRecord(resp)
}

func (h *httpBackendAdapter) Get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParamsFromValues(params).
		Get(endpoint)
	if err != nil {
		return nil, mapTransportError(ctx, "get request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return unwrapRecord(resp)
}

func (h *httpBackendAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func unwrapRecord(resp *resty.Response) (json.RawMessage, error) {
	if len(strings.TrimSpace(string(resp.Body()))) == 0 {
		return nil, nil
	}

	var env models.RecordEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return env.Data, nil
}

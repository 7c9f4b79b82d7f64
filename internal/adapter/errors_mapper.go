// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-fin-keeper/models"
	"github.com/go-resty/resty/v2"
)

func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	switch {
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case code == http.StatusConflict:
		return newConflictError(resp.Body())
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrTransient, code, body)
	default:
		if body == "" {
			body = http.StatusText(code)
		}
		return fmt.Errorf("%w: http %d: %s", ErrUnexpectedStatus, code, body)
	}
}

func newConflictError(body []byte) *ConflictError {
	var detail models.ConflictDetail
	if err := json.Unmarshal(body, &detail); err != nil || (detail.Message == "" && len(detail.References) == 0) {
		detail = models.ConflictDetail{Message: strings.TrimSpace(string(body))}
	}
	return &ConflictError{Detail: detail}
}

// mapTransportError classifies an error returned by resty before any
// response was received. Only the caller's own context error is passed
// through; client-side timeouts become transient network errors and do not
// match context.DeadlineExceeded.
func mapTransportError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	return fmt.Errorf("%w: %w: %s: %v", ErrTransient, ErrNetwork, op, err)
}

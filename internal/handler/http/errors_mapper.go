// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/utils"
)

var errorStatusMap = map[error]int{
	ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,

	ErrInvalidRecord: http.StatusBadRequest,
	ErrInvalidQuery:  http.StatusBadRequest,

	ErrRecordNotFound: http.StatusNotFound,
	ErrUnknownReport:  http.StatusNotFound,

	ErrRecordInUse: http.StatusConflict,

	ErrBackendUnavailable: http.StatusServiceUnavailable,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err as a JSON error body. Conflicts carry their
// reference counts.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	var inUse *InUseError
	if errors.As(err, &inUse) {
		log.Info().Err(err).Msg("delete refused")
		_, _ = utils.WriteJSON(w, inUse.Detail(), status)
		return
	}

	if status >= http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Msg("request rejected")
	}
	utils.WriteError(w, err.Error(), status)
}

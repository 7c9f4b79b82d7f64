// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-fin-keeper/models"
)

var (
	// ErrTransient covers network failures, timeouts and 5xx, 408 and 429
	// responses. Writes failing with it are queued and retried.
	ErrTransient = errors.New("backend temporarily unavailable")

	// ErrNetwork marks transient errors where no response was received at
	// all. It is always combined with ErrTransient.
	ErrNetwork = errors.New("network error")

	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("client unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	// ErrUnexpectedStatus is returned for any other non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected http status")
)

// ConflictError is returned for 409 responses. It matches ErrConflict with
// errors.Is and carries the decoded body, e.g. how many transactions still
// reference a category that was asked to be deleted.
type ConflictError struct {
	Detail models.ConflictDetail
}

func (e *ConflictError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrConflict.Error())
	if e.Detail.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail.Message)
	}
	for name, n := range e.Detail.References {
		fmt.Fprintf(&sb, " (%s: %d)", name, n)
	}
	return sb.String()
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// IsTransient reports whether err is worth retrying later.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsNetwork reports whether err means the backend could not be reached.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

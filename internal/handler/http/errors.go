// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-fin-keeper/models"
)

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")
)

// Ledger errors.
var (
	// ErrRecordNotFound is returned when the addressed id does not exist in
	// the collection.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidRecord is returned when a create or update payload fails
	// validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidQuery is returned for malformed paging or filter parameters.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrRecordInUse is wrapped by [InUseError].
	ErrRecordInUse = errors.New("record is in use")

	// ErrUnknownReport is returned for a report name the backend does not
	// produce.
	ErrUnknownReport = errors.New("unknown report")

	// ErrBackendUnavailable is served while the outage switch is on.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// InUseError refuses a delete of a record other records still reference.
// It is rendered as a 409 with a [models.ConflictDetail] body.
type InUseError struct {
	Resource   models.ResourceType
	References map[string]int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s is referenced by %v", e.Resource, e.References)
}

func (e *InUseError) Unwrap() error {
	return ErrRecordInUse
}

// Detail converts e into the response body.
func (e *InUseError) Detail() models.ConflictDetail {
	return models.ConflictDetail{
		Message:    fmt.Sprintf("%s is in use", e.Resource),
		References: e.References,
	}
}

func invalidRecord(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRecord, reason)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strconv"

// ResourceType identifies the domain collection a record or a queued write
// belongs to.
type ResourceType string

const (
	ResourceTransaction ResourceType = "transaction"
	ResourceCategory    ResourceType = "category"
	ResourceSource      ResourceType = "source"
	ResourceTarget      ResourceType = "target"
	ResourceOther       ResourceType = "other"
)

// Collection returns the plural path segment used by the backend for r
// ("transactions", "categories", ...). ResourceOther has no collection.
func (r ResourceType) Collection() string {
	switch r {
	case ResourceTransaction:
		return "transactions"
	case ResourceCategory:
		return "categories"
	case ResourceSource:
		return "sources"
	case ResourceTarget:
		return "targets"
	default:
		return ""
	}
}

// ResourceFromCollection is the inverse of [ResourceType.Collection].
// Unknown collections map to ResourceOther.
func ResourceFromCollection(collection string) ResourceType {
	for _, r := range []ResourceType{ResourceTransaction, ResourceCategory, ResourceSource, ResourceTarget} {
		if r.Collection() == collection || string(r) == collection {
			return r
		}
	}
	return ResourceOther
}

// DataSource is the provenance tag attached to records in a merged view.
// It is never sent to the backend.
type DataSource string

const (
	DataSourceOnline   DataSource = "online"
	DataSourceLocal    DataSource = "local"
	DataSourceSnapshot DataSource = "snapshot"
)

// RecordMeta holds identity and provenance fields shared by every domain
// record. It is embedded into Transaction, Category, Source and Target.
type RecordMeta struct {
	// ID is the server-assigned identifier. Zero until the backend confirms
	// the record.
	ID int64 `json:"id,omitempty"`

	// TempID is the client-generated placeholder id of a record created
	// while the backend was unreachable.
	TempID string `json:"tempId,omitempty"`

	// IsOffline marks a genuine offline create or edit that has not been
	// confirmed by the backend yet.
	IsOffline bool `json:"_isOffline,omitempty"`

	// Deleted marks a local tombstone for an offline delete.
	Deleted bool `json:"_deleted,omitempty"`

	// DataSource is set by the merge engine on every returned record.
	DataSource DataSource `json:"_dataSource,omitempty"`
}

// Meta gives generic code access to the embedded identity fields.
func (m *RecordMeta) Meta() *RecordMeta {
	return m
}

// Key returns the merge key: the server id when present, the temp id
// otherwise.
func (m RecordMeta) Key() string {
	if m.ID != 0 {
		return "id:" + strconv.FormatInt(m.ID, 10)
	}
	return "tmp:" + m.TempID
}

// IsNew reports whether the record was created offline and never confirmed.
func (m RecordMeta) IsNew() bool {
	return m.ID == 0 && m.TempID != ""
}

// Record is implemented by every domain record handled by the merge engine.
//
// Fingerprint is the content identity used by the duplicate detector for
// records that were created offline and later accepted by the backend under
// a different id. SortKey is compared as a plain string.
type Record interface {
	Meta() *RecordMeta
	Fingerprint() string
	SortKey() string
}

// RecordPtr constrains generic code to pointer types of domain records so
// that provenance can be written back into the value.
type RecordPtr[T any] interface {
	*T
	Record
}

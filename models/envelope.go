// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ListEnvelope is a page of records returned by a collection endpoint.
//
// It accepts every shape the backend is known to produce:
// {"items": [...]}, {"data": {"items": [...]}}, {"data": [...]} and a bare
// array.
type ListEnvelope struct {
	Items []json.RawMessage
	Total int
}

func (e *ListEnvelope) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		e.Items = nil
		return nil
	}
	if b[0] == '[' {
		return json.Unmarshal(b, &e.Items)
	}

	var obj struct {
		Items json.RawMessage `json:"items"`
		Data  json.RawMessage `json:"data"`
		Total int             `json:"total"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("decode list envelope: %w", err)
	}
	e.Total = obj.Total

	switch {
	case len(obj.Items) > 0:
		return json.Unmarshal(obj.Items, &e.Items)
	case len(obj.Data) > 0:
		var inner ListEnvelope
		if err := json.Unmarshal(obj.Data, &inner); err != nil {
			return err
		}
		e.Items = inner.Items
		if e.Total == 0 {
			e.Total = inner.Total
		}
	}
	return nil
}

// RecordEnvelope is a single record returned by a write or keyed read. Both
// {"data": {...}} and a bare object are accepted.
type RecordEnvelope struct {
	Data json.RawMessage
}

func (e *RecordEnvelope) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		e.Data = nil
		return nil
	}
	if b[0] != '{' {
		e.Data = append(json.RawMessage(nil), b...)
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("decode record envelope: %w", err)
	}
	data, hasData := obj["data"]
	_, hasID := obj["id"]
	if hasData && !hasID && len(bytes.TrimSpace(data)) > 0 && bytes.TrimSpace(data)[0] == '{' {
		e.Data = data
		return nil
	}
	e.Data = append(json.RawMessage(nil), b...)
	return nil
}

// DecodeItems converts the raw items of a page into typed records.
func DecodeItems[T any](items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, raw := range items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ChangeEvent is a typed notification from the backend push channel, e.g.
// "transaction:created". Only the type is interpreted.
type ChangeEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Resource returns the resource named by the event type prefix.
func (e ChangeEvent) Resource() ResourceType {
	prefix, _, _ := strings.Cut(e.Type, ":")
	return ResourceFromCollection(prefix)
}

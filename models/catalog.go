// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"net/url"
	"strings"
)

// Category groups transactions of one direction (income or expense).
type Category struct {
	RecordMeta

	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color,omitempty"`
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color,omitempty"`
}

func NewCategory(in CategoryInput) Category {
	return Category{Name: in.Name, Type: in.Type, Color: in.Color}
}

func (c Category) Input() CategoryInput {
	return CategoryInput{Name: c.Name, Type: c.Type, Color: c.Color}
}

func (c Category) Fingerprint() string {
	return strings.ToLower(strings.TrimSpace(c.Name)) + "|" + string(c.Type)
}

func (c Category) SortKey() string {
	return strings.ToLower(c.Name)
}

// Source is an account money is taken from or put into (bank card, cash, ...).
type Source struct {
	RecordMeta

	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

// SourceInput is the create/update payload for a source.
type SourceInput struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

func NewSource(in SourceInput) Source {
	return Source{Name: in.Name, Kind: in.Kind}
}

func (s Source) Input() SourceInput {
	return SourceInput{Name: s.Name, Kind: s.Kind}
}

func (s Source) Fingerprint() string {
	return strings.ToLower(strings.TrimSpace(s.Name))
}

func (s Source) SortKey() string {
	return strings.ToLower(s.Name)
}

// Target is a budget: a spending limit or saving goal for a period.
type Target struct {
	RecordMeta

	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	CategoryID int64   `json:"category_id,omitempty"`
	// Period is a month in YYYY-MM form.
	Period string `json:"period,omitempty"`
}

// TargetInput is the create/update payload for a target.
type TargetInput struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	CategoryID int64   `json:"category_id,omitempty"`
	Period     string  `json:"period,omitempty"`
}

func NewTarget(in TargetInput) Target {
	return Target{Name: in.Name, Amount: in.Amount, CategoryID: in.CategoryID, Period: in.Period}
}

func (t Target) Input() TargetInput {
	return TargetInput{Name: t.Name, Amount: t.Amount, CategoryID: t.CategoryID, Period: t.Period}
}

func (t Target) Fingerprint() string {
	return strings.ToLower(strings.TrimSpace(t.Name)) + "|" + formatAmount(t.Amount) + "|" + t.Period
}

func (t Target) SortKey() string {
	return strings.ToLower(t.Name)
}

// CategoryFilters narrows a category listing.
type CategoryFilters struct {
	Type TransactionType
}

func (f CategoryFilters) Params() url.Values {
	v := url.Values{}
	if f.Type != "" {
		v.Set("type", string(f.Type))
	}
	return v
}

func (f CategoryFilters) Match(c Category) bool {
	return f.Type == "" || c.Type == f.Type
}

// NoFilter lists every record of a collection.
type NoFilter[T any] struct{}

func (NoFilter[T]) Params() url.Values { return url.Values{} }

func (NoFilter[T]) Match(T) bool { return true }

// Filter is the listing contract understood by the merge engine: Params go
// to the backend, Match is applied to local and snapshot records.
type Filter[T any] interface {
	Params() url.Values
	Match(T) bool
}

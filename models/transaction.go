// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a single income or expense entry.
//
// Date is an ISO-8601 date (YYYY-MM-DD, optionally with a time part) and is
// ordered as a string.
type Transaction struct {
	RecordMeta

	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Date        string          `json:"date"`
	CategoryID  int64           `json:"category_id,omitempty"`
	SourceID    int64           `json:"source_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// TransactionInput is the payload sent to the backend on create and update.
type TransactionInput struct {
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Date        string          `json:"date"`
	CategoryID  int64           `json:"category_id,omitempty"`
	SourceID    int64           `json:"source_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// NewTransaction builds an unconfirmed record from in.
func NewTransaction(in TransactionInput) Transaction {
	return Transaction{
		Description: in.Description,
		Amount:      in.Amount,
		Type:        in.Type,
		Date:        in.Date,
		CategoryID:  in.CategoryID,
		SourceID:    in.SourceID,
		Notes:       in.Notes,
	}
}

// Input strips identity and provenance from t.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Description: t.Description,
		Amount:      t.Amount,
		Type:        t.Type,
		Date:        t.Date,
		CategoryID:  t.CategoryID,
		SourceID:    t.SourceID,
		Notes:       t.Notes,
	}
}

// Fingerprint implements [Record]: description, amount (in cents), type and
// calendar date.
func (t Transaction) Fingerprint() string {
	return strings.Join([]string{
		strings.TrimSpace(t.Description),
		formatAmount(t.Amount),
		string(t.Type),
		dateKey(t.Date),
	}, "|")
}

// SortKey implements [Record].
func (t Transaction) SortKey() string {
	return t.Date
}

// TransactionFilters narrows a transaction listing. Zero fields are ignored.
type TransactionFilters struct {
	Type       TransactionType
	CategoryID int64
	SourceID   int64
	// From and To are inclusive ISO dates.
	From string
	To   string
}

// Params encodes f as backend query parameters.
func (f TransactionFilters) Params() url.Values {
	v := url.Values{}
	if f.Type != "" {
		v.Set("type", string(f.Type))
	}
	if f.CategoryID != 0 {
		v.Set("category_id", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.SourceID != 0 {
		v.Set("source_id", strconv.FormatInt(f.SourceID, 10))
	}
	if f.From != "" {
		v.Set("from", f.From)
	}
	if f.To != "" {
		v.Set("to", f.To)
	}
	return v
}

// Match applies f to a local record the backend never filtered.
func (f TransactionFilters) Match(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.CategoryID != 0 && t.CategoryID != f.CategoryID {
		return false
	}
	if f.SourceID != 0 && t.SourceID != f.SourceID {
		return false
	}
	if f.From != "" && dateKey(t.Date) < f.From {
		return false
	}
	if f.To != "" && dateKey(t.Date) > f.To {
		return false
	}
	return true
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(math.Round(amount*100)/100, 'f', 2, 64)
}

func dateKey(date string) string {
	date = strings.TrimSpace(date)
	if len(date) > 10 {
		return date[:10]
	}
	return date
}
